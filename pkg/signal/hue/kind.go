package hue

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindLight = Kind(0)
	KindGroup = Kind(1)
)

var (
	AllKinds = Kinds{
		KindLight,
		KindGroup,
	}
)

func (this *Kind) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "light":
		*this = KindLight
		return nil
	case "group", "room":
		*this = KindGroup
		return nil
	default:
		return fmt.Errorf("illegal-signal-hue-kind: %s", plain)
	}
}

func (this Kind) String() string {
	switch this {
	case KindLight:
		return "light"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("illegal-signal-hue-kind-%d", this)
	}
}

func (this Kind) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Kind) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Kinds []Kind

func (this *Kinds) Set(plain string) error {
	var result Kinds
	for _, part := range strings.Split(plain, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var buf Kind
		if err := buf.Set(part); err != nil {
			return err
		}
		result = append(result, buf)
	}
	*this = result
	return nil
}

func (this Kinds) Has(v Kind) bool {
	for _, candidate := range this {
		if candidate == v {
			return true
		}
	}
	// An empty selection means: handle everything.
	return len(this) == 0
}

func (this Kinds) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Kinds) String() string {
	return strings.Join(this.Strings(), ",")
}
