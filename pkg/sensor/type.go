package sensor

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeNone   = Type(0)
	TypeSerial = Type(1)
	TypeReplay = Type(2)

	TypeDefault = TypeNone
)

var (
	AllTypes = Types{
		TypeNone,
		TypeSerial,
		TypeReplay,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "none", "off":
		*this = TypeNone
		return nil
	case "serial":
		*this = TypeSerial
		return nil
	case "replay":
		*this = TypeReplay
		return nil
	default:
		return fmt.Errorf("illegal-sensor-type: %s", plain)
	}
}

func (this Type) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-sensor-type-%d", this)
	}
	return string(v)
}

func (this Type) MarshalText() (text []byte, err error) {
	switch this {
	case TypeNone:
		return []byte("none"), nil
	case TypeSerial:
		return []byte("serial"), nil
	case TypeReplay:
		return []byte("replay"), nil
	default:
		return nil, fmt.Errorf("illegal sensor type: %d", this)
	}
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}
