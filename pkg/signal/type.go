package signal

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeSystray       = Type(0)
	TypeHue           = Type(1)
	TypeHomeAssistant = Type(2)

	TypeDefault = TypeSystray
)

var (
	AllTypes = Types{
		TypeSystray,
		TypeHue,
		TypeHomeAssistant,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "systray":
		*this = TypeSystray
		return nil
	case "hue":
		*this = TypeHue
		return nil
	case "homeassistant", "home-assistant":
		*this = TypeHomeAssistant
		return nil
	default:
		return fmt.Errorf("illegal-signal-type: %s", plain)
	}
}

func (this Type) String() string {
	switch this {
	case TypeSystray:
		return "systray"
	case TypeHue:
		return "hue"
	case TypeHomeAssistant:
		return "homeassistant"
	default:
		return fmt.Sprintf("illegal-signal-type-%d", this)
	}
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
