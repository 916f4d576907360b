package session

import (
	"fmt"
	"strings"
)

type Phase uint8

const (
	PhaseIdle      = Phase(0)
	PhaseCountdown = Phase(1)
	PhaseRunning   = Phase(2)
)

var (
	AllPhases = Phases{
		PhaseIdle,
		PhaseCountdown,
		PhaseRunning,
	}
)

func (this *Phase) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "idle":
		*this = PhaseIdle
		return nil
	case "countdown":
		*this = PhaseCountdown
		return nil
	case "running":
		*this = PhaseRunning
		return nil
	default:
		return fmt.Errorf("illegal-session-phase: %s", plain)
	}
}

func (this Phase) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-session-phase-%d", this)
	}
	return string(v)
}

func (this Phase) MarshalText() (text []byte, err error) {
	switch this {
	case PhaseIdle:
		return []byte("idle"), nil
	case PhaseCountdown:
		return []byte("countdown"), nil
	case PhaseRunning:
		return []byte("running"), nil
	default:
		return nil, fmt.Errorf("illegal session phase: %v", this)
	}
}

func (this *Phase) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Phases []Phase

func (this Phases) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Phases) String() string {
	return strings.Join(this.Strings(), ",")
}
