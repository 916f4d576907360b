package session

import (
	"time"

	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		10 * time.Minute,
		5,
		time.Second,
	}
}

type Configuration struct {
	// DefaultDuration is the selected session length until the user picks
	// another one.
	DefaultDuration time.Duration `yaml:"defaultDuration,omitempty"`

	// CountdownTicks is the number of settle-down ticks before the
	// session actually runs.
	CountdownTicks int `yaml:"countdownTicks,omitempty"`

	// TickInterval is the length of one countdown/duration tick.
	TickInterval time.Duration `yaml:"tickInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("session.defaultDuration", "Session length used until another one is selected.").
		Envar("ZM_SESSION_DEFAULTDURATION").
		DurationVar(&this.DefaultDuration)
	using.Flag("session.countdownTicks", "Number of settle-down ticks before the session runs.").
		Envar("ZM_SESSION_COUNTDOWNTICKS").
		IntVar(&this.CountdownTicks)
	using.Flag("session.tickInterval", "Length of one countdown/duration tick.").
		Envar("ZM_SESSION_TICKINTERVAL").
		DurationVar(&this.TickInterval)
}
