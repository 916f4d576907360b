package audio

import (
	"time"

	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		2 * time.Second,
	}
}

type Configuration struct {
	// DebounceInterval is how long after the most recent numbing request
	// a queued restore waits. Keeps rapid still/moving flips from causing
	// audible volume chatter.
	DebounceInterval time.Duration `yaml:"debounceInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("audio.debounceInterval", "Minimum delay after the last numbing before the volume is restored.").
		Envar("ZM_AUDIO_DEBOUNCEINTERVAL").
		DurationVar(&this.DebounceInterval)
}
