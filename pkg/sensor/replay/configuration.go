package replay

import (
	"time"

	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		"",
		20 * time.Millisecond,
		false,
	}
}

type Configuration struct {
	// File holds one "x,y,z" sample per line, as logged from the dev-kit
	// firmware stream.
	File string `yaml:"file,omitempty"`

	// SampleInterval is the pace the capture is replayed at. 20ms matches
	// the 50Hz the wearable streams at.
	SampleInterval time.Duration `yaml:"sampleInterval,omitempty"`

	Loop bool `yaml:"loop,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("sensor.replay.file", "File with one x,y,z accelerometer sample per line to replay instead of a live wearable.").
		Envar("ZM_SENSOR_REPLAY_FILE").
		StringVar(&this.File)
	using.Flag("sensor.replay.sampleInterval", "Interval between two replayed samples.").
		Envar("ZM_SENSOR_REPLAY_SAMPLEINTERVAL").
		DurationVar(&this.SampleInterval)
	using.Flag("sensor.replay.loop", "If true the capture restarts from the beginning when exhausted.").
		Envar("ZM_SENSOR_REPLAY_LOOP").
		BoolVar(&this.Loop)
}
