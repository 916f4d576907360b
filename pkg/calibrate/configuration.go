package calibrate

import (
	"time"

	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		time.Second * 30,
		0.95,
		1.5,
	}
}

type Configuration struct {
	// Duration is how long samples are collected while the wearer sits
	// still.
	Duration time.Duration `yaml:"duration,omitempty"`

	// Quantile of the observed smoothed magnitudes the suggested
	// threshold is based on.
	Quantile float64 `yaml:"quantile,omitempty"`

	// Margin the quantile is multiplied with, to leave headroom above
	// the observed resting noise.
	Margin float64 `yaml:"margin,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("calibrate.duration", "How long samples are collected.").
		Envar("ZM_CALIBRATE_DURATION").
		DurationVar(&this.Duration)
	using.Flag("calibrate.quantile", "Quantile of the observed magnitudes the suggestion is based on, in (0,1].").
		Envar("ZM_CALIBRATE_QUANTILE").
		Float64Var(&this.Quantile)
	using.Flag("calibrate.margin", "Headroom factor applied to the quantile.").
		Envar("ZM_CALIBRATE_MARGIN").
		Float64Var(&this.Margin)
}
