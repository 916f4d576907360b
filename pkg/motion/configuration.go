package motion

import (
	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		0.9,
		0.2,
		0.1,
	}
}

type Configuration struct {
	// GravityAlpha is the per-axis low-pass weight of the gravity
	// estimate. Closer to 1 follows gravity slower and lets more slow
	// posture drift through as motion.
	GravityAlpha float64 `yaml:"gravityAlpha,omitempty"`

	// SmoothingAlpha is the EWMA weight of the motion magnitude. Closer
	// to 1 reacts faster but flickers more.
	SmoothingAlpha float64 `yaml:"smoothingAlpha,omitempty"`

	// DeadzoneThreshold is the smoothed linear-acceleration magnitude
	// (m/s²) at or below which the wearer counts as still. Tune per
	// device; `zen-master calibrate` suggests one.
	DeadzoneThreshold float64 `yaml:"deadzoneThreshold,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("motion.gravityAlpha", "Low-pass weight of the per-axis gravity estimate, in (0,1).").
		Envar("ZM_MOTION_GRAVITYALPHA").
		Float64Var(&this.GravityAlpha)
	using.Flag("motion.smoothingAlpha", "EWMA weight of the motion magnitude, in (0,1).").
		Envar("ZM_MOTION_SMOOTHINGALPHA").
		Float64Var(&this.SmoothingAlpha)
	using.Flag("motion.deadzoneThreshold", "Smoothed motion magnitude at or below which the wearer counts as still.").
		Envar("ZM_MOTION_DEADZONETHRESHOLD").
		Float64Var(&this.DeadzoneThreshold)
}
