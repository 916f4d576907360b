package hue

import "github.com/blaubaer/zen-master/pkg/common"

func NewConfiguration() Configuration {
	return Configuration{
		false,
		"",
		"",

		common.MustNewRegexp("^Zen"),
		Kinds{},

		64,
		46920,
		200,

		254,
		0,
		254,
	}
}

type Configuration struct {
	Pair   bool   `yaml:"pair,omitempty"`
	Bridge string `yaml:"bridge,omitempty"`
	User   string `yaml:"user,omitempty"`

	Name  common.Regexp `yaml:"target"`
	Kinds Kinds         `yaml:"kinds,omitempty"`

	// The calm scene is shown during countdown and while the wearer
	// holds still.
	CalmBrightness uint8  `yaml:"calmBrightness"`
	CalmHue        uint16 `yaml:"calmHue"`
	CalmSaturation uint8  `yaml:"calmSaturation"`

	// The nudge scene replaces it while the wearer moves.
	NudgeBrightness uint8  `yaml:"nudgeBrightness"`
	NudgeHue        uint16 `yaml:"nudgeHue"`
	NudgeSaturation uint8  `yaml:"nudgeSaturation"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.hue.pair", "If true this application will pair again with an existing hue bridge. This will be implicitly enabled if this application is not already paired.").
		Envar("ZM_SIGNAL_HUE_PAIR").
		BoolVar(&this.Pair)
	using.Flag("signal.hue.bridge", "Usually the bridge is automatically detected. You can specify an explicit one if there is more than one. This is only required while pairing and will afterwards be ignored.").
		Envar("ZM_SIGNAL_HUE_BRIDGE").
		StringVar(&this.Bridge)
	using.Flag("signal.hue.user", "Usually this is set while pairing and will then be persisted. If set, this will be used and not be persisted.").
		Envar("ZM_SIGNAL_HUE_USER").
		StringVar(&this.User)
	using.Flag("signal.hue.name", "Name as regex of the lights/groups which should follow the session.").
		Envar("ZM_SIGNAL_HUE_NAME").
		SetValue(&this.Name)
	using.Flag("signal.hue.kind", "Kind(s) of what should be handled. Possible values: "+AllKinds.String()).
		Envar("ZM_SIGNAL_HUE_KIND").
		SetValue(&this.Kinds)

	using.Flag("signal.hue.calmBrightness", "Brightness of the calm scene, from 1 to 254.").
		Envar("ZM_SIGNAL_HUE_CALMBRIGHTNESS").
		Uint8Var(&this.CalmBrightness)
	using.Flag("signal.hue.calmHue", "Hue of the calm scene. Wrapping value between 0 and 65535; 25500 is green, 46920 is blue.").
		Envar("ZM_SIGNAL_HUE_CALMHUE").
		Uint16Var(&this.CalmHue)
	using.Flag("signal.hue.calmSaturation", "Saturation of the calm scene, from 0 (white) to 254.").
		Envar("ZM_SIGNAL_HUE_CALMSATURATION").
		Uint8Var(&this.CalmSaturation)

	using.Flag("signal.hue.nudgeBrightness", "Brightness of the nudge scene shown while the wearer moves, from 1 to 254.").
		Envar("ZM_SIGNAL_HUE_NUDGEBRIGHTNESS").
		Uint8Var(&this.NudgeBrightness)
	using.Flag("signal.hue.nudgeHue", "Hue of the nudge scene. Both 0 and 65535 are red.").
		Envar("ZM_SIGNAL_HUE_NUDGEHUE").
		Uint16Var(&this.NudgeHue)
	using.Flag("signal.hue.nudgeSaturation", "Saturation of the nudge scene, from 0 (white) to 254.").
		Envar("ZM_SIGNAL_HUE_NUDGESATURATION").
		Uint8Var(&this.NudgeSaturation)
}
