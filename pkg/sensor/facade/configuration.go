package facade

import (
	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/sensor"
	"github.com/blaubaer/zen-master/pkg/sensor/replay"
	"github.com/blaubaer/zen-master/pkg/sensor/serialport"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type:   sensor.TypeDefault,
		Serial: serialport.NewConfiguration(),
		Replay: replay.NewConfiguration(),
	}
}

type Configuration struct {
	Type   sensor.Type              `yaml:"type"`
	Serial serialport.Configuration `yaml:"serial,omitempty"`
	Replay replay.Configuration     `yaml:"replay,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("sensor", "Accelerometer source to use. All possible values: "+sensor.AllTypes.String()).
		Envar("ZM_SENSOR").
		SetValue(&this.Type)

	this.Serial.SetupConfiguration(using)
	this.Replay.SetupConfiguration(using)
}
