package serialport

import (
	"github.com/blaubaer/zen-master/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		"",
		115200,
	}
}

type Configuration struct {
	// Port is the device path of the dev-kit bridge, like COM3 or
	// /dev/ttyUSB0. If empty, the first enumerable port is used.
	Port string `yaml:"port,omitempty"`

	BaudRate int `yaml:"baudRate,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("sensor.serial.port", "Serial port the wearable dev-kit streams accelerometer samples on. If empty the first available port is used.").
		Envar("ZM_SENSOR_SERIAL_PORT").
		StringVar(&this.Port)
	using.Flag("sensor.serial.baudRate", "Baud rate of the wearable dev-kit serial stream.").
		Envar("ZM_SENSOR_SERIAL_BAUDRATE").
		IntVar(&this.BaudRate)
}
