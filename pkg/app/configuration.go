package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blaubaer/zen-master/pkg/audio"
	"github.com/blaubaer/zen-master/pkg/calibrate"
	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/motion"
	sensorfacade "github.com/blaubaer/zen-master/pkg/sensor/facade"
	"github.com/blaubaer/zen-master/pkg/session"
	"github.com/blaubaer/zen-master/pkg/signal/facade"
)

func NewConfiguration() Configuration {
	return Configuration{
		false,

		facade.NewConfiguration(),
		sensorfacade.NewConfiguration(),
		motion.NewConfiguration(),
		audio.NewConfiguration(),
		session.NewConfiguration(),
		calibrate.NewConfiguration(),

		time.Minute * 5,
	}
}

type Configuration struct {
	PreventAutoSave bool `yaml:"preventAutoSave"`

	Signal    facade.Configuration       `yaml:"signal,omitempty"`
	Sensor    sensorfacade.Configuration `yaml:"sensor,omitempty"`
	Motion    motion.Configuration       `yaml:"motion,omitempty"`
	Audio     audio.Configuration        `yaml:"audio,omitempty"`
	Session   session.Configuration      `yaml:"session,omitempty"`
	Calibrate calibrate.Configuration    `yaml:"calibrate,omitempty"`

	// RefreshInterval is how often signal backends are refreshed and
	// re-synced, independent of session changes.
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("preventAutoSave", "If provided configuration will NOT automatically be saved upon changes.").
		Envar("ZM_PREVENT_AUTO_SAVE").
		BoolVar(&this.PreventAutoSave)
	using.Flag("refreshInterval", "How often the signal backend should be refreshed.").
		Envar("ZM_REFRESH_INTERVAL").
		DurationVar(&this.RefreshInterval)

	this.Signal.SetupConfiguration(using)
	this.Sensor.SetupConfiguration(using)
	this.Motion.SetupConfiguration(using)
	this.Audio.SetupConfiguration(using)
	this.Session.SetupConfiguration(using)
	this.Calibrate.SetupConfiguration(using)
}

func (this *Configuration) loadFrom(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec.Decode(this)
}

func (this *Configuration) loadFromFile(fn string, ignoreNotFound bool) error {
	f, err := os.Open(fn)
	if os.IsNotExist(err) && ignoreNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.loadFrom(f); err != nil {
		return fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}

	return nil
}

func (this *Configuration) saveTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return enc.Encode(this)
}

func (this *Configuration) saveToFile(fn string) error {
	_ = os.MkdirAll(filepath.Dir(fn), 0700)

	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.saveTo(f); err != nil {
		return fmt.Errorf("cannot write file %q: %w", fn, err)
	}

	return nil
}

func defaultConfigurationFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "zen-master", "configuration.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "configuration.yml"
	}

	return filepath.Join(home, ".config", "zen-master", "configuration.yml")
}
