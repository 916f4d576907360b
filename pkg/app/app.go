package app

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"dario.cat/mergo"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/zen-master/pkg/audio"
	"github.com/blaubaer/zen-master/pkg/calibrate"
	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/motion"
	sensorfacade "github.com/blaubaer/zen-master/pkg/sensor/facade"
	"github.com/blaubaer/zen-master/pkg/session"
	"github.com/blaubaer/zen-master/pkg/signal"
	"github.com/blaubaer/zen-master/pkg/signal/facade"
)

func NewApp() *App {
	return &App{
		config: NewConfiguration(),
	}
}

type App struct {
	AudioStack        audio.Stack
	Sensor            sensorfacade.Facade
	Signal            facade.Facade
	OtherSignals      []signal.Signal
	ConfigurationFile string

	tracker motion.Tracker
	numbing audio.Numb
	session session.Session

	lastSnapshot atomic.Pointer[session.Snapshot]

	configFromFlags Configuration
	config          Configuration
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.AudioStack.SetupConfiguration(using)
	this.configFromFlags.SetupConfiguration(using)

	using.Flag("configuration", "Defines the file from which the configuration should be loaded and/or stored to.").
		Short('c').
		StringVar(&this.ConfigurationFile)
}

func (this *App) Initialize() (rErr error) {
	success := false
	defer func() {
		if !success {
			if err := this.Dispose(); err != nil && rErr == nil {
				rErr = err
			}
		}
	}()

	if err := this.config.loadFromFile(this.configurationFile(), true); err != nil {
		return err
	}
	if err := mergo.Merge(&this.config, this.configFromFlags); err != nil {
		return err
	}

	if err := this.AudioStack.Initialize(); err != nil {
		return err
	}
	if err := this.Sensor.Initialize(&this.config.Sensor); err != nil {
		return err
	}
	if err := this.Signal.Initialize(&this.config.Signal, this.alwaysSaveConf); err != nil {
		return err
	}
	if err := this.tracker.Initialize(&this.config.Motion, &this.Sensor); err != nil {
		return err
	}
	if err := this.numbing.Initialize(&this.config.Audio, &this.AudioStack); err != nil {
		return err
	}
	if err := this.session.Initialize(&this.config.Session, &this.tracker, &this.numbing); err != nil {
		return err
	}

	this.tracker.OnDeadzoneChange(this.session.HandleDeadzoneChange)
	this.session.Subscribe(this.onSnapshot)

	if err := this.saveConf(false); err != nil {
		return err
	}

	success = true
	return nil
}

// Session exposes the session for external control surfaces like the
// tray menu.
func (this *App) Session() *session.Session {
	return &this.session
}

func (this *App) Run(ctx context.Context) error {
	snapshot := this.session.Snapshot()
	this.lastSnapshot.Store(&snapshot)
	this.ensureSignals(&snapshot)

	for {
		log.With("interval", this.config.RefreshInterval).
			Debug("Wait until the next refresh...")
		select {
		case <-ctx.Done():
			log.Debug("Refresh loop interrupted.")
			return nil
		case <-time.After(this.config.RefreshInterval):
		}

		if err := this.Signal.Update(); err != nil {
			log.WithError(err).
				Error("Cannot update signal.")
			continue
		}
		for _, s := range this.OtherSignals {
			if err := s.Update(); err != nil {
				log.WithError(err).
					Warn("Cannot update signal.")
			}
		}

		if v := this.lastSnapshot.Load(); v != nil {
			this.ensureSignals(v)
		}
	}
}

// Calibrate records the resting noise of the configured sensor, stores
// the suggested stillness threshold in the configuration and saves it.
func (this *App) Calibrate() (calibrate.Result, error) {
	var calibrator calibrate.Calibrator
	result, err := calibrator.Run(&this.config.Calibrate, &this.config.Motion, &this.Sensor)
	if err != nil {
		return calibrate.Result{}, err
	}

	this.config.Motion.DeadzoneThreshold = result.SuggestedThreshold
	if err := this.alwaysSaveConf(); err != nil {
		return calibrate.Result{}, err
	}

	return result, nil
}

func (this *App) onSnapshot(snapshot session.Snapshot) {
	this.lastSnapshot.Store(&snapshot)
	this.ensureSignals(&snapshot)
}

func (this *App) ensureSignals(snapshot *session.Snapshot) {
	sCtx := &signalContext{*snapshot}
	if err := this.Signal.Ensure(sCtx); err != nil {
		log.WithError(err).
			Error("Cannot ensure signal state.")
	}
	for _, s := range this.OtherSignals {
		if err := s.Ensure(sCtx); err != nil {
			log.WithError(err).
				Warn("Cannot ensure signal state.")
		}
	}
}

type signalContext struct {
	snapshot session.Snapshot
}

func (this *signalContext) Phase() session.Phase {
	return this.snapshot.Phase
}

func (this *signalContext) Deadzone() bool {
	return this.snapshot.Deadzone
}

func (this *signalContext) CountdownRemaining() int {
	return this.snapshot.CountdownRemaining
}

func (this *signalContext) Remaining() time.Duration {
	return this.snapshot.Remaining
}

func (this *signalContext) Selected() time.Duration {
	return this.snapshot.Selected
}

func (this *App) configurationFile() string {
	if v := this.ConfigurationFile; v != "" {
		return v
	}
	return defaultConfigurationFile()
}

func (this *App) alwaysSaveConf() error {
	return this.saveConf(true)
}

func (this *App) saveConf(always bool) error {
	if this.config.PreventAutoSave {
		log.Debug("Automatic save of configuration disabled.")
		return nil
	}

	fn := this.configurationFile()
	if !always {
		_, err := os.Stat(fn)
		if os.IsNotExist(err) {
			log.With("file", fn).Info("Configuration absent.")
			// Ok, we should save...
		} else if err != nil {
			return err
		} else {
			// Does exist, skip...
			return nil
		}
	}

	if err := this.config.saveToFile(fn); err != nil {
		return err
	}

	log.With("file", fn).Info("Configuration saved.")

	return nil
}

func (this *App) Dispose() (rErr error) {
	defer func() {
		if err := this.AudioStack.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	defer func() {
		if err := this.Sensor.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	defer func() {
		if err := this.Signal.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	if err := this.session.Close(); err != nil && rErr == nil {
		rErr = err
	}

	sCtx := signalContext{session.Snapshot{Phase: session.PhaseIdle, Deadzone: true}}

	for _, s := range this.OtherSignals {
		s := s
		defer func() { _ = s.Ensure(&sCtx) }()
	}

	return this.Signal.Ensure(&sCtx)
}
