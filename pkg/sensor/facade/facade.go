package facade

import (
	"fmt"
	"sync"

	"github.com/blaubaer/zen-master/pkg/sensor"
	"github.com/blaubaer/zen-master/pkg/sensor/replay"
	"github.com/blaubaer/zen-master/pkg/sensor/serialport"
)

// Facade hides which acquisition backend is active. sensor.TypeNone leaves
// the delegate nil: Available reports false and motion tracking silently
// never starts.
type Facade struct {
	sensor.Source

	lock sync.RWMutex
}

func (this *Facade) Initialize(conf *Configuration) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.Source != nil {
		return nil
	}

	switch conf.Type {
	case sensor.TypeNone:
		// No wearable configured. Session timers still work.
	case sensor.TypeSerial:
		var buf serialport.Serialport
		if err := buf.Initialize(&conf.Serial); err != nil {
			return err
		}
		this.Source = &buf
	case sensor.TypeReplay:
		var buf replay.Replay
		if err := buf.Initialize(&conf.Replay); err != nil {
			return err
		}
		this.Source = &buf
	default:
		return fmt.Errorf("unsupported sensor type: %v", conf.Type)
	}

	return nil
}

func (this *Facade) Available() bool {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.Available()
	}
	return false
}

func (this *Facade) Subscribe(consumer func(sensor.Sample)) error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.Subscribe(consumer)
	}
	return fmt.Errorf("no sensor source configured")
}

func (this *Facade) Unsubscribe() error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.Unsubscribe()
	}
	return nil
}

func (this *Facade) Dispose() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.Source = nil
	}()

	if v := this.Source; v != nil {
		return v.Dispose()
	}
	return nil
}

func (this *Facade) GetType() sensor.Type {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.GetType()
	}
	return sensor.TypeNone
}
