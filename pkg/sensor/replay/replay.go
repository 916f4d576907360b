// Package replay feeds a recorded accelerometer capture back into the
// motion pipeline at its original pace. Used for demos, tests and
// threshold calibration without a wearable at hand.
package replay

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/sensor"
)

type Replay struct {
	// Clock defaults to common.SystemClock; tests inject a manual one.
	Clock common.Clock

	conf    *Configuration
	samples []sensor.Sample

	timer common.Timer
	index int
	mutex sync.Mutex
}

func (this *Replay) Initialize(conf *Configuration) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.conf = conf
	if this.Clock == nil {
		this.Clock = common.SystemClock
	}

	if conf.File == "" {
		return nil
	}

	samples, err := loadCapture(conf.File)
	if err != nil {
		return err
	}
	this.samples = samples

	return nil
}

func loadCapture(fn string) ([]sensor.Sample, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("cannot open capture file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var result []sensor.Sample
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		if sample, ok := sensor.ParseSample(scan.Text()); ok {
			result = append(result, sample)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("cannot read capture file %q: %w", fn, err)
	}

	return result, nil
}

func (this *Replay) Dispose() error {
	return this.Unsubscribe()
}

func (this *Replay) Available() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return len(this.samples) > 0
}

func (this *Replay) Subscribe(consumer func(sensor.Sample)) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.timer != nil {
		return fmt.Errorf("already subscribed to capture %q", this.conf.File)
	}
	if len(this.samples) == 0 {
		return fmt.Errorf("capture %q holds no samples", this.conf.File)
	}

	this.index = 0
	this.timer = this.Clock.Every(this.conf.SampleInterval, func() {
		if sample, ok := this.next(); ok {
			consumer(sample)
		}
	})

	return nil
}

func (this *Replay) next() (sensor.Sample, bool) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.timer == nil {
		return sensor.Sample{}, false
	}

	if this.index >= len(this.samples) {
		if !this.conf.Loop {
			this.timer.Stop()
			this.timer = nil
			return sensor.Sample{}, false
		}
		this.index = 0
	}

	result := this.samples[this.index]
	this.index++
	return result, true
}

func (this *Replay) Unsubscribe() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.timer != nil {
		this.timer.Stop()
		this.timer = nil
	}
	return nil
}

func (this *Replay) GetType() sensor.Type {
	return sensor.TypeReplay
}
