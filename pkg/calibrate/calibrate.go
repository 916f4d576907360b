// Package calibrate records the resting motion noise of a device and
// suggests a stillness threshold for it.
package calibrate

import (
	"fmt"
	"math"
	"sort"
	"sync"

	log "github.com/echocat/slf4g"
	"gonum.org/v1/gonum/stat"

	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/filter"
	"github.com/blaubaer/zen-master/pkg/motion"
	"github.com/blaubaer/zen-master/pkg/sensor"
)

// minSamples below which a recording is considered too short to trust.
const minSamples = 32

type Result struct {
	Samples int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64

	// Quantile is the configured quantile of the observed magnitudes.
	Quantile float64

	// SuggestedThreshold is Quantile scaled by the configured margin.
	SuggestedThreshold float64
}

// Collector runs raw samples through the same gravity removal and
// smoothing chain the motion tracker uses and records the resulting
// magnitudes.
type Collector struct {
	gravity  [3]*filter.Lowpass
	smoothed *filter.Ewma

	magnitudes []float64
	mutex      sync.Mutex
}

func NewCollector(conf *motion.Configuration) *Collector {
	result := Collector{
		smoothed: filter.NewEwma(conf.SmoothingAlpha),
	}
	for i := range result.gravity {
		result.gravity[i] = filter.NewLowpass(conf.GravityAlpha)
	}
	return &result
}

func (this *Collector) Feed(sample sensor.Sample) {
	if !sample.IsFinite() {
		return
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()

	linX := sample.X - this.gravity[0].Update(sample.X)
	linY := sample.Y - this.gravity[1].Update(sample.Y)
	linZ := sample.Z - this.gravity[2].Update(sample.Z)

	this.magnitudes = append(this.magnitudes, this.smoothed.Update(math.Sqrt(linX*linX+linY*linY+linZ*linZ)))
}

func (this *Collector) Len() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return len(this.magnitudes)
}

func (this *Collector) Result(conf *Configuration) (Result, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if len(this.magnitudes) < minSamples {
		return Result{}, fmt.Errorf("only %d samples recorded; not enough for a suggestion", len(this.magnitudes))
	}

	sorted := make([]float64, len(this.magnitudes))
	copy(sorted, this.magnitudes)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	quantile := stat.Quantile(conf.Quantile, stat.Empirical, sorted, nil)

	return Result{
		Samples:            len(sorted),
		Mean:               mean,
		StdDev:             std,
		Min:                sorted[0],
		Max:                sorted[len(sorted)-1],
		Quantile:           quantile,
		SuggestedThreshold: quantile * conf.Margin,
	}, nil
}

type Calibrator struct {
	Clock common.Clock
}

// Run records from the given source for the configured duration and
// computes the suggestion. It blocks until the recording is done.
func (this *Calibrator) Run(conf *Configuration, motionConf *motion.Configuration, source sensor.Source) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{}, err
	}

	if source == nil || !source.Available() {
		return fail(fmt.Errorf("no streaming-capable accelerometer available"))
	}

	clock := this.Clock
	if clock == nil {
		clock = common.SystemClock
	}

	collector := NewCollector(motionConf)
	if err := source.Subscribe(collector.Feed); err != nil {
		return fail(fmt.Errorf("cannot subscribe to accelerometer stream: %w", err))
	}

	log.With("duration", conf.Duration).
		Info("Recording resting noise. Put the device down or sit still...")

	done := make(chan struct{})
	timer := clock.AfterFunc(conf.Duration, func() {
		close(done)
	})
	<-done
	timer.Stop()

	if err := source.Unsubscribe(); err != nil {
		log.WithError(err).Warn("Cannot unsubscribe from accelerometer stream.")
	}

	result, err := collector.Result(conf)
	if err != nil {
		return fail(err)
	}

	log.With("samples", result.Samples).
		With("mean", result.Mean).
		With("stdDev", result.StdDev).
		With("suggestedThreshold", result.SuggestedThreshold).
		Info("Recording done.")

	return result, nil
}
