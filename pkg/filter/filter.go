package filter

func NewEwma(alpha float64) *Ewma {
	return &Ewma{Alpha: alpha}
}

// Ewma is a causal exponentially weighted moving average over a scalar
// stream. A higher Alpha weights the newest sample more, i.e. smooths less.
type Ewma struct {
	Alpha float64

	previous    float64
	initialized bool
}

func (this *Ewma) Update(x float64) float64 {
	if !this.initialized {
		this.previous = x
		this.initialized = true
		return x
	}

	this.previous = this.Alpha*x + (1-this.Alpha)*this.previous
	return this.previous
}

func (this *Ewma) Value() float64 {
	return this.previous
}

func (this *Ewma) IsInitialized() bool {
	return this.initialized
}

func (this *Ewma) Reset() {
	this.previous = 0
	this.initialized = false
}

func NewLowpass(alpha float64) *Lowpass {
	return &Lowpass{Alpha: alpha}
}

// Lowpass is the complementary smoother: a higher Alpha weights history
// more, i.e. smooths more. Used for the slow per-axis gravity estimate.
type Lowpass struct {
	Alpha float64

	previous    float64
	initialized bool
}

func (this *Lowpass) Update(x float64) float64 {
	if !this.initialized {
		this.previous = x
		this.initialized = true
		return x
	}

	this.previous = this.Alpha*this.previous + (1-this.Alpha)*x
	return this.previous
}

func (this *Lowpass) Value() float64 {
	return this.previous
}

func (this *Lowpass) IsInitialized() bool {
	return this.initialized
}

func (this *Lowpass) Reset() {
	this.previous = 0
	this.initialized = false
}
