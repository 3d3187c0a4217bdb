package sim

import (
	"math"
	"time"
)

// Oscillator is a triangle wave: the value moves at Rate units/sec between
// -Limit and +Limit, reversing at each end. Output is Offset+value.
//
// Not safe for concurrent use.
type Oscillator struct {
	rate      float64
	limit     float64
	offset    float64
	direction float64
	value     float64
	last      time.Time
}

// NewOscillator starts the wave at initial (clamped into range), moving in
// the sign of direction. The first tick measures elapsed time from now.
func NewOscillator(rate, limit, direction, initial, offset float64) *Oscillator {
	return NewOscillatorAt(time.Now(), rate, limit, direction, initial, offset)
}

// NewOscillatorAt is NewOscillator with an explicit start time.
func NewOscillatorAt(now time.Time, rate, limit, direction, initial, offset float64) *Oscillator {
	limit = math.Abs(limit)
	dir := 1.0
	if direction < 0 {
		dir = -1.0
	}
	if rate < 0 {
		rate = -rate
		dir = -dir
	}
	return &Oscillator{
		rate:      rate,
		limit:     limit,
		offset:    offset,
		direction: dir,
		value:     math.Max(-limit, math.Min(limit, initial)),
		last:      now,
	}
}

// Tick advances by the wall-clock time since the previous tick.
func (o *Oscillator) Tick() float64 {
	return o.TickAt(time.Now())
}

// TickAt advances to now. A clock that steps backwards advances nothing.
func (o *Oscillator) TickAt(now time.Time) float64 {
	dt := now.Sub(o.last).Seconds()
	o.last = now
	if dt <= 0 {
		return o.offset + o.value
	}
	o.advance(o.rate * dt)
	return o.offset + o.value
}

func (o *Oscillator) advance(dist float64) {
	if o.limit == 0 {
		o.value = 0
		return
	}
	// Fold the travel onto one period of the wave, measured in the current
	// direction of motion so both directions share one code path.
	span := 2 * o.limit
	x := o.direction*o.value + dist
	p := math.Mod(x+o.limit, 2*span)
	if p < 0 {
		p += 2 * span
	}
	dir := 1.0
	if p < span {
		x = p - o.limit
	} else {
		x = 3*o.limit - p
		dir = -1.0
	}
	o.value = o.direction * x
	o.direction *= dir
}

func (o *Oscillator) Value() float64 { return o.offset + o.value }

// Direction is +1 while rising and -1 while falling.
func (o *Oscillator) Direction() float64 { return o.direction }

func (o *Oscillator) Rate() float64 { return o.rate }

// Bounds returns the output range [Offset-Limit, Offset+Limit].
func (o *Oscillator) Bounds() (lo, hi float64) {
	return o.offset - o.limit, o.offset + o.limit
}
