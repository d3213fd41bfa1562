// Package easing provides animation easing functions for smooth zoom
// transitions. Each function maps normalized progress t in [0,1] to eased
// progress, with f(0)=0 and f(1)=1. Overshoot variants (back, elastic,
// bounce) may transiently leave [0,1] in between.
package easing

import "math"

// Func maps normalized animation progress to eased progress
type Func func(t float64) float64

// Linear applies no easing
func Linear(t float64) float64 {
	return t
}

// EaseInQuad is a quadratic ease-in
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad is a quadratic ease-out
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseInOutQuad is a quadratic ease-in-out
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseInCubic is a cubic ease-in
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic is a cubic ease-out
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// EaseInOutCubic is a cubic ease-in-out
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseInQuart is a quartic ease-in
func EaseInQuart(t float64) float64 {
	return t * t * t * t
}

// EaseOutQuart is a quartic ease-out
func EaseOutQuart(t float64) float64 {
	t--
	return 1 - t*t*t*t
}

// EaseInOutQuart is a quartic ease-in-out
func EaseInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	t--
	return 1 - 8*t*t*t*t
}

// EaseInSine is a sinusoidal ease-in
func EaseInSine(t float64) float64 {
	return 1 - math.Cos((t*math.Pi)/2)
}

// EaseOutSine is a sinusoidal ease-out
func EaseOutSine(t float64) float64 {
	return math.Sin((t * math.Pi) / 2)
}

// EaseInOutSine is a sinusoidal ease-in-out
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// EaseInExpo is an exponential ease-in
func EaseInExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

// EaseOutExpo is an exponential ease-out
func EaseOutExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// EaseInOutExpo is an exponential ease-in-out
func EaseInOutExpo(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	default:
		return (2 - math.Pow(2, -20*t+10)) / 2
	}
}

// EaseInCirc is a circular ease-in
func EaseInCirc(t float64) float64 {
	return 1 - math.Sqrt(1-t*t)
}

// EaseOutCirc is a circular ease-out
func EaseOutCirc(t float64) float64 {
	t--
	return math.Sqrt(1 - t*t)
}

// EaseInOutCirc is a circular ease-in-out
func EaseInOutCirc(t float64) float64 {
	if t < 0.5 {
		return (1 - math.Sqrt(1-math.Pow(2*t, 2))) / 2
	}
	return (math.Sqrt(1-math.Pow(-2*t+2, 2)) + 1) / 2
}

// EaseInBack overshoots backwards before moving toward the target
func EaseInBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return c3*t*t*t - c1*t*t
}

// EaseOutBack overshoots past the target before settling
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// EaseInOutBack overshoots on both ends
func EaseInOutBack(t float64) float64 {
	const c1 = 1.70158
	const c2 = c1 * 1.525
	if t < 0.5 {
		return (math.Pow(2*t, 2) * ((c2+1)*2*t - c2)) / 2
	}
	return (math.Pow(2*t-2, 2)*((c2+1)*(t*2-2)+c2) + 2) / 2
}

// Elastic is an elastic ease-out with a bouncy overshoot
func Elastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	c4 := (2 * math.Pi) / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

// EaseInElastic is an elastic ease-in
func EaseInElastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	c4 := (2 * math.Pi) / 3
	return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*c4)
}

// BounceOut is a bounce ease-out
func BounceOut(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// BounceIn is a bounce ease-in
func BounceIn(t float64) float64 {
	return 1 - BounceOut(1-t)
}

// Bounce is an alias for BounceOut
func Bounce(t float64) float64 {
	return BounceOut(t)
}

// functions indexes every easing by its configuration name. ease_in/ease_out
// default to the quadratic variants and ease_in_out to cubic, matching the
// names accepted in profile configuration.
var functions = map[string]Func{
	"linear": Linear,

	"ease_in":          EaseInQuad,
	"ease_out":         EaseOutQuad,
	"ease_in_out":      EaseInOutCubic,
	"ease_in_quad":     EaseInQuad,
	"ease_out_quad":    EaseOutQuad,
	"ease_in_out_quad": EaseInOutQuad,

	"ease_in_cubic":     EaseInCubic,
	"ease_out_cubic":    EaseOutCubic,
	"ease_in_out_cubic": EaseInOutCubic,

	"ease_in_quart":     EaseInQuart,
	"ease_out_quart":    EaseOutQuart,
	"ease_in_out_quart": EaseInOutQuart,

	"ease_in_sine":     EaseInSine,
	"ease_out_sine":    EaseOutSine,
	"ease_in_out_sine": EaseInOutSine,

	"ease_in_expo":     EaseInExpo,
	"ease_out_expo":    EaseOutExpo,
	"ease_in_out_expo": EaseInOutExpo,

	"ease_in_circ":     EaseInCirc,
	"ease_out_circ":    EaseOutCirc,
	"ease_in_out_circ": EaseInOutCirc,

	"ease_in_back":     EaseInBack,
	"ease_out_back":    EaseOutBack,
	"ease_in_out_back": EaseInOutBack,

	"elastic":          Elastic,
	"ease_in_elastic":  EaseInElastic,
	"ease_out_elastic": Elastic,

	"bounce":     Bounce,
	"bounce_in":  BounceIn,
	"bounce_out": BounceOut,
}

// ByName returns the easing function registered under name, or Linear when
// the name is unknown
func ByName(name string) Func {
	if f, ok := functions[name]; ok {
		return f
	}
	return Linear
}

// Known reports whether an easing name is registered
func Known(name string) bool {
	_, ok := functions[name]
	return ok
}

// Lerp linearly interpolates between start and end by progress t
func Lerp(start, end, t float64) float64 {
	return start + (end-start)*t
}

// Clamp limits value to the [min, max] range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
