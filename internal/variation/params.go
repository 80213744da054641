package variation

import "fmt"

// Params identifies one cell of the hue × saturation matrix and carries the
// values the color transform actually uses.
type Params struct {
	// HueStep is the hue index, in [0, HueSteps).
	HueStep int
	// SatStep is the saturation index, in [0, SatSteps).
	SatStep int

	// HueSteps and SatSteps are the matrix dimensions the steps belong to.
	HueSteps int
	SatSteps int

	// HueShift is the rotation as a fraction of the full circle, in [0, 1).
	HueShift float64
	// SatScale multiplies the source saturation; the result is clamped to 1.
	SatScale float64
}

// NewParams maps a (hue step, saturation step) pair onto its transform
// values:
//
//	HueShift = hueStep * (360 / hueSteps) / 360
//	SatScale = (satStep + 1) * (1 / satSteps)
//
// It returns an error when either dimension is not positive or a step falls
// outside its range, instead of dividing by zero.
func NewParams(hueStep, satStep, hueSteps, satSteps int) (Params, error) {
	if hueSteps <= 0 || satSteps <= 0 {
		return Params{}, fmt.Errorf("variation: step counts must be positive, got hue=%d saturation=%d", hueSteps, satSteps)
	}
	if hueStep < 0 || hueStep >= hueSteps {
		return Params{}, fmt.Errorf("variation: hue step %d outside [0,%d)", hueStep, hueSteps)
	}
	if satStep < 0 || satStep >= satSteps {
		return Params{}, fmt.Errorf("variation: saturation step %d outside [0,%d)", satStep, satSteps)
	}

	hueIncrement := 360.0 / float64(hueSteps)
	satIncrement := 1.0 / float64(satSteps)

	return Params{
		HueStep:  hueStep,
		SatStep:  satStep,
		HueSteps: hueSteps,
		SatSteps: satSteps,
		HueShift: float64(hueStep) * hueIncrement / 360.0,
		SatScale: float64(satStep+1) * satIncrement,
	}, nil
}

// HueDegrees returns the rotation in degrees.
func (p Params) HueDegrees() float64 {
	return p.HueShift * 360.0
}

func (p Params) String() string {
	return fmt.Sprintf("hue%d_sat%d", p.HueStep, p.SatStep)
}
