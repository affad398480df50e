package units

import (
	"errors"
	"fmt"
)

// Unit identifies one of the three supported measurement systems.
type Unit string

const (
	Metric   Unit = "metric"   // °C, m/s
	Imperial Unit = "imperial" // °F, mi/hr
	Standard Unit = "standard" // K, m/s
)

// Quantity identifies the kind of value being converted or formatted.
type Quantity string

const (
	Temperature Quantity = "temperature"
	Speed       Quantity = "speed"
)

// ErrInvalidQuantity is returned when a quantity kind is not recognized.
// Hitting it indicates a programming error, not bad input data.
var ErrInvalidQuantity = errors.New("invalid quantity kind")

// Parse converts a user-supplied unit name into a Unit.
func Parse(s string) (Unit, error) {
	switch Unit(s) {
	case Metric, Imperial, Standard:
		return Unit(s), nil
	case "":
		// The original UI treats "no unit" as standard (Kelvin).
		return Standard, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// Valid reports whether u is one of the three supported systems.
func (u Unit) Valid() bool {
	return u == Metric || u == Imperial || u == Standard
}

// Convert translates value between unit systems for the given quantity.
// Conversion goes through the standard system (Kelvin, m/s) so every
// pair of systems shares one path.
func Convert(value float64, kind Quantity, from, to Unit) (float64, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("unknown unit system %q", from)
	}
	if !to.Valid() {
		return 0, fmt.Errorf("unknown unit system %q", to)
	}
	if from == to {
		if kind != Temperature && kind != Speed {
			return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, kind)
		}
		return value, nil
	}

	switch kind {
	case Temperature:
		return kelvinTo(toKelvin(value, from), to), nil
	case Speed:
		return metersPerSecondTo(toMetersPerSecond(value, from), to), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, kind)
	}
}

// Format renders value with the display symbol the original dashboard
// used for each unit system (°C/°F/K, m/s vs mi/hr).
func Format(value float64, kind Quantity, unit Unit) string {
	switch kind {
	case Temperature:
		switch unit {
		case Metric:
			return fmt.Sprintf("%.1f °C", value)
		case Imperial:
			return fmt.Sprintf("%.1f °F", value)
		default:
			return fmt.Sprintf("%.1f K", value)
		}
	case Speed:
		if unit == Imperial {
			return fmt.Sprintf("%.1f mi/hr", value)
		}
		return fmt.Sprintf("%.1f m/s", value)
	default:
		return fmt.Sprintf("%.1f", value)
	}
}

func toKelvin(v float64, from Unit) float64 {
	switch from {
	case Metric:
		return v + 273.15
	case Imperial:
		return (v + 459.67) * 5 / 9
	default:
		return v
	}
}

func kelvinTo(v float64, to Unit) float64 {
	switch to {
	case Metric:
		return v - 273.15
	case Imperial:
		return v*9/5 - 459.67
	default:
		return v
	}
}

const metersPerSecondPerMph = 0.44704

func toMetersPerSecond(v float64, from Unit) float64 {
	if from == Imperial {
		return v * metersPerSecondPerMph
	}
	return v
}

func metersPerSecondTo(v float64, to Unit) float64 {
	if to == Imperial {
		return v / metersPerSecondPerMph
	}
	return v
}
