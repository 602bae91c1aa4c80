package overlay

import (
	"fmt"
	"strings"

	"scubaoverlay/internal/template"
)

// Quantity is a physical quantity a field can carry.
type Quantity string

const (
	QuantityNone        Quantity = ""
	QuantityDepth       Quantity = "depth"
	QuantityPressure    Quantity = "pressure"
	QuantityTemperature Quantity = "temperature"
)

const (
	MetersToFeet = 3.28084
	BarToPSI     = 14.5037738
)

// Unit systems accepted by UnitSystem.
const (
	Metric   = "metric"
	Imperial = "imperial"
)

// Converter maps a canonical value (meters, bar, Celsius) to a display unit.
type Converter func(float64) float64

func metersToFeet(v float64) float64 { return v * MetersToFeet }

func barToPSI(v float64) float64 { return v * BarToPSI }

func celsiusToFahrenheit(v float64) float64 { return v*9/5 + 32 }

// ConverterFor returns the converter from q's canonical unit to target, or
// nil when no conversion applies.
func ConverterFor(q Quantity, target string) Converter {
	target = strings.ToLower(strings.TrimSpace(target))
	switch q {
	case QuantityDepth:
		if target == "ft" || target == "feet" {
			return metersToFeet
		}
	case QuantityPressure:
		if target == "psi" {
			return barToPSI
		}
	case QuantityTemperature:
		switch target {
		case "f", "°f", "fahrenheit":
			return celsiusToFahrenheit
		}
	}
	return nil
}

// Classify reports the quantity carried by a sample field.
func Classify(field string) Quantity {
	switch {
	case strings.HasPrefix(field, "pressure["):
		return QuantityPressure
	case field == "depth", field == "stop_depth", field == "stopDepth":
		return QuantityDepth
	case field == "temperature":
		return QuantityTemperature
	}
	return QuantityNone
}

// UnitFor returns the display unit configured for q.
func UnitFor(units template.Units, q Quantity) string {
	switch q {
	case QuantityDepth:
		return units.Depth
	case QuantityPressure:
		return units.Pressure
	case QuantityTemperature:
		return units.Temperature
	}
	return ""
}

// UnitSystem expands a named system into per-quantity units.
func UnitSystem(name string) (template.Units, error) {
	switch strings.ToLower(name) {
	case "":
		return template.Units{}, nil
	case Metric:
		return template.Units{Depth: "m", Pressure: "bar", Temperature: "C"}, nil
	case Imperial:
		return template.Units{Depth: "ft", Pressure: "psi", Temperature: "F"}, nil
	}
	return template.Units{}, fmt.Errorf("unknown unit system %q (want %s or %s)", name, Metric, Imperial)
}
