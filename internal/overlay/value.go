package overlay

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"scubaoverlay/pkg/divelog"
)

// ValueKind tags the representation held by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindInt
	KindFloat
	KindText
)

// Value is a resolved field value. The zero Value means "no value".
type Value struct {
	Kind  ValueKind
	Int   int
	Float float64
	Text  string
}

func IntValue(v int) Value       { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func TextValue(s string) Value   { return Value{Kind: KindText, Text: s} }

// Valid reports whether v holds a value.
func (v Value) Valid() bool { return v.Kind != KindNone }

// Number returns v as a float when it is numeric.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// String renders v the way a plain "{field}" substitution shows it: floats
// always carry a fractional part or an exponent.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindFloat:
		return formatShortFloat(v.Float)
	case KindText:
		return v.Text
	}
	return ""
}

func formatShortFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// convert applies c to numeric values. Text passes through untouched.
func (v Value) convert(c Converter) Value {
	if c == nil {
		return v
	}
	n, ok := v.Number()
	if !ok || math.IsNaN(n) {
		return v
	}
	return FloatValue(c(n))
}

// FormatPrecision renders v with a fixed number of decimals. Integers keep
// their form at precision 0; text is formatted only when it parses as a
// number. A negative zero result loses its sign.
func FormatPrecision(v Value, precision int) string {
	if precision < 0 {
		precision = 0
	}
	var n float64
	switch v.Kind {
	case KindInt:
		if precision == 0 {
			return strconv.Itoa(v.Int)
		}
		n = float64(v.Int)
	case KindFloat:
		n = v.Float
	case KindText:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return v.Text
		}
		n = parsed
	default:
		return ""
	}
	s := strconv.FormatFloat(n, 'f', precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		s = s[1:]
	}
	return s
}

// FormatElapsed renders seconds as M:SS.
func FormatElapsed(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/60, seconds%60)
}

type fieldGetter func(s divelog.DiveSample) Value

func intField(p *int) Value {
	if p == nil {
		return Value{}
	}
	return IntValue(*p)
}

func floatField(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return FloatValue(*p)
}

// scalarFields maps every accepted field name to its accessor. Both the
// snake_case and camelCase spellings resolve.
var scalarFields = map[string]fieldGetter{
	"time":        func(s divelog.DiveSample) Value { return IntValue(s.Time) },
	"depth":       func(s divelog.DiveSample) Value { return FloatValue(s.Depth) },
	"ndl":         func(s divelog.DiveSample) Value { return intField(s.NDL) },
	"tts":         func(s divelog.DiveSample) Value { return intField(s.TTS) },
	"stop_depth":  func(s divelog.DiveSample) Value { return floatField(s.StopDepth) },
	"stop_time":   func(s divelog.DiveSample) Value { return intField(s.StopTime) },
	"temperature": func(s divelog.DiveSample) Value { return floatField(s.Temperature) },
	"fractionO2":  func(s divelog.DiveSample) Value { return floatField(s.FractionO2) },
	"fractionHe":  func(s divelog.DiveSample) Value { return floatField(s.FractionHe) },
	"sac":         func(s divelog.DiveSample) Value { return floatField(s.SAC) },
	"gtr":         func(s divelog.DiveSample) Value { return intField(s.GTR) },
	"ppo2":        func(s divelog.DiveSample) Value { return floatField(s.PPO2) },
}

var fieldAliases = map[string]string{
	"stopDepth":   "stop_depth",
	"stopTime":    "stop_time",
	"fraction_o2": "fractionO2",
	"fraction_he": "fractionHe",
	"o2":          "fractionO2",
	"he":          "fractionHe",
	"gasTime":     "gtr",
	"ppO2":        "ppo2",
	"ppo2Sensors": "ppo2_sensors",
}

func canonicalField(name string) string {
	if alias, ok := fieldAliases[name]; ok {
		return alias
	}
	return name
}

// splitIndex splits "pressure[1]" into ("pressure", 1, true).
func splitIndex(name string) (string, int, bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return name, 0, false
	}
	idx, err := strconv.Atoi(name[open+1 : len(name)-1])
	if err != nil {
		return name, 0, false
	}
	return name[:open], idx, true
}

func slot(slots []*float64, i int) Value {
	if i < 0 || i >= len(slots) {
		return Value{}
	}
	return floatField(slots[i])
}

// RawValue looks up a field on s. Time is seconds; indexed fields take the
// form "pressure[i]" or "ppo2_sensors[i]". Unknown fields and out of range
// indexes yield no value.
func RawValue(field string, s divelog.DiveSample) Value {
	field = strings.TrimSpace(field)
	if base, idx, ok := splitIndex(field); ok {
		switch canonicalField(base) {
		case "pressure":
			return slot(s.Pressure, idx)
		case "ppo2_sensors":
			return slot(s.PPO2Sensors, idx)
		}
		return Value{}
	}
	get, ok := scalarFields[canonicalField(field)]
	if !ok {
		return Value{}
	}
	return get(s)
}

// DisplayValue is RawValue with elapsed time shown as M:SS.
func DisplayValue(field string, s divelog.DiveSample) Value {
	if canonicalField(strings.TrimSpace(field)) == "time" {
		return TextValue(FormatElapsed(s.Time))
	}
	return RawValue(field, s)
}
