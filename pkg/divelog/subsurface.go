package divelog

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"
)

// FormatSubsurface names logs exported by Subsurface.
const FormatSubsurface = "subsurface"

// ppo2SensorSlots is the number of rebreather oxygen cells tracked per sample.
const ppo2SensorSlots = 3

// SubsurfaceParser decodes single-dive .ssrf exports. Sample readings are
// attributes carrying unit suffixes such as depth="12.3 m".
type SubsurfaceParser struct{}

type ssrfDocument struct {
	Dives ssrfDives `xml:"dives"`
}

type ssrfDives struct {
	Dives []ssrfDive `xml:"dive"`
	Trips []ssrfTrip `xml:"trip"`
}

type ssrfTrip struct {
	Dives []ssrfDive `xml:"dive"`
}

type ssrfDive struct {
	Date      string         `xml:"date,attr"`
	Time      string         `xml:"time,attr"`
	Cylinders []ssrfCylinder `xml:"cylinder"`
	Computers []ssrfComputer `xml:"divecomputer"`
}

type ssrfCylinder struct {
	Description string `xml:"description,attr"`
}

type ssrfComputer struct {
	Samples []ssrfRecord `xml:"sample"`
	Events  []ssrfEvent  `xml:"event"`
}

type ssrfRecord struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ssrfEvent struct {
	Time string `xml:"time,attr"`
	Name string `xml:"name,attr"`
	O2   string `xml:"o2,attr"`
	He   string `xml:"he,attr"`
}

func (d ssrfDives) all() []ssrfDive {
	dives := append([]ssrfDive(nil), d.Dives...)
	for _, trip := range d.Trips {
		dives = append(dives, trip.Dives...)
	}
	return dives
}

// Parse implements Parser.
func (SubsurfaceParser) Parse(r io.Reader) (DiveData, error) {
	var doc ssrfDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return DiveData{}, &MalformedLogError{Err: err}
	}

	dives := doc.Dives.all()
	switch {
	case len(dives) == 0:
		return DiveData{}, ErrNoDiveData
	case len(dives) > 1:
		return DiveData{}, &MultipleDivesError{Count: len(dives)}
	}
	dive := dives[0]

	start, err := parseSubsurfaceStart(dive.Date, dive.Time)
	if err != nil {
		return DiveData{}, err
	}
	if len(dive.Computers) == 0 {
		return DiveData{}, &MissingSectionError{Section: SectionComputer}
	}
	computer := dive.Computers[0]
	if len(computer.Samples) == 0 {
		return DiveData{}, &MissingSectionError{Section: SectionSamples}
	}

	cylinders := len(dive.Cylinders)
	initial := DiveSample{
		NDL:         Int(99),
		StopDepth:   Float(0),
		StopTime:    Int(0),
		Pressure:    make([]*float64, cylinders),
		PPO2Sensors: make([]*float64, ppo2SensorSlots),
	}

	patches := make([]Patch, 0, len(computer.Samples))
	for i, rec := range computer.Samples {
		p, err := rec.patch(i, cylinders)
		if err != nil {
			return DiveData{}, err
		}
		patches = append(patches, p)
	}
	samples, err := BuildSamples(initial, patches)
	if err != nil {
		return DiveData{}, err
	}

	changes, err := subsurfaceGasChanges(computer.Events)
	if err != nil {
		return DiveData{}, err
	}
	samples = ApplyGasChanges(samples, changes)

	return newDiveData(samples, start, FormatSubsurface), nil
}

func parseSubsurfaceStart(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, &MissingSectionError{Section: SectionStartTime}
	}
	value := date + " " + clock
	start, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.UTC)
	if err != nil {
		return time.Time{}, &StartTimeError{Value: value, Err: err}
	}
	return start, nil
}

// patch turns one <sample> into a sparse update. Time and the scalar readings
// are required to parse when present; cylinder pressures and sensor cells that
// fail to parse are skipped.
func (rec ssrfRecord) patch(index, cylinders int) (Patch, error) {
	attrs := make(map[string]string, len(rec.Attrs))
	for _, a := range rec.Attrs {
		attrs[a.Name.Local] = a.Value
	}

	raw, ok := attrs["time"]
	if !ok {
		return Patch{}, &SampleError{Index: index, Field: "time", Err: errMissingValue}
	}
	t, err := ParseSeconds(raw)
	if err != nil {
		return Patch{}, &SampleError{Index: index, Field: "time", Value: raw, Err: err}
	}

	p := Patch{Time: t}
	fields := []struct {
		key  string
		unit string
		dst  **float64
	}{
		{"depth", "m", &p.Depth},
		{"temp", "C", &p.Temperature},
		{"stopdepth", "m", &p.StopDepth},
		{"dc_supplied_ppo2", "bar", &p.PPO2},
	}
	for _, f := range fields {
		raw, ok := attrs[f.key]
		if !ok {
			continue
		}
		v, err := parseFloatUnit(raw, f.unit)
		if err != nil {
			return Patch{}, &SampleError{Index: index, Field: f.key, Value: raw, Err: err}
		}
		*f.dst = &v
	}

	minutes := []struct {
		key string
		dst **int
	}{
		{"ndl", &p.NDL},
		{"tts", &p.TTS},
		{"stoptime", &p.StopTime},
	}
	for _, f := range minutes {
		raw, ok := attrs[f.key]
		if !ok {
			continue
		}
		v, err := parseMinutes(raw)
		if err != nil {
			return Patch{}, &SampleError{Index: index, Field: f.key, Value: raw, Err: err}
		}
		*f.dst = &v
	}

	p.PPO2Sensors = optionalSlots(attrs, "sensor", 1, ppo2SensorSlots)
	p.Pressure = optionalSlots(attrs, "pressure", 0, cylinders)
	return p, nil
}

// optionalSlots reads numbered bar readings such as pressure0..pressureN into
// zero-based slots, skipping absent or unparseable ones. first is the number
// used by the source for slot 0.
func optionalSlots(attrs map[string]string, prefix string, first, slots int) map[int]*float64 {
	var out map[int]*float64
	for i := 0; i < slots; i++ {
		raw, ok := attrs[prefix+strconv.Itoa(i+first)]
		if !ok {
			continue
		}
		v, err := parseFloatUnit(raw, "bar")
		if err != nil {
			continue
		}
		if out == nil {
			out = make(map[int]*float64)
		}
		out[i] = &v
	}
	return out
}

func subsurfaceGasChanges(events []ssrfEvent) ([]GasChange, error) {
	var changes []GasChange
	for i, ev := range events {
		if ev.Name != "gaschange" {
			continue
		}
		t, err := ParseSeconds(ev.Time)
		if err != nil {
			return nil, &SampleError{Index: i, Field: "gaschange time", Value: ev.Time, Err: err}
		}
		change := GasChange{Time: t}
		if ev.O2 != "" {
			v, err := parsePercent(ev.O2)
			if err != nil {
				return nil, &SampleError{Index: i, Field: "gaschange o2", Value: ev.O2, Err: err}
			}
			change.FractionO2 = &v
		}
		if ev.He != "" {
			v, err := parsePercent(ev.He)
			if err != nil {
				return nil, &SampleError{Index: i, Field: "gaschange he", Value: ev.He, Err: err}
			}
			change.FractionHe = &v
		}
		changes = append(changes, change)
	}
	return changes, nil
}
