package divelog

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FormatShearwater names logs exported by Shearwater Cloud.
const FormatShearwater = "shearwater"

const (
	shearwaterTankSlots = 4
	psiToBar            = 0.0689476
	shearwaterStartDate = "1/2/2006 3:04:05 PM"
)

// ShearwaterParser decodes Shearwater Cloud .xml exports. Each record carries
// flat child elements; tank pressures arrive in PSI, and readings the computer
// did not have (for example "AI is off") are text sentinels.
type ShearwaterParser struct{}

type swDiveLog struct {
	StartDate *string    `xml:"startDate"`
	Records   []swRecord `xml:"diveLogRecords>diveLogRecord"`
}

type swRecord struct {
	CurrentTime    *string `xml:"currentTime"`
	CurrentDepth   *string `xml:"currentDepth"`
	CurrentNDL     *string `xml:"currentNdl"`
	TTSMins        *string `xml:"ttsMins"`
	WaterTemp      *string `xml:"waterTemp"`
	FirstStopDepth *string `xml:"firstStopDepth"`
	FirstStopTime  *string `xml:"firstStopTime"`
	FractionO2     *string `xml:"fractionO2"`
	FractionHe     *string `xml:"fractionHe"`
	AveragePPO2    *string `xml:"averagePPO2"`
	SAC            *string `xml:"sac"`
	GasTime        *string `xml:"gasTime"`
	Tank0          *string `xml:"tank0pressurePSI"`
	Tank1          *string `xml:"tank1pressurePSI"`
	Tank2          *string `xml:"tank2pressurePSI"`
	Tank3          *string `xml:"tank3pressurePSI"`
}

// Parse implements Parser.
func (ShearwaterParser) Parse(r io.Reader) (DiveData, error) {
	logs, err := decodeShearwaterLogs(r)
	if err != nil {
		return DiveData{}, err
	}
	switch {
	case len(logs) == 0:
		return DiveData{}, &MissingSectionError{Section: SectionDiveLog}
	case len(logs) > 1:
		return DiveData{}, &MultipleDivesError{Count: len(logs)}
	}
	dive := logs[0]

	if dive.StartDate == nil || strings.TrimSpace(*dive.StartDate) == "" {
		return DiveData{}, &MissingSectionError{Section: SectionStartTime}
	}
	raw := strings.TrimSpace(*dive.StartDate)
	start, err := time.ParseInLocation(shearwaterStartDate, raw, time.UTC)
	if err != nil {
		return DiveData{}, &StartTimeError{Value: raw, Err: err}
	}
	if len(dive.Records) == 0 {
		return DiveData{}, &MissingSectionError{Section: SectionSamples}
	}

	initial := DiveSample{
		NDL:         Int(99),
		StopDepth:   Float(0),
		StopTime:    Int(0),
		Pressure:    make([]*float64, shearwaterTankSlots),
		PPO2Sensors: make([]*float64, ppo2SensorSlots),
	}
	patches := make([]Patch, 0, len(dive.Records))
	for i, rec := range dive.Records {
		p, err := rec.patch(i)
		if err != nil {
			return DiveData{}, err
		}
		patches = append(patches, p)
	}
	samples, err := BuildSamples(initial, patches)
	if err != nil {
		return DiveData{}, err
	}
	return newDiveData(samples, start, FormatShearwater), nil
}

// decodeShearwaterLogs collects every <diveLog> element in the document.
// Exports sometimes declare utf-16 while the bytes are utf-8, so the input is
// transcoded by byte order mark and the declared charset is ignored.
func decodeShearwaterLogs(r io.Reader) ([]swDiveLog, error) {
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var logs []swDiveLog
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return logs, nil
		}
		if err != nil {
			return nil, &MalformedLogError{Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "diveLog" {
			continue
		}
		var dive swDiveLog
		if err := dec.DecodeElement(&dive, &start); err != nil {
			return nil, &MalformedLogError{Err: err}
		}
		logs = append(logs, dive)
	}
}

func (rec swRecord) patch(index int) (Patch, error) {
	raw := text(rec.CurrentTime)
	if raw == "" {
		return Patch{}, &SampleError{Index: index, Field: "currentTime", Err: errMissingValue}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Patch{}, &SampleError{Index: index, Field: "currentTime", Value: raw, Err: err}
	}
	p := Patch{Time: int(ms / 1000)}

	if v := text(rec.CurrentDepth); v != "" {
		depth, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Patch{}, &SampleError{Index: index, Field: "currentDepth", Value: v, Err: err}
		}
		p.Depth = &depth
	}

	p.NDL = digitsOnly(rec.CurrentNDL)
	p.TTS = digitsOnly(rec.TTSMins)
	p.Temperature = optionalFloat(rec.WaterTemp)
	p.StopDepth = optionalFloat(rec.FirstStopDepth)
	p.StopTime = optionalInt(rec.FirstStopTime)
	p.FractionO2 = optionalFloat(rec.FractionO2)
	p.FractionHe = optionalFloat(rec.FractionHe)
	p.PPO2 = optionalFloat(rec.AveragePPO2)
	p.SAC = optionalFloat(rec.SAC)
	p.GTR = optionalInt(rec.GasTime)

	for i, tank := range []*string{rec.Tank0, rec.Tank1, rec.Tank2, rec.Tank3} {
		if tank == nil {
			continue
		}
		if p.Pressure == nil {
			p.Pressure = make(map[int]*float64)
		}
		// Sentinels clear the slot rather than keeping a stale reading.
		psi, err := strconv.ParseFloat(text(tank), 64)
		if err != nil {
			p.Pressure[i] = nil
			continue
		}
		bar := psi * psiToBar
		p.Pressure[i] = &bar
	}
	return p, nil
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func digitsOnly(s *string) *int {
	v := text(s)
	if !isDigits(v) {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func optionalFloat(s *string) *float64 {
	v, err := strconv.ParseFloat(text(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func optionalInt(s *string) *int {
	v, err := strconv.Atoi(text(s))
	if err != nil {
		return nil
	}
	return &v
}
