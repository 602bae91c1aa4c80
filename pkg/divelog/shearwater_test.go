package divelog

import (
	"math"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"
)

const shearwaterFixture = `<?xml version="1.0" encoding="utf-16"?>
<dive>
  <diveLog>
    <startDate>4/6/2024 11:58:49 AM</startDate>
    <diveLogRecords>
      <diveLogRecord>
        <currentTime>0</currentTime>
        <currentDepth>0</currentDepth>
        <currentNdl>99</currentNdl>
        <waterTemp>25</waterTemp>
        <fractionO2>0.32</fractionO2>
        <fractionHe>0</fractionHe>
        <tank0pressurePSI>3000</tank0pressurePSI>
        <tank1pressurePSI>AI is off</tank1pressurePSI>
      </diveLogRecord>
      <diveLogRecord>
        <currentTime>10000</currentTime>
        <currentDepth>12.5</currentDepth>
        <currentNdl>---</currentNdl>
        <ttsMins>3</ttsMins>
        <sac>0.45</sac>
        <gasTime>3600</gasTime>
      </diveLogRecord>
      <diveLogRecord>
        <currentTime>20500</currentTime>
        <currentDepth>18</currentDepth>
        <currentNdl>12</currentNdl>
        <tank0pressurePSI>AI is off</tank0pressurePSI>
      </diveLogRecord>
    </diveLogRecords>
  </diveLog>
</dive>`

func TestShearwaterParse(t *testing.T) {
	data, err := ShearwaterParser{}.Parse(strings.NewReader(shearwaterFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	checkShearwaterFixture(t, data)
}

func TestShearwaterParseUTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(shearwaterFixture)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	data, err := ShearwaterParser{}.Parse(strings.NewReader(encoded))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	checkShearwaterFixture(t, data)
}

func checkShearwaterFixture(t *testing.T, data DiveData) {
	t.Helper()
	if len(data.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(data.Samples))
	}
	wantStart := time.Date(2024, 4, 6, 11, 58, 49, 0, time.UTC)
	if !data.StartTime.Equal(wantStart) {
		t.Fatalf("StartTime = %v, want %v", data.StartTime, wantStart)
	}

	s0, s1, s2 := data.Samples[0], data.Samples[1], data.Samples[2]
	if s0.Time != 0 || s1.Time != 10 || s2.Time != 20 {
		t.Fatalf("times = %d,%d,%d want 0,10,20", s0.Time, s1.Time, s2.Time)
	}
	if len(s0.Pressure) != shearwaterTankSlots {
		t.Fatalf("pressure slots = %d", len(s0.Pressure))
	}
	if s0.Pressure[0] == nil || math.Abs(*s0.Pressure[0]-206.8428) > 1e-6 {
		t.Fatalf("tank0 bar = %v, want 206.8428", s0.Pressure[0])
	}
	if s0.Pressure[1] != nil {
		t.Fatalf("sentinel tank reading parsed as %v", *s0.Pressure[1])
	}
	if s1.Pressure[0] == nil || *s1.Pressure[0] != *s0.Pressure[0] {
		t.Fatalf("tank0 did not carry forward: %v", s1.Pressure[0])
	}
	if s2.Pressure[0] != nil {
		t.Fatalf("sentinel should clear tank0, got %v", *s2.Pressure[0])
	}

	if s1.NDL == nil || *s1.NDL != 99 {
		t.Fatalf("non-numeric NDL should keep previous value, got %v", s1.NDL)
	}
	if s2.NDL == nil || *s2.NDL != 12 {
		t.Fatalf("NDL = %v, want 12", s2.NDL)
	}
	if s2.Temperature == nil || *s2.Temperature != 25 {
		t.Fatalf("temperature = %v, want 25", s2.Temperature)
	}
	if s2.FractionO2 == nil || *s2.FractionO2 != 0.32 {
		t.Fatalf("fractionO2 = %v, want 0.32", s2.FractionO2)
	}
	if s2.SAC == nil || *s2.SAC != 0.45 {
		t.Fatalf("sac = %v", s2.SAC)
	}
	if s2.GTR == nil || *s2.GTR != 3600 {
		t.Fatalf("gtr = %v", s2.GTR)
	}
	if s0.TTS != nil || s1.TTS == nil || *s1.TTS != 3 {
		t.Fatalf("tts = %v/%v", s0.TTS, s1.TTS)
	}
}

func TestShearwaterMissingSections(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		section string
	}{
		{"no dive log", "<dive></dive>", SectionDiveLog},
		{"no start date", "<dive><diveLog><diveLogRecords><diveLogRecord><currentTime>0</currentTime></diveLogRecord></diveLogRecords></diveLog></dive>", SectionStartTime},
		{"no records", "<dive><diveLog><startDate>4/6/2024 11:58:49 AM</startDate></diveLog></dive>", SectionSamples},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ShearwaterParser{}.Parse(strings.NewReader(tc.doc))
			missing, ok := err.(*MissingSectionError)
			if !ok {
				t.Fatalf("err = %T %v, want *MissingSectionError", err, err)
			}
			if missing.Section != tc.section {
				t.Fatalf("section = %q, want %q", missing.Section, tc.section)
			}
		})
	}
}

func TestShearwaterMissingCurrentTime(t *testing.T) {
	doc := "<dive><diveLog><startDate>4/6/2024 11:58:49 AM</startDate><diveLogRecords>" +
		"<diveLogRecord><currentDepth>3</currentDepth></diveLogRecord></diveLogRecords></diveLog></dive>"
	_, err := ShearwaterParser{}.Parse(strings.NewReader(doc))
	sampleErr, ok := err.(*SampleError)
	if !ok || sampleErr.Field != "currentTime" {
		t.Fatalf("err = %T %v, want currentTime SampleError", err, err)
	}
}
