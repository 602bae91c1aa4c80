package divelog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const subsurfaceFixture = `<divelog program='subsurface' version='3'>
<settings></settings>
<dives>
<dive number='1' date='2024-04-06' time='10:30:00' duration='4:00 min'>
  <cylinder size='11.1 l' description='AL80' />
  <cylinder size='5.7 l' description='AL40' o2='50.0%' />
  <divecomputer model='Shearwater Perdix'>
  <event time='2:00 min' type='25' name='gaschange' o2='50.0%' />
  <event time='2:30 min' type='8' name='ascent' />
  <sample time='0:00 min' depth='0.0 m' temp='24.0 C' pressure0='200.0 bar' />
  <sample time='1:00 min' depth='15.0 m' ndl='45:00 min' />
  <sample time='2:00 min' depth='20.0 m' pressure0='180.5 bar' pressure1='bogus' />
  <sample time='3:00 min' depth='6.0 m' stopdepth='3.0 m' stoptime='2:00 min' sensor1='1.20 bar' />
  <sample time='4:00 min' depth='0.0 m' />
  </divecomputer>
</dive>
</dives>
</divelog>`

func parseSubsurface(t *testing.T, doc string) (DiveData, error) {
	t.Helper()
	return SubsurfaceParser{}.Parse(strings.NewReader(doc))
}

func TestSubsurfaceParseCarriesForward(t *testing.T) {
	data, err := parseSubsurface(t, subsurfaceFixture)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var times []int
	for _, s := range data.Samples {
		times = append(times, s.Time)
	}
	if diff := cmp.Diff([]int{0, 60, 120, 180, 240}, times); diff != "" {
		t.Fatalf("sample times mismatch (-want +got):\n%s", diff)
	}

	wantStart := time.Date(2024, 4, 6, 10, 30, 0, 0, time.UTC)
	if !data.StartTime.Equal(wantStart) {
		t.Fatalf("StartTime = %v, want %v", data.StartTime, wantStart)
	}
	if got := data.EndTime.Sub(data.StartTime); got != 240*time.Second {
		t.Fatalf("EndTime - StartTime = %v, want 4m0s", got)
	}
	if data.Format != FormatSubsurface {
		t.Fatalf("Format = %q", data.Format)
	}

	wantNDL := []int{99, 45, 45, 45, 45}
	wantPressure := []float64{200, 200, 180.5, 180.5, 180.5}
	for i, s := range data.Samples {
		if s.NDL == nil || *s.NDL != wantNDL[i] {
			t.Errorf("sample %d NDL = %v, want %d", i, s.NDL, wantNDL[i])
		}
		if s.Temperature == nil || *s.Temperature != 24 {
			t.Errorf("sample %d temperature = %v, want 24", i, s.Temperature)
		}
		if len(s.Pressure) != 2 {
			t.Fatalf("sample %d has %d pressure slots, want 2", i, len(s.Pressure))
		}
		if s.Pressure[0] == nil || *s.Pressure[0] != wantPressure[i] {
			t.Errorf("sample %d pressure[0] = %v, want %v", i, s.Pressure[0], wantPressure[i])
		}
		if s.Pressure[1] != nil {
			t.Errorf("sample %d pressure[1] = %v, want nil", i, *s.Pressure[1])
		}
	}

	last := data.Samples[4]
	if last.StopDepth == nil || *last.StopDepth != 3 {
		t.Errorf("stop depth did not carry forward: %v", last.StopDepth)
	}
	if last.StopTime == nil || *last.StopTime != 2 {
		t.Errorf("stop time did not carry forward: %v", last.StopTime)
	}
	if last.PPO2Sensors[0] == nil || *last.PPO2Sensors[0] != 1.2 {
		t.Errorf("sensor1 = %v, want 1.2", last.PPO2Sensors[0])
	}
	if first := data.Samples[0]; first.StopDepth == nil || *first.StopDepth != 0 {
		t.Errorf("initial stop depth = %v, want 0", first.StopDepth)
	}
}

func TestSubsurfaceGasChangeForwardFill(t *testing.T) {
	data, err := parseSubsurface(t, subsurfaceFixture)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, s := range data.Samples {
		switch {
		case s.Time < 120:
			if s.FractionO2 != nil {
				t.Errorf("t=%d O2 = %v before gas change", s.Time, *s.FractionO2)
			}
		default:
			if s.FractionO2 == nil || *s.FractionO2 != 0.5 {
				t.Errorf("t=%d O2 = %v, want 0.5", s.Time, s.FractionO2)
			}
		}
	}
}

func TestSubsurfaceErrors(t *testing.T) {
	dive := func(attrs, body string) string {
		return "<divelog><dives><dive " + attrs + ">" + body + "</dive></dives></divelog>"
	}
	const computer = "<divecomputer><sample time='0:10 min' depth='1.0 m' /></divecomputer>"

	tests := []struct {
		name  string
		doc   string
		check func(error) bool
	}{
		{
			name:  "no dives",
			doc:   "<divelog><dives></dives></divelog>",
			check: func(err error) bool { return errors.Is(err, ErrNoDiveData) },
		},
		{
			name: "multiple dives",
			doc: "<divelog><dives><dive date='2024-01-01' time='10:00:00'/>" +
				"<trip><dive date='2024-01-01' time='12:00:00'/></trip></dives></divelog>",
			check: func(err error) bool {
				var multi *MultipleDivesError
				return errors.As(err, &multi) && multi.Count == 2
			},
		},
		{
			name: "missing start time",
			doc:  dive("date='2024-01-01'", computer),
			check: func(err error) bool {
				var missing *MissingSectionError
				return errors.As(err, &missing) && missing.Section == SectionStartTime
			},
		},
		{
			name: "bad start time",
			doc:  dive("date='2024-13-01' time='10:00:00'", computer),
			check: func(err error) bool {
				var bad *StartTimeError
				return errors.As(err, &bad)
			},
		},
		{
			name: "missing divecomputer",
			doc:  dive("date='2024-01-01' time='10:00:00'", ""),
			check: func(err error) bool {
				var missing *MissingSectionError
				return errors.As(err, &missing) && missing.Section == SectionComputer
			},
		},
		{
			name: "no samples",
			doc:  dive("date='2024-01-01' time='10:00:00'", "<divecomputer></divecomputer>"),
			check: func(err error) bool {
				var missing *MissingSectionError
				return errors.As(err, &missing) && missing.Section == SectionSamples
			},
		},
		{
			name: "unparseable time",
			doc:  dive("date='2024-01-01' time='10:00:00'", "<divecomputer><sample time='ten' depth='1.0 m' /></divecomputer>"),
			check: func(err error) bool {
				var sample *SampleError
				return errors.As(err, &sample) && sample.Field == "time"
			},
		},
		{
			name: "malformed xml",
			doc:  "<divelog><dives>",
			check: func(err error) bool {
				var malformed *MalformedLogError
				return errors.As(err, &malformed)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseSubsurface(t, tc.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tc.check(err) {
				t.Fatalf("unexpected error type: %T %v", err, err)
			}
			if !errors.Is(err, ErrDiveLog) {
				t.Fatalf("error %v does not match ErrDiveLog", err)
			}
		})
	}
}
