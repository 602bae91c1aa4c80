package divelog

import "testing"

func TestPatchApplyLeavesPreviousUntouched(t *testing.T) {
	prev := DiveSample{
		Time:     10,
		Depth:    5,
		NDL:      Int(99),
		Pressure: []*float64{Float(200), nil},
	}
	next := Patch{
		Time:     20,
		Depth:    Float(8),
		NDL:      Int(40),
		Pressure: map[int]*float64{0: Float(190), 1: Float(150), 5: Float(1)},
	}.Apply(prev)

	if *prev.NDL != 99 || *prev.Pressure[0] != 200 || prev.Pressure[1] != nil {
		t.Fatalf("Apply mutated previous sample: %+v", prev)
	}
	if next.Time != 20 || next.Depth != 8 || *next.NDL != 40 {
		t.Fatalf("unexpected next sample: %+v", next)
	}
	if len(next.Pressure) != 2 {
		t.Fatalf("out-of-range slot changed slot count: %d", len(next.Pressure))
	}
	if *next.Pressure[0] != 190 || *next.Pressure[1] != 150 {
		t.Fatalf("pressure = %v/%v", *next.Pressure[0], *next.Pressure[1])
	}
}

func TestPatchClearsSlot(t *testing.T) {
	prev := DiveSample{Pressure: []*float64{Float(200)}}
	next := Patch{Time: 1, Pressure: map[int]*float64{0: nil}}.Apply(prev)
	if next.Pressure[0] != nil {
		t.Fatalf("slot not cleared: %v", *next.Pressure[0])
	}
	if prev.Pressure[0] == nil {
		t.Fatal("clearing mutated previous sample")
	}
}

func TestBuildSamplesCarryForward(t *testing.T) {
	initial := DiveSample{NDL: Int(99), StopDepth: Float(0)}
	patches := []Patch{
		{Time: 0, Depth: Float(0)},
		{Time: 10, Depth: Float(10), Temperature: Float(20)},
		{Time: 20, Depth: Float(15), NDL: Int(30)},
		{Time: 30, Depth: Float(12), StopDepth: Float(3)},
		{Time: 40},
	}
	samples, err := BuildSamples(initial, patches)
	if err != nil {
		t.Fatalf("BuildSamples: %v", err)
	}
	if len(samples) != len(patches) {
		t.Fatalf("got %d samples, want %d", len(samples), len(patches))
	}

	// Every field equals the value of the nearest preceding patch that set
	// it, or the initial default.
	wantNDL := []int{99, 99, 30, 30, 30}
	wantStop := []float64{0, 0, 0, 3, 3}
	for i, s := range samples {
		if *s.NDL != wantNDL[i] {
			t.Errorf("sample %d NDL = %d, want %d", i, *s.NDL, wantNDL[i])
		}
		if *s.StopDepth != wantStop[i] {
			t.Errorf("sample %d stop depth = %v, want %v", i, *s.StopDepth, wantStop[i])
		}
		if i == 0 && s.Temperature != nil {
			t.Errorf("sample 0 temperature set before any record")
		}
		if i > 0 && (s.Temperature == nil || *s.Temperature != 20) {
			t.Errorf("sample %d temperature = %v, want 20", i, s.Temperature)
		}
	}
	if samples[4].Depth != 12 {
		t.Errorf("depth without a reading should carry forward, got %v", samples[4].Depth)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Time < samples[i-1].Time {
			t.Fatalf("time decreased at %d", i)
		}
	}
}

func TestBuildSamplesRejectsDecreasingTime(t *testing.T) {
	_, err := BuildSamples(DiveSample{}, []Patch{{Time: 10}, {Time: 5}})
	sampleErr, ok := err.(*SampleError)
	if !ok {
		t.Fatalf("err = %T %v, want *SampleError", err, err)
	}
	if sampleErr.Index != 1 {
		t.Fatalf("Index = %d, want 1", sampleErr.Index)
	}
}
