package overlay

import "scubaoverlay/pkg/divelog"

// PreviewTime is the dive time shown by template previews.
const PreviewTime = 900

// Preview frame sizes used when a template sets none.
const (
	PreviewPanelWidth    = 480
	PreviewPanelHeight   = 280
	PreviewProfileWidth  = 800
	PreviewProfileHeight = 300
)

// PreviewSample is a representative mid-dive state for panel previews.
func PreviewSample() divelog.DiveSample {
	return divelog.DiveSample{
		Time:        8000,
		Depth:       30.0,
		NDL:         divelog.Int(15),
		TTS:         divelog.Int(10),
		StopDepth:   divelog.Float(6.0),
		StopTime:    divelog.Int(3),
		Temperature: divelog.Float(22.5),
		Pressure: []*float64{
			divelog.Float(200.15),
			divelog.Float(180.4),
			divelog.Float(150.50),
			divelog.Float(120.95),
		},
		FractionO2:  divelog.Float(0.21),
		FractionHe:  divelog.Float(0.29),
		SAC:         divelog.Float(14.2),
		GTR:         divelog.Int(2400),
		PPO2:        divelog.Float(1.05),
		PPO2Sensors: []*float64{divelog.Float(1.04), divelog.Float(1.05), divelog.Float(1.06)},
	}
}

// Synthetic dive phases in seconds.
const (
	syntheticDescentEnd = 180
	syntheticBottomEnd  = 1380
	syntheticAscentEnd  = 1680
	syntheticStopEnd    = 1860
	syntheticSurface    = 1920
	syntheticMaxDepth   = 30.0
	syntheticStopDepth  = 5.0
	syntheticStep       = 10

	// SyntheticDuration spans the whole synthetic dive.
	SyntheticDuration = syntheticSurface
)

// SyntheticDive returns a sampled dive with descent, bottom, ascent, safety
// stop and surface phases. The diver starts on EAN32 and switches to EAN50
// when the ascent begins; a ceiling is reported during the final part of
// the bottom phase and the ascent.
func SyntheticDive() []divelog.DiveSample {
	ean32, ean50 := 0.32, 0.50
	var samples []divelog.DiveSample
	for t := 0; t <= syntheticSurface; t += syntheticStep {
		var depth float64
		switch {
		case t <= syntheticDescentEnd:
			depth = syntheticMaxDepth * float64(t) / syntheticDescentEnd
		case t <= syntheticBottomEnd:
			depth = syntheticMaxDepth
		case t <= syntheticAscentEnd:
			frac := float64(t-syntheticBottomEnd) / float64(syntheticAscentEnd-syntheticBottomEnd)
			depth = syntheticMaxDepth - frac*(syntheticMaxDepth-syntheticStopDepth)
		case t <= syntheticStopEnd:
			depth = syntheticStopDepth
		default:
			frac := float64(t-syntheticStopEnd) / float64(syntheticSurface-syntheticStopEnd)
			depth = syntheticStopDepth * (1 - frac)
		}

		ceiling := 0.0
		if t >= 1200 && t < 1560 {
			ceiling = 3.0
		}
		o2 := ean32
		if t >= syntheticBottomEnd {
			o2 = ean50
		}
		ndl := 0
		if ceiling == 0 {
			ndl = 99
		}
		samples = append(samples, divelog.DiveSample{
			Time:        t,
			Depth:       depth,
			NDL:         divelog.Int(ndl),
			TTS:         divelog.Int(int(depth/3) + 1),
			StopDepth:   divelog.Float(ceiling),
			StopTime:    divelog.Int(0),
			Temperature: divelog.Float(22.0 - depth/10),
			Pressure:    []*float64{divelog.Float(200 - float64(t)/12)},
			FractionO2:  divelog.Float(o2),
			FractionHe:  divelog.Float(0),
		})
	}
	return samples
}
