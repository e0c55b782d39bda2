package devicetracker

import "github.com/sensorcore/devicetracker/internal/element"

// SignalData is the min/max/last/running-average signal and noise envelope
// of spec §3.2's signal_data field, with the location of the strongest
// observed signal. It implements element.Complex so the device schema can
// hand out a fresh instance per device via Schema.GetInstance.
type SignalData struct {
	element.Base

	LastSignal int32
	LastNoise  int32

	MinSignal int32
	MaxSignal int32
	MinNoise  int32
	MaxNoise  int32

	signalSum   int64
	signalCount int64

	// PeakLat/PeakLon/PeakAlt snapshot the location envelope's last fix at
	// the moment the strongest signal so far was observed.
	PeakLat, PeakLon, PeakAlt float64
	HasPeakLocation           bool

	signalSeen bool
	noiseSeen  bool
}

// NewSignalData constructs a defaulted signal envelope under field id id.
func NewSignalData(id element.FieldID) *SignalData {
	return &SignalData{Base: element.NewBase(id, "signal_data", element.KindComplex)}
}

// CloneType implements element.Complex.
func (s *SignalData) CloneType(id element.FieldID) element.Complex {
	return NewSignalData(id)
}

// AvgSignal is the running mean of every signal sample merged so far.
func (s *SignalData) AvgSignal() float64 {
	if s.signalCount == 0 {
		return 0
	}
	return float64(s.signalSum) / float64(s.signalCount)
}

// MergeSignal folds one sample into the envelope (spec §4.4's SIGNAL flag).
// loc, if non-nil and carrying a valid fix, is snapshotted as the peak
// location whenever this sample sets a new max.
func (s *SignalData) MergeSignal(signalDBM int32, hasSignal bool, noiseDBM int32, hasNoise bool, loc *Location) {
	if !hasSignal && !hasNoise {
		return
	}
	s.SetDirty(true)
	if hasSignal {
		if !s.signalSeen || signalDBM > s.MaxSignal {
			s.MaxSignal = signalDBM
			if loc != nil && loc.LastValid {
				s.PeakLat, s.PeakLon, s.PeakAlt = loc.LastLat, loc.LastLon, loc.LastAlt
				s.HasPeakLocation = true
			}
		}
		if !s.signalSeen || signalDBM < s.MinSignal {
			s.MinSignal = signalDBM
		}
		s.LastSignal = signalDBM
		s.signalSum += int64(signalDBM)
		s.signalCount++
		s.signalSeen = true
	}
	if hasNoise {
		if !s.noiseSeen || noiseDBM > s.MaxNoise {
			s.MaxNoise = noiseDBM
		}
		if !s.noiseSeen || noiseDBM < s.MinNoise {
			s.MinNoise = noiseDBM
		}
		s.LastNoise = noiseDBM
		s.noiseSeen = true
	}
}
