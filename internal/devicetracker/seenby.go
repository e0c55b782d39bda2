package devicetracker

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sensorcore/devicetracker/internal/element"
)

// SeenByRecord is the per (device, source) witness of spec §3.3: the
// relation "source observed device", with first/last times, a per-source
// frequency histogram, and a packet count. It implements element.Complex so
// each seenby_map entry is a genuine registry clone rather than an ad hoc
// struct literal.
type SeenByRecord struct {
	element.Base

	Source    uuid.UUID
	FirstTime int64
	LastTime  int64
	Packets   uint64

	freq map[float64]uint64
}

// NewSeenByRecord constructs a defaulted seenby_map entry under field id id.
func NewSeenByRecord(id element.FieldID) *SeenByRecord {
	return &SeenByRecord{Base: element.NewBase(id, "seenby_record", element.KindComplex), freq: make(map[float64]uint64)}
}

// CloneType implements element.Complex.
func (s *SeenByRecord) CloneType(id element.FieldID) element.Complex {
	return NewSeenByRecord(id)
}

func newSeenByRecord(source uuid.UUID, ts int64) *SeenByRecord {
	rec := mustGetInstance[*SeenByRecord](fieldSeenByRecord)
	rec.Source = source
	rec.FirstTime = ts
	rec.LastTime = ts
	return rec
}

// Update folds one frame's witness into the record (spec §4.4's SEENBY
// flag): bumps last_time, the packet count, and the frequency histogram.
func (s *SeenByRecord) Update(ts int64, freqKhz float64) {
	s.SetDirty(true)
	if ts > s.LastTime {
		s.LastTime = ts
	}
	s.Packets++
	if freqKhz != 0 {
		s.freq[freqKhz]++
	}
}

// Frequencies returns the histogram as ascending-key pairs, matching the
// numeric-keyed map traversal order required by spec §6.7.
func (s *SeenByRecord) Frequencies() []FreqCount {
	out := make([]FreqCount, 0, len(s.freq))
	for k, v := range s.freq {
		out = append(out, FreqCount{FreqKhz: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FreqKhz < out[j].FreqKhz })
	return out
}

// FreqCount is one (frequency, count) pair of a frequency histogram.
type FreqCount struct {
	FreqKhz float64
	Count   uint64
}
