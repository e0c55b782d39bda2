package devicetracker

import (
	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// Location is the min/max/avg lat/lon/alt envelope plus the most recent fix
// (spec §3.2's location field). It implements element.Complex so the device
// schema can hand out a fresh instance per device via Schema.GetInstance.
type Location struct {
	element.Base

	MinLat, MaxLat float64
	MinLon, MaxLon float64
	MinAlt, MaxAlt float64

	latSum, lonSum, altSum float64
	NumSamples              uint64

	LastLat, LastLon, LastAlt       float64
	LastSpeed, LastHeading          float64
	LastPrecision                   float64
	LastFixType                     int
	LastTime                        int64
	LastProvider                    string
	LastValid                       bool
}

// NewLocation constructs a defaulted location envelope under field id id.
func NewLocation(id element.FieldID) *Location {
	return &Location{Base: element.NewBase(id, "location", element.KindComplex)}
}

// CloneType implements element.Complex.
func (l *Location) CloneType(id element.FieldID) element.Complex {
	return NewLocation(id)
}

// AvgLat, AvgLon, AvgAlt are the running means of every valid fix merged.
func (l *Location) AvgLat() float64 { return l.avg(l.latSum) }
func (l *Location) AvgLon() float64 { return l.avg(l.lonSum) }
func (l *Location) AvgAlt() float64 { return l.avg(l.altSum) }

func (l *Location) avg(sum float64) float64 {
	if l.NumSamples == 0 {
		return 0
	}
	return sum / float64(l.NumSamples)
}

// MergeFix folds one fix into the envelope (spec §4.4's LOCATION flag).
// Fixes with Valid == false are ignored: the envelope only ever reflects
// positions the arbiter or capture source actually vouched for.
func (l *Location) MergeFix(fix frame.GPSFix) {
	if !fix.Valid {
		return
	}
	l.SetDirty(true)

	if l.NumSamples == 0 {
		l.MinLat, l.MaxLat = fix.Lat, fix.Lat
		l.MinLon, l.MaxLon = fix.Lon, fix.Lon
		l.MinAlt, l.MaxAlt = fix.Alt, fix.Alt
	} else {
		if fix.Lat < l.MinLat {
			l.MinLat = fix.Lat
		}
		if fix.Lat > l.MaxLat {
			l.MaxLat = fix.Lat
		}
		if fix.Lon < l.MinLon {
			l.MinLon = fix.Lon
		}
		if fix.Lon > l.MaxLon {
			l.MaxLon = fix.Lon
		}
		if fix.Alt < l.MinAlt {
			l.MinAlt = fix.Alt
		}
		if fix.Alt > l.MaxAlt {
			l.MaxAlt = fix.Alt
		}
	}

	l.latSum += fix.Lat
	l.lonSum += fix.Lon
	l.altSum += fix.Alt
	l.NumSamples++

	l.LastLat, l.LastLon, l.LastAlt = fix.Lat, fix.Lon, fix.Alt
	l.LastSpeed, l.LastHeading = fix.Speed, fix.Heading
	l.LastPrecision = fix.Precision
	l.LastFixType = fix.FixType
	l.LastTime = fix.Time
	l.LastProvider = fix.Provider
	l.LastValid = true
}
