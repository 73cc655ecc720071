package geofence

import (
	"math"
	"time"
)

const earthRadiusMeter = 6371000

type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

type Reason string

const (
	ReasonNone           Reason = ""
	ReasonOutOfRange     Reason = "OUT_OF_RANGE"
	ReasonOutOfWindow    Reason = "OUT_OF_WINDOW"
	ReasonNoPolicyConfig Reason = "NO_POLICY_CONFIGURED"
)

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Policy is one allowed circle plus its working hours, as offsets from midnight.
type Policy struct {
	ID          uint
	Center      Point
	RadiusMeter float64
	ClockIn     time.Duration
	ClockOut    time.Duration
}

type Decision struct {
	Accepted bool    `json:"accepted"`
	Reason   Reason  `json:"reason,omitempty"`
	Distance float64 `json:"distance"`
	PolicyID uint    `json:"policy_id,omitempty"`
}

type Validator struct {
	// EarlyTolerance: berapa lama sebelum jam masuk clock-in sudah boleh.
	EarlyTolerance time.Duration
	// LateTolerance: berapa lama setelah jam pulang clock-out masih boleh.
	LateTolerance time.Duration
}

// Check evaluates point against every policy. The first policy satisfied on both
// range and window accepts; otherwise the reason prefers OUT_OF_WINDOW when at
// least one circle contained the point.
func (v Validator) Check(point Point, action Action, now time.Time, policies []Policy) Decision {
	if len(policies) == 0 {
		return Decision{Reason: ReasonNoPolicyConfig}
	}

	minDistance := math.MaxFloat64
	anyInRange := false

	for _, p := range policies {
		d := Distance(point, p.Center)
		if d < minDistance {
			minDistance = d
		}
		if !InRange(d, p.RadiusMeter) {
			continue
		}
		anyInRange = true
		if v.inWindow(p, action, now) {
			return Decision{Accepted: true, Distance: d, PolicyID: p.ID}
		}
	}

	if anyInRange {
		return Decision{Reason: ReasonOutOfWindow, Distance: minDistance}
	}
	return Decision{Reason: ReasonOutOfRange, Distance: minDistance}
}

// InRange reports distance <= radius. Negative radius never matches.
func InRange(distance, radius float64) bool {
	return radius >= 0 && distance <= radius
}

func (v Validator) inWindow(p Policy, action Action, now time.Time) bool {
	start, end := p.ClockIn, p.ClockOut
	// Shift lintas hari: jam pulang <= jam masuk berarti berakhir besoknya
	if end <= start {
		end += 24 * time.Hour
	}

	switch action {
	case ActionClockIn:
		start -= v.EarlyTolerance
	case ActionClockOut:
		end += v.LateTolerance
	}

	tod := SinceMidnight(now)
	for _, t := range []time.Duration{tod - 24*time.Hour, tod, tod + 24*time.Hour} {
		if t >= start && t <= end {
			return true
		}
	}
	return false
}

// SinceMidnight returns the wall-clock offset of t within its own day.
func SinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// Distance is the haversine distance in metres.
func Distance(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeter * c
}
