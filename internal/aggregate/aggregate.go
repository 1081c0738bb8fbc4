// Package aggregate computes day-level statistics over a sparse
// 48-entry score series and validates the day results coming back from
// the analysis model. A nil entry means "unmeasured"; zero means
// "measured, neutral". The two never mix: nil entries are excluded from
// every statistic, zero entries count toward the neutral bucket.
package aggregate

import (
	"math"

	"github.com/soundscope/moodline/internal/reconcile"
	"github.com/soundscope/moodline/internal/timeslot"
)

// ScoreMin and ScoreMax bound every per-slot score.
const (
	ScoreMin = -100
	ScoreMax = 100
)

// Series is a slot-indexed sparse score array.
type Series [timeslot.Count]*int

// Summary is the numeric day-level aggregate. The consumer feeds it
// into JSON, so Average must always be a finite number: 0.0 when the
// whole series is unmeasured, never NaN or an infinity.
type Summary struct {
	Average       float64 `json:"average_score"`
	PositiveHours float64 `json:"positive_hours"`
	NegativeHours float64 `json:"negative_hours"`
	NeutralHours  float64 `json:"neutral_hours"`
	Min           *int    `json:"min_score"`
	Max           *int    `json:"max_score"`
	Measured      int     `json:"measured_slots"`
}

// Summarize computes the day summary for a series.
func Summarize(s Series) Summary {
	var sum Summary
	total := 0
	var pos, neg, neu int
	for _, score := range s {
		if score == nil {
			continue
		}
		v := *score
		total += v
		sum.Measured++
		switch {
		case v > 0:
			pos++
		case v < 0:
			neg++
		default:
			neu++
		}
		if sum.Min == nil || v < *sum.Min {
			sum.Min = ptr(v)
		}
		if sum.Max == nil || v > *sum.Max {
			sum.Max = ptr(v)
		}
	}
	if sum.Measured > 0 {
		sum.Average = round1(float64(total) / float64(sum.Measured))
	}
	sum.PositiveHours = 0.5 * float64(pos)
	sum.NegativeHours = 0.5 * float64(neg)
	sum.NeutralHours = 0.5 * float64(neu)
	return sum
}

func ptr(v int) *int { return &v }

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ScoreFor maps a reconciled observation to its upstream score slot
// state prior to analysis: slots with a recording participate (empty
// recordings as neutral), absent slots stay unmeasured.
func ScoreFor(obs reconcile.Observation, analyzed *int) *int {
	switch obs.Kind {
	case reconcile.Missing:
		return nil
	case reconcile.EmptyPresent:
		return ptr(0)
	default:
		if analyzed != nil {
			return ptr(clamp(*analyzed))
		}
		return nil
	}
}

func clamp(v int) int {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}
