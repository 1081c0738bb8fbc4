// Package reconcile turns 48 raw per-slot fetch outcomes into one
// classified observation per slot. A slot whose row is absent and a slot
// whose recording carried no speech are different states and stay
// different all the way down: absence becomes a null score upstream,
// an empty recording becomes a zero.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soundscope/moodline/internal/extract"
	"github.com/soundscope/moodline/internal/signal"
	"github.com/soundscope/moodline/internal/timeslot"
)

// Kind classifies one slot's data availability.
type Kind int

const (
	// Missing: no source row could be obtained — absent, fetch failure,
	// or timeout. Upstream score: null.
	Missing Kind = iota
	// EmptyPresent: the row exists but carries no usable text. The
	// recording happened; nothing meaningful was captured. Upstream
	// score: zero.
	EmptyPresent
	// TextPresent: a non-empty transcript was extracted.
	TextPresent
)

func (k Kind) String() string {
	switch k {
	case TextPresent:
		return "text"
	case EmptyPresent:
		return "empty"
	default:
		return "missing"
	}
}

// Observation is the reconciled state of one slot.
type Observation struct {
	Slot   timeslot.Slot
	Kind   Kind
	Text   string // set only for TextPresent
	Reason string // set for everything else, styled like the gap list
}

// Day is one reconciliation run over a (device, date) pair.
type Day struct {
	Date         string
	Observations [timeslot.Count]Observation
	Gaps         []string // reasons for every non-TextPresent slot, ascending
}

// Processed counts slots that yielded text.
func (d *Day) Processed() int {
	n := 0
	for _, obs := range d.Observations {
		if obs.Kind == TextPresent {
			n++
		}
	}
	return n
}

// Counts returns per-kind slot counts.
func (d *Day) Counts() (text, empty, missing int) {
	for _, obs := range d.Observations {
		switch obs.Kind {
		case TextPresent:
			text++
		case EmptyPresent:
			empty++
		default:
			missing++
		}
	}
	return text, empty, missing
}

// Classify maps raw fetch outcomes to observations, index-aligned with
// the canonical slot enumeration. Pure; every failure mode folds into
// the observation, none escapes.
func Classify(results [timeslot.Count]signal.FetchResult) [timeslot.Count]Observation {
	var out [timeslot.Count]Observation
	for i, slot := range timeslot.Slots() {
		out[i] = classifySlot(slot, results[i])
	}
	return out
}

func classifySlot(slot timeslot.Slot, res signal.FetchResult) Observation {
	obs := Observation{Slot: slot}
	switch {
	case res.Err != nil:
		obs.Kind = Missing
		if errors.Is(res.Err, context.DeadlineExceeded) {
			obs.Reason = fmt.Sprintf("%s (timeout)", slot.Label())
		} else {
			obs.Reason = fmt.Sprintf("%s (fetch failed: %v)", slot.Label(), res.Err)
		}
	case !res.Found:
		obs.Kind = Missing
		obs.Reason = slot.Label()
	default:
		if text := extract.Text(res.Payload); text != "" {
			obs.Kind = TextPresent
			obs.Text = text
		} else {
			obs.Kind = EmptyPresent
			obs.Reason = fmt.Sprintf("%s (no text)", slot.Label())
		}
	}
	return obs
}

// ClassifyOne classifies a single slot's fetch outcome.
func ClassifyOne(slot timeslot.Slot, res signal.FetchResult) Observation {
	return classifySlot(slot, res)
}

// buildDay assembles the gap list from classified observations.
func buildDay(date string, observations [timeslot.Count]Observation) *Day {
	day := &Day{Date: date, Observations: observations}
	for _, obs := range observations {
		if obs.Kind != TextPresent {
			day.Gaps = append(day.Gaps, obs.Reason)
		}
	}
	return day
}

// ClassifyDay is the pure entry point: classify and assemble without I/O.
func ClassifyDay(date string, results [timeslot.Count]signal.FetchResult) *Day {
	return buildDay(date, Classify(results))
}

// Reconciler fans out the 48 per-slot fetches and classifies the results.
type Reconciler struct {
	source       signal.TranscriptSource
	fetchTimeout time.Duration
	concurrency  int
	logger       *slog.Logger
}

func New(source signal.TranscriptSource, fetchTimeout time.Duration, concurrency int, logger *slog.Logger) *Reconciler {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Reconciler{
		source:       source,
		fetchTimeout: fetchTimeout,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// Reconcile fetches all 48 slots for one (device, date) pair and returns
// the classified day. Slot fetches are independent, so they run
// concurrently and land in slot order. Only caller cancellation aborts
// the run; per-slot failures are recorded and the rest proceed.
func (r *Reconciler) Reconcile(ctx context.Context, deviceID uuid.UUID, date string) (*Day, error) {
	var results [timeslot.Count]signal.FetchResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, slot := range timeslot.Slots() {
		i, slot := i, slot
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, r.fetchTimeout)
			defer cancel()
			results[i] = r.source.FetchSlot(fctx, deviceID, date, slot)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-slot data

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day := buildDay(date, Classify(results))
	text, empty, missing := day.Counts()
	r.logger.Info("day reconciled",
		"device_id", deviceID,
		"date", date,
		"text", text,
		"empty", empty,
		"missing", missing,
	)
	return day, nil
}
