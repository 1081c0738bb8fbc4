// Package signal defines the fetch surfaces the pipeline pulls per-slot
// behavioral data through. Implementations live in the store package;
// tests substitute in-memory fakes.
package signal

import (
	"context"

	"github.com/google/uuid"

	"github.com/soundscope/moodline/internal/timeslot"
)

// FetchResult is the outcome of one per-slot fetch. Found=false with a
// nil Err means the row simply does not exist, which downstream is a
// different state from a fetch failure: no recording happened vs. we
// could not find out.
type FetchResult struct {
	Found   bool
	Payload any
	Err     error
}

// NotFound is the result for an absent row.
func NotFound() FetchResult { return FetchResult{} }

// Failed wraps a fetch or decode error.
func Failed(err error) FetchResult { return FetchResult{Err: err} }

// Present wraps a payload that was successfully retrieved.
func Present(payload any) FetchResult { return FetchResult{Found: true, Payload: payload} }

// TranscriptSource retrieves the speech transcript payload for one slot.
// This is the mandatory modality: its outcome alone decides how a slot
// is classified.
type TranscriptSource interface {
	FetchSlot(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot) FetchResult
}

// SoundEvent is one acoustic event detection with its probability.
type SoundEvent struct {
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
}

// FeatureSample is one second of voice-feature measurements.
type FeatureSample struct {
	Timestamp string  `json:"timestamp"`
	Loudness  float64 `json:"loudness"`
	Jitter    float64 `json:"jitter"`
}

// EnrichmentSource retrieves the optional modalities for one slot.
// Missing enrichment data never changes a slot's classification; it
// only thins out the rendered prompt.
type EnrichmentSource interface {
	FetchSoundEvents(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot) ([]SoundEvent, error)
	FetchVoiceFeatures(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot) ([]FeatureSample, error)
}

// SubjectProfile is what is known about the person behind a device.
// Age is a pointer: unknown age and age zero are different statements.
type SubjectProfile struct {
	Name   string
	Age    *int
	Gender string
	Notes  string
}

// ProfileSource looks up the observed subject for a device. A nil
// profile with a nil error means no subject is registered.
type ProfileSource interface {
	FetchProfile(ctx context.Context, deviceID uuid.UUID) (*SubjectProfile, error)
}
