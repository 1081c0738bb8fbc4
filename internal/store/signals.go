package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/soundscope/moodline/internal/signal"
	"github.com/soundscope/moodline/internal/timeslot"
)

// FetchSlot retrieves the transcript payload for one slot. An absent
// row and a failed query map to different fetch outcomes; the
// reconciler classifies them differently.
func (s *Store) FetchSlot(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot) signal.FetchResult {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM transcripts
		WHERE device_id = $1 AND date = $2 AND time_block = $3`,
		deviceID, date, slot.Label(),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return signal.NotFound()
	}
	if err != nil {
		return signal.Failed(fmt.Errorf("fetch transcript: %w", err))
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Some early recorders stored the transcript bare.
		return signal.Present(string(raw))
	}
	return signal.Present(payload)
}

// FetchSoundEvents retrieves acoustic event detections for one slot.
// No rows is not an error; enrichments are optional.
func (s *Store) FetchSoundEvents(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot) ([]signal.SoundEvent, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT events FROM sound_events
		WHERE device_id = $1 AND date = $2 AND time_block = $3`,
		deviceID, date, slot.Label(),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch sound events: %w", err)
	}
	var events []signal.SoundEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode sound events: %w", err)
	}
	return events, nil
}

// FetchVoiceFeatures retrieves the per-second voice feature timeline
// for one slot.
func (s *Store) FetchVoiceFeatures(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot) ([]signal.FeatureSample, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT timeline FROM voice_features
		WHERE device_id = $1 AND date = $2 AND time_block = $3`,
		deviceID, date, slot.Label(),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch voice features: %w", err)
	}
	var timeline []signal.FeatureSample
	if err := json.Unmarshal(raw, &timeline); err != nil {
		return nil, fmt.Errorf("decode voice features: %w", err)
	}
	return timeline, nil
}

// FetchProfile resolves a device to its registered subject. A device
// without a subject row yields a nil profile, not an error.
func (s *Store) FetchProfile(ctx context.Context, deviceID uuid.UUID) (*signal.SubjectProfile, error) {
	var p signal.SubjectProfile
	err := s.pool.QueryRow(ctx, `
		SELECT sub.name, sub.age, sub.gender, sub.notes
		FROM devices dev
		JOIN subjects sub ON sub.subject_id = dev.subject_id
		WHERE dev.device_id = $1`,
		deviceID,
	).Scan(&p.Name, &p.Age, &p.Gender, &p.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch subject profile: %w", err)
	}
	return &p, nil
}

// MarkProcessed flags the source rows whose data went into a generated
// prompt. Called only after the prompt upsert succeeded, and only for
// modalities that actually had data.
func (s *Store) MarkProcessed(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot, transcript, sounds, features bool) error {
	tables := map[string]bool{
		"transcripts":    transcript,
		"sound_events":   sounds,
		"voice_features": features,
	}
	for _, table := range []string{"transcripts", "sound_events", "voice_features"} {
		if !tables[table] {
			continue
		}
		_, err := s.pool.Exec(ctx, fmt.Sprintf(`
			UPDATE %s SET status = 'completed'
			WHERE device_id = $1 AND date = $2 AND time_block = $3`, table),
			deviceID, date, slot.Label(),
		)
		if err != nil {
			return fmt.Errorf("mark %s processed: %w", table, err)
		}
	}
	return nil
}
