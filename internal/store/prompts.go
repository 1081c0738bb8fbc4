package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundscope/moodline/internal/timeslot"
)

// UpsertDayPrompt stores a generated day prompt together with its
// coverage metadata. One row per (device, date).
func (s *Store) UpsertDayPrompt(ctx context.Context, deviceID uuid.UUID, date, promptText string, processed int, gaps []string, generatedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO day_prompts (device_id, date, prompt, processed_blocks, gaps, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (device_id, date)
		DO UPDATE SET prompt = $3, processed_blocks = $4, gaps = $5, generated_at = $6`,
		deviceID, date, promptText, processed, gaps, generatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert day prompt: %w", err)
	}
	return nil
}

// UpsertBlockPrompt stores a generated per-block prompt. One row per
// (device, date, time_block); analysis results land on the same row
// later via UpdateBlockAnalysis.
func (s *Store) UpsertBlockPrompt(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot, promptText string, generatedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO block_prompts (device_id, date, time_block, prompt, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (device_id, date, time_block)
		DO UPDATE SET prompt = $4, updated_at = $5`,
		deviceID, date, slot.Label(), promptText, generatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert block prompt: %w", err)
	}
	return nil
}

// UpdateBlockAnalysis records the model's per-block result.
func (s *Store) UpdateBlockAnalysis(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot, summary, behavior string, vibeScore int, updatedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE block_prompts
		SET summary = $4, behavior = $5, vibe_score = $6, updated_at = $7
		WHERE device_id = $1 AND date = $2 AND time_block = $3`,
		deviceID, date, slot.Label(), summary, behavior, vibeScore, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update block analysis: %w", err)
	}
	return nil
}
