package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundscope/moodline/internal/aggregate"
	"github.com/soundscope/moodline/internal/timeslot"
)

// ReadBlockScores assembles the sparse day score series from analyzed
// block rows. Slots without a row, or whose analysis has not landed
// yet, stay nil — unmeasured, not zero.
func (s *Store) ReadBlockScores(ctx context.Context, deviceID uuid.UUID, date string) (aggregate.Series, error) {
	var series aggregate.Series
	rows, err := s.pool.Query(ctx, `
		SELECT time_block, vibe_score FROM block_prompts
		WHERE device_id = $1 AND date = $2 AND vibe_score IS NOT NULL`,
		deviceID, date,
	)
	if err != nil {
		return series, fmt.Errorf("read block scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var score int
		if err := rows.Scan(&label, &score); err != nil {
			return series, fmt.Errorf("scan block score: %w", err)
		}
		slot, err := timeslot.FromLabel(label)
		if err != nil {
			// A malformed label is a data bug, not a reason to drop the day.
			continue
		}
		v := score
		series[slot.Index()] = &v
	}
	if err := rows.Err(); err != nil {
		return series, fmt.Errorf("read block scores: %w", err)
	}
	return series, nil
}

// UpsertDaySummary stores the day aggregate: the full sparse score
// array plus the recomputed statistics and the model's narrative
// fields. One row per (device, date).
func (s *Store) UpsertDaySummary(ctx context.Context, deviceID uuid.UUID, date string, series aggregate.Series, sum aggregate.Summary, insights []string, changes []aggregate.EmotionChange, generatedAt time.Time) error {
	scores, err := json.Marshal(series[:])
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO day_summaries
			(device_id, date, vibe_scores, average_score, positive_hours, negative_hours, neutral_hours, insights, emotion_changes, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (device_id, date)
		DO UPDATE SET vibe_scores = $3, average_score = $4, positive_hours = $5,
			negative_hours = $6, neutral_hours = $7, insights = $8,
			emotion_changes = $9, generated_at = $10`,
		deviceID, date, scores, sum.Average, sum.PositiveHours, sum.NegativeHours,
		sum.NeutralHours, insights, changesJSON, generatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert day summary: %w", err)
	}
	return nil
}
