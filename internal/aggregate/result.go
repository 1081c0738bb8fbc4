package aggregate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/soundscope/moodline/internal/timeslot"
)

// EmotionChange is one notable shift the model pointed at.
type EmotionChange struct {
	Time  string `json:"time"`
	Event string `json:"event"`
	Score int    `json:"score"`
}

// DayResult is the analysis model's output for one whole day. The
// numeric fields are recomputed from Scores on parse; model arithmetic
// is not trusted.
type DayResult struct {
	TimePoints []string        `json:"timePoints"`
	Scores     []*int          `json:"emotionScores"`
	Summary    Summary         `json:"-"`
	Insights   []string        `json:"insights"`
	Changes    []EmotionChange `json:"emotionChanges"`
	Date       string          `json:"date"`
}

// MaxChanges bounds the notable-changes list.
const MaxChanges = 3

type dayResultWire struct {
	TimePoints []string        `json:"timePoints"`
	Scores     []*float64      `json:"emotionScores"`
	Insights   []string        `json:"insights"`
	Changes    []EmotionChange `json:"emotionChanges"`
	Date       string          `json:"date"`
}

// ParseDayResult decodes and validates a day analysis response.
// Literal NaN/Infinity tokens are not valid JSON and fail the decode;
// score entries outside [-100,100] fail validation. Scores arriving as
// fractions are rounded to integers, matching the output contract.
func ParseDayResult(raw []byte) (*DayResult, error) {
	var wire dayResultWire
	if err := json.Unmarshal(stripFences(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode day result: %w", err)
	}
	if len(wire.Scores) != timeslot.Count {
		return nil, fmt.Errorf("day result: %d scores, want %d", len(wire.Scores), timeslot.Count)
	}
	if len(wire.TimePoints) != 0 && len(wire.TimePoints) != timeslot.Count {
		return nil, fmt.Errorf("day result: %d time points, want %d", len(wire.TimePoints), timeslot.Count)
	}

	out := &DayResult{
		TimePoints: wire.TimePoints,
		Scores:     make([]*int, timeslot.Count),
		Insights:   wire.Insights,
		Changes:    wire.Changes,
		Date:       wire.Date,
	}
	var series Series
	for i, f := range wire.Scores {
		if f == nil {
			continue
		}
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			return nil, fmt.Errorf("day result: slot %d score is not finite", i)
		}
		v := int(math.Round(*f))
		if v < ScoreMin || v > ScoreMax {
			return nil, fmt.Errorf("day result: slot %d score %d out of range [%d,%d]", i, v, ScoreMin, ScoreMax)
		}
		out.Scores[i] = ptr(v)
		series[i] = out.Scores[i]
	}
	if len(out.Changes) > MaxChanges {
		out.Changes = out.Changes[:MaxChanges]
	}
	out.Summary = Summarize(series)
	return out, nil
}

// BlockResult is the analysis model's output for one 30-minute block.
type BlockResult struct {
	TimeBlock string `json:"time_block"`
	Summary   string `json:"summary"`
	Behavior  string `json:"behavior"`
	VibeScore int    `json:"vibe_score"`
}

// ParseBlockResult decodes a per-block analysis response, clamping the
// score into range rather than failing on a slightly over-eager model.
func ParseBlockResult(raw []byte) (*BlockResult, error) {
	var out BlockResult
	if err := json.Unmarshal(stripFences(raw), &out); err != nil {
		return nil, fmt.Errorf("decode block result: %w", err)
	}
	if out.TimeBlock != "" {
		if _, err := timeslot.FromLabel(out.TimeBlock); err != nil {
			return nil, fmt.Errorf("block result: %w", err)
		}
	}
	out.VibeScore = clamp(out.VibeScore)
	return &out, nil
}

// stripFences removes a surrounding markdown code fence if the model
// ignored the instruction to return bare JSON.
func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
