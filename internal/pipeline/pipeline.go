// Package pipeline orchestrates the aggregation runs: validate input,
// fetch and reconcile per-slot signals, render the prompt, persist it
// and announce it. Each run is an independent unit of work keyed by
// (device, date) or (device, date, block); there is no shared mutable
// state between concurrent runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soundscope/moodline/internal/aggregate"
	"github.com/soundscope/moodline/internal/events"
	"github.com/soundscope/moodline/internal/llm"
	"github.com/soundscope/moodline/internal/prompt"
	"github.com/soundscope/moodline/internal/reconcile"
	"github.com/soundscope/moodline/internal/signal"
	"github.com/soundscope/moodline/internal/timeslot"
)

// Caller-visible failures. Everything slot-level is folded into the
// reconciled observations instead.
var (
	ErrInvalidDevice = errors.New("invalid device id")
	ErrSinkFailure   = errors.New("persist failed")
	ErrNoAnalyzer    = errors.New("no analysis model configured")
)

// Sink is the persistence surface the pipeline writes through.
type Sink interface {
	UpsertDayPrompt(ctx context.Context, deviceID uuid.UUID, date, promptText string, processed int, gaps []string, generatedAt time.Time) error
	UpsertBlockPrompt(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot, promptText string, generatedAt time.Time) error
	UpdateBlockAnalysis(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot, summary, behavior string, vibeScore int, updatedAt time.Time) error
	UpsertDaySummary(ctx context.Context, deviceID uuid.UUID, date string, series aggregate.Series, sum aggregate.Summary, insights []string, changes []aggregate.EmotionChange, generatedAt time.Time) error
	ReadBlockScores(ctx context.Context, deviceID uuid.UUID, date string) (aggregate.Series, error)
	MarkProcessed(ctx context.Context, deviceID uuid.UUID, date string, slot timeslot.Slot, transcript, sounds, features bool) error
}

// Publisher announces pipeline results. A publish failure is logged,
// never fatal: events are best-effort.
type Publisher interface {
	Publish(subject string, data any) error
}

type Pipeline struct {
	transcripts  signal.TranscriptSource
	enrichments  signal.EnrichmentSource
	profiles     signal.ProfileSource
	sink         Sink
	publisher    Publisher
	renderer     *prompt.Renderer
	reconciler   *reconcile.Reconciler
	completer    llm.Completer // nil when analysis is not configured
	fetchTimeout time.Duration
	logger       *slog.Logger
}

type Options struct {
	Transcripts  signal.TranscriptSource
	Enrichments  signal.EnrichmentSource
	Profiles     signal.ProfileSource
	Sink         Sink
	Publisher    Publisher
	Completer    llm.Completer
	FetchTimeout time.Duration
	Concurrency  int
	Logger       *slog.Logger
}

func New(opts Options) *Pipeline {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Pipeline{
		transcripts:  opts.Transcripts,
		enrichments:  opts.Enrichments,
		profiles:     opts.Profiles,
		sink:         opts.Sink,
		publisher:    opts.Publisher,
		renderer:     prompt.NewRenderer(),
		reconciler:   reconcile.New(opts.Transcripts, opts.FetchTimeout, opts.Concurrency, opts.Logger),
		completer:    opts.Completer,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger,
	}
}

// DayEnvelope is the result of a day prompt run. On sink failure the
// envelope is still returned alongside ErrSinkFailure so the caller can
// fall back to its own persistence.
type DayEnvelope struct {
	DeviceID    uuid.UUID `json:"device_id"`
	Date        string    `json:"date"`
	Prompt      string    `json:"prompt"`
	Processed   int       `json:"processed_blocks"`
	Gaps        []string  `json:"gaps"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerateDayPrompt runs the full-day pipeline for one (device, date).
func (p *Pipeline) GenerateDayPrompt(ctx context.Context, deviceID, date string) (*DayEnvelope, error) {
	id, err := parseDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if _, err := timeslot.ParseDate(date); err != nil {
		return nil, err
	}

	day, err := p.reconciler.Reconcile(ctx, id, date)
	if err != nil {
		return nil, fmt.Errorf("reconcile day: %w", err)
	}

	env := &DayEnvelope{
		DeviceID:    id,
		Date:        date,
		Prompt:      p.renderer.RenderDay(date, day),
		Processed:   day.Processed(),
		Gaps:        day.Gaps,
		GeneratedAt: time.Now().UTC(),
	}

	if err := p.sink.UpsertDayPrompt(ctx, id, date, env.Prompt, env.Processed, env.Gaps, env.GeneratedAt); err != nil {
		p.logger.Error("day prompt persist failed", "device_id", id, "date", date, "error", err)
		return env, fmt.Errorf("%w: day prompt for %s/%s: %v", ErrSinkFailure, id, date, err)
	}

	p.announce(events.SubjectDayPrompt, events.PromptGenerated{
		DeviceID:    id.String(),
		Date:        date,
		Processed:   env.Processed,
		GeneratedAt: env.GeneratedAt,
	})
	p.logger.Info("day prompt generated", "device_id", id, "date", date, "processed", env.Processed, "gaps", len(env.Gaps))
	return env, nil
}

// BlockEnvelope is the result of a single-block prompt run.
type BlockEnvelope struct {
	DeviceID    uuid.UUID      `json:"device_id"`
	Date        string         `json:"date"`
	TimeBlock   string         `json:"time_block"`
	Prompt      string         `json:"prompt"`
	Kind        reconcile.Kind `json:"-"`
	HasText     bool           `json:"has_transcription"`
	SoundEvents int            `json:"sound_events"`
	Features    int            `json:"feature_seconds"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// GenerateBlockPrompt runs the per-block pipeline. The transcript
// outcome alone decides the block's classification; enrichments only
// thicken the prompt and their fetch errors degrade to absence.
func (p *Pipeline) GenerateBlockPrompt(ctx context.Context, deviceID, date, timeBlock string) (*BlockEnvelope, error) {
	id, err := parseDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if _, err := timeslot.ParseDate(date); err != nil {
		return nil, err
	}
	slot, err := timeslot.FromLabel(timeBlock)
	if err != nil {
		return nil, err
	}

	fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	obs := reconcile.ClassifyOne(slot, p.transcripts.FetchSlot(fctx, id, date, slot))

	c := prompt.BlockContext{Date: date, Slot: slot, Observation: obs}
	if p.enrichments != nil {
		if ev, err := p.enrichments.FetchSoundEvents(ctx, id, date, slot); err != nil {
			p.logger.Warn("sound events unavailable", "device_id", id, "block", slot, "error", err)
		} else {
			c.SoundEvents = ev
		}
		if feats, err := p.enrichments.FetchVoiceFeatures(ctx, id, date, slot); err != nil {
			p.logger.Warn("voice features unavailable", "device_id", id, "block", slot, "error", err)
		} else {
			c.Features = feats
		}
	}
	if p.profiles != nil {
		if prof, err := p.profiles.FetchProfile(ctx, id); err != nil {
			p.logger.Warn("subject profile unavailable", "device_id", id, "error", err)
		} else {
			c.Profile = prof
		}
	}

	env := &BlockEnvelope{
		DeviceID:    id,
		Date:        date,
		TimeBlock:   slot.Label(),
		Prompt:      p.renderer.RenderBlock(c),
		Kind:        obs.Kind,
		HasText:     obs.Kind == reconcile.TextPresent,
		SoundEvents: len(c.SoundEvents),
		Features:    len(c.Features),
		GeneratedAt: time.Now().UTC(),
	}

	if err := p.sink.UpsertBlockPrompt(ctx, id, date, slot, env.Prompt, env.GeneratedAt); err != nil {
		p.logger.Error("block prompt persist failed", "device_id", id, "date", date, "block", slot, "error", err)
		return env, fmt.Errorf("%w: block prompt for %s/%s/%s: %v", ErrSinkFailure, id, date, slot, err)
	}

	// Status only moves forward for rows whose data actually got used.
	hasRecording := obs.Kind != reconcile.Missing
	if err := p.sink.MarkProcessed(ctx, id, date, slot, hasRecording, len(c.SoundEvents) > 0, len(c.Features) > 0); err != nil {
		p.logger.Warn("status update failed", "device_id", id, "block", slot, "error", err)
	}

	p.announce(events.SubjectBlockPrompt, events.PromptGenerated{
		DeviceID:    id.String(),
		Date:        date,
		TimeBlock:   slot.Label(),
		GeneratedAt: env.GeneratedAt,
	})
	return env, nil
}

// SummaryEnvelope is the result of a day aggregation run.
type SummaryEnvelope struct {
	DeviceID    uuid.UUID         `json:"device_id"`
	Date        string            `json:"date"`
	Summary     aggregate.Summary `json:"summary"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// AggregateDay merges analyzed block scores into the day summary.
// Blocks with a recording but no analyzed score count as neutral;
// absent blocks stay unmeasured.
func (p *Pipeline) AggregateDay(ctx context.Context, deviceID, date string) (*SummaryEnvelope, error) {
	id, err := parseDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if _, err := timeslot.ParseDate(date); err != nil {
		return nil, err
	}

	series, err := p.sink.ReadBlockScores(ctx, id, date)
	if err != nil {
		return nil, fmt.Errorf("read block scores: %w", err)
	}

	day, err := p.reconciler.Reconcile(ctx, id, date)
	if err != nil {
		return nil, fmt.Errorf("reconcile day: %w", err)
	}
	for i, obs := range day.Observations {
		series[i] = aggregate.ScoreFor(obs, series[i])
	}

	env := &SummaryEnvelope{
		DeviceID:    id,
		Date:        date,
		Summary:     aggregate.Summarize(series),
		GeneratedAt: time.Now().UTC(),
	}

	if err := p.sink.UpsertDaySummary(ctx, id, date, series, env.Summary, nil, nil, env.GeneratedAt); err != nil {
		p.logger.Error("day summary persist failed", "device_id", id, "date", date, "error", err)
		return env, fmt.Errorf("%w: day summary for %s/%s: %v", ErrSinkFailure, id, date, err)
	}

	p.announce(events.SubjectDaySummary, events.PromptGenerated{
		DeviceID:    id.String(),
		Date:        date,
		GeneratedAt: env.GeneratedAt,
	})
	p.logger.Info("day aggregated", "device_id", id, "date", date, "average", env.Summary.Average, "measured", env.Summary.Measured)
	return env, nil
}

// AnalyzeBlock generates a block prompt, runs it through the analysis
// model and records the parsed result.
func (p *Pipeline) AnalyzeBlock(ctx context.Context, deviceID, date, timeBlock string) (*aggregate.BlockResult, error) {
	if p.completer == nil {
		return nil, ErrNoAnalyzer
	}
	env, err := p.GenerateBlockPrompt(ctx, deviceID, date, timeBlock)
	if err != nil {
		return nil, err
	}

	raw, err := p.completer.Complete(ctx, env.Prompt, 1024)
	if err != nil {
		return nil, fmt.Errorf("analyze block %s/%s/%s: %w", env.DeviceID, date, env.TimeBlock, err)
	}
	res, err := aggregate.ParseBlockResult([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("block %s/%s/%s: %w", env.DeviceID, date, env.TimeBlock, err)
	}

	slot, _ := timeslot.FromLabel(env.TimeBlock)
	if err := p.sink.UpdateBlockAnalysis(ctx, env.DeviceID, date, slot, res.Summary, res.Behavior, res.VibeScore, time.Now().UTC()); err != nil {
		return res, fmt.Errorf("%w: block analysis for %s/%s/%s: %v", ErrSinkFailure, env.DeviceID, date, slot, err)
	}
	return res, nil
}

func (p *Pipeline) announce(subject string, data any) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(subject, data); err != nil {
		p.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}

func parseDevice(deviceID string) (uuid.UUID, error) {
	id, err := uuid.Parse(deviceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidDevice, deviceID)
	}
	return id, nil
}
