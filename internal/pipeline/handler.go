package pipeline

import (
	"context"
	"encoding/json"

	"github.com/soundscope/moodline/internal/events"
)

// HandleTranscriptStored is the NATS handler for transcript-stored
// events: a recorder finished one block, so its prompt (and analysis,
// when a model is configured) can be produced immediately.
func (p *Pipeline) HandleTranscriptStored(subject string, data []byte) {
	var evt events.TranscriptStored
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse transcript event", "subject", subject, "error", err)
		return
	}

	ctx := context.Background()
	p.logger.Info("processing stored transcript",
		"device_id", evt.DeviceID,
		"date", evt.Date,
		"block", evt.TimeBlock,
	)

	if p.completer != nil {
		if _, err := p.AnalyzeBlock(ctx, evt.DeviceID, evt.Date, evt.TimeBlock); err != nil {
			p.logger.Error("block analysis failed", "device_id", evt.DeviceID, "date", evt.Date, "block", evt.TimeBlock, "error", err)
		}
		return
	}
	if _, err := p.GenerateBlockPrompt(ctx, evt.DeviceID, evt.Date, evt.TimeBlock); err != nil {
		p.logger.Error("block prompt failed", "device_id", evt.DeviceID, "date", evt.Date, "block", evt.TimeBlock, "error", err)
	}
}
