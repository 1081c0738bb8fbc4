// Package events is the NATS plumbing: prompt-generation announcements
// out, transcript-stored triggers in.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects moodline publishes and subscribes on.
const (
	SubjectTranscriptStored = "signals.transcript.stored"
	SubjectDayPrompt        = "signals.prompt.day.generated"
	SubjectBlockPrompt      = "signals.prompt.block.generated"
	SubjectDaySummary       = "signals.summary.day.generated"
)

// TranscriptStored is the inbound trigger: a recorder finished storing
// one block's transcript.
type TranscriptStored struct {
	DeviceID  string `json:"device_id"`
	Date      string `json:"date"`
	TimeBlock string `json:"time_block"`
}

// PromptGenerated announces a freshly persisted prompt.
type PromptGenerated struct {
	DeviceID    string    `json:"device_id"`
	Date        string    `json:"date"`
	TimeBlock   string    `json:"time_block,omitempty"`
	Processed   int       `json:"processed_blocks,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
