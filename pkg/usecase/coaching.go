package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/service/digest"
	"github.com/notelab/braindump/pkg/service/slack"
	"github.com/notelab/braindump/pkg/utils/logging"
)

// Registration subscribes a channel to periodic learning digests
type Registration struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Cadence   string    `json:"cadence"`
	CreatedAt time.Time `json:"created_at"`
}

// Coaching manages digest registrations and delivery. Registrations live
// in process memory only; they do not survive a restart.
type Coaching struct {
	mu       sync.RWMutex
	regs     map[string]*Registration
	entries  *EntryCache
	digest   digest.Service
	notifier slack.Service
	now      func() time.Time
}

func newCoaching(entries *EntryCache, dg digest.Service, notifier slack.Service, now func() time.Time) *Coaching {
	return &Coaching{
		regs:     make(map[string]*Registration),
		entries:  entries,
		digest:   dg,
		notifier: notifier,
		now:      now,
	}
}

// Register subscribes a channel for digest delivery
func (c *Coaching) Register(channel, cadence string) (*Registration, error) {
	if channel == "" {
		return nil, goerr.New("channel is required")
	}
	if cadence == "" {
		cadence = "daily"
	}

	reg := &Registration{
		ID:        uuid.NewString(),
		Channel:   channel,
		Cadence:   cadence,
		CreatedAt: c.now().UTC(),
	}

	c.mu.Lock()
	c.regs[reg.ID] = reg
	c.mu.Unlock()

	return reg, nil
}

// Unregister removes a registration by ID
func (c *Coaching) Unregister(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.regs[id]; !ok {
		return goerr.Wrap(types.ErrNotFound, "registration not found", goerr.V("id", id))
	}
	delete(c.regs, id)
	return nil
}

// Registrations returns all current registrations
func (c *Coaching) Registrations() []*Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Registration, 0, len(c.regs))
	for _, reg := range c.regs {
		out = append(out, reg)
	}
	return out
}

// SendDigest builds one digest from the current cache contents and posts
// it to every registered channel. Per-channel failures are logged and do
// not stop delivery to the rest.
func (c *Coaching) SendDigest(ctx context.Context) (string, error) {
	if c.digest == nil {
		return "", goerr.Wrap(types.ErrNotConfigured, "digest building requires LLM configuration")
	}

	text, err := c.digest.Build(ctx, c.entries.Entries())
	if err != nil {
		return "", goerr.Wrap(err, "failed to build digest")
	}

	c.mu.RLock()
	channels := make([]string, 0, len(c.regs))
	for _, reg := range c.regs {
		channels = append(channels, reg.Channel)
	}
	c.mu.RUnlock()

	if c.notifier == nil {
		if len(channels) > 0 {
			logging.From(ctx).Warn("digest registrations present but Slack is not configured")
		}
		return text, nil
	}

	for _, ch := range channels {
		if err := c.notifier.Post(ctx, ch, text); err != nil {
			logging.From(ctx).Warn("failed to deliver digest", "channel", ch, "error", err)
		}
	}

	return text, nil
}
