package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/service/classifier"
	"github.com/notelab/braindump/pkg/utils/async"
	"github.com/notelab/braindump/pkg/utils/signal"
)

// EntryCache holds the authoritative in-process view of all entries and
// orchestrates the optimistic write path. Mutations are visible to callers
// immediately; the remote write runs as a detached background task whose
// only user-visible synchronization points are the Syncing and SyncErr
// signals. Failed writes never roll the cache back.
type EntryCache struct {
	store      interfaces.RemoteStore
	classifier classifier.Service
	now        func() time.Time

	mu      sync.RWMutex
	entries []*model.Entry
	tokens  map[string]string

	inflight atomic.Int64
	wg       sync.WaitGroup

	// Loading is true while a Load round-trip is in flight
	Loading *signal.Signal[bool]
	// Syncing is true while any background write or delete is in flight
	Syncing *signal.Signal[bool]
	// LastSync holds the completion time of the most recent successful Load
	LastSync *signal.Signal[time.Time]
	// SyncErr holds the most recent failure; latest error wins, a
	// successful Load clears it.
	SyncErr *signal.Signal[error]
}

func newEntryCache(store interfaces.RemoteStore, cls classifier.Service, now func() time.Time) *EntryCache {
	return &EntryCache{
		store:      store,
		classifier: cls,
		now:        now,
		tokens:     make(map[string]string),
		Loading:    signal.New(false),
		Syncing:    signal.New(false),
		LastSync:   signal.New(time.Time{}),
		SyncErr:    signal.New[error](nil),
	}
}

// Load fetches and decodes all remote documents and atomically replaces
// the cache. The folder a document was found under is authoritative over
// any domain field embedded in the document. Concurrent loads race; the
// cache ends up with whichever load completes last.
func (c *EntryCache) Load(ctx context.Context) error {
	c.Loading.Set(true)
	defer c.Loading.Set(false)

	docs, err := c.store.ListDocuments(ctx)
	if err != nil {
		werr := goerr.Wrap(err, "failed to load entries")
		c.SyncErr.Set(werr)
		return werr
	}

	entries := make([]*model.Entry, 0, len(docs))
	tokens := make(map[string]string, len(docs))
	for _, doc := range docs {
		e := model.DecodeDocument(doc.Filename, doc.Content)
		e.Domain = doc.Domain
		entries = append(entries, e)
		tokens[e.ID] = doc.Token
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Created.Equal(entries[j].Created) {
			return entries[i].Created.Before(entries[j].Created)
		}
		return entries[i].ID < entries[j].ID
	})

	c.mu.Lock()
	c.entries = entries
	c.tokens = tokens
	c.mu.Unlock()

	c.SyncErr.Set(nil)
	c.LastSync.Set(c.now())
	return nil
}

// Capture classifies raw text and adds the resulting entry
func (c *EntryCache) Capture(ctx context.Context, text string) (*model.Entry, error) {
	if text == "" {
		return nil, goerr.New("text is required")
	}

	cls := c.classifier.Classify(ctx, text)
	return c.Add(ctx, &model.Entry{
		Category:  cls.Category,
		Domain:    cls.Domain,
		Title:     cls.Title,
		Tags:      cls.Tags,
		Summary:   cls.Summary,
		Trainable: cls.Trainable,
		TrainingQ: cls.TrainingQ,
		Text:      text,
	}), nil
}

// Add synthesizes identity and defaults for the draft, inserts it into the
// cache immediately, and schedules the remote write. The returned entry is
// visible to readers before any I/O happens.
func (c *EntryCache) Add(ctx context.Context, draft *model.Entry) *model.Entry {
	e := draft.Clone()
	e.Category = types.NormalizeCategory(e.Category.String())
	e.Domain = types.NormalizeDomain(e.Domain.String())
	if e.Tags == nil {
		e.Tags = []string{}
	}
	e.Reviews = 0
	e.LastReview = nil

	now := c.now().UTC().Truncate(time.Second)

	c.mu.Lock()
	// Bump the timestamp until the ID is free so two captures within the
	// same second stay unique and sortable.
	for c.indexLocked(model.NewEntryID(now)) >= 0 {
		now = now.Add(time.Second)
	}
	e.ID = model.NewEntryID(now)
	e.Created = now
	c.entries = append(c.entries, e)
	c.mu.Unlock()

	c.syncWrite(ctx, e.Clone())
	return e.Clone()
}

// Update replaces the cached entry by ID immediately and schedules the
// conditional remote write with the cached version token. A domain change
// is persisted as delete-then-recreate: same ID, new folder.
func (c *EntryCache) Update(ctx context.Context, updated *model.Entry) error {
	e := updated.Clone()
	if e.Tags == nil {
		e.Tags = []string{}
	}

	c.mu.Lock()
	idx := c.indexLocked(e.ID)
	if idx < 0 {
		c.mu.Unlock()
		return goerr.Wrap(types.ErrNotFound, "entry not in cache", goerr.V("id", e.ID))
	}

	oldDomain := c.entries[idx].Domain
	c.entries[idx] = e

	moved := oldDomain != e.Domain
	var oldToken string
	if moved {
		// The token belongs to the old path; the write at the new path
		// starts from scratch.
		oldToken = c.tokens[e.ID]
		delete(c.tokens, e.ID)
	}
	c.mu.Unlock()

	if moved {
		c.syncMove(ctx, e.Clone(), oldDomain, oldToken)
	} else {
		c.syncWrite(ctx, e.Clone())
	}
	return nil
}

// Remove deletes the entry from the cache immediately and schedules the
// conditional remote delete.
func (c *EntryCache) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return goerr.Wrap(types.ErrNotFound, "entry not in cache", goerr.V("id", id))
	}

	e := c.entries[idx]
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	token := c.tokens[id]
	delete(c.tokens, id)
	c.mu.Unlock()

	domain, filename := e.Domain, e.Filename()
	c.beginSync()
	c.wg.Add(1)
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer c.wg.Done()
		defer c.endSync()

		if err := c.store.DeleteDocument(ctx, domain, filename, token); err != nil {
			c.SyncErr.Set(err)
			return err
		}
		return nil
	})
	return nil
}

// RecordReview stamps the review time after a recall attempt and, when
// the entry was remembered, increments the review counter. Persists
// through the regular update path.
func (c *EntryCache) RecordReview(ctx context.Context, id string, remembered bool) (*model.Entry, error) {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return nil, goerr.Wrap(types.ErrNotFound, "entry not in cache", goerr.V("id", id))
	}

	e := c.entries[idx].Clone()
	if remembered {
		e.Reviews++
	}
	now := c.now().UTC().Truncate(time.Second)
	e.LastReview = &now
	c.entries[idx] = e
	c.mu.Unlock()

	c.syncWrite(ctx, e.Clone())
	return e.Clone(), nil
}

// Entries returns a snapshot of all cached entries in creation order
func (c *EntryCache) Entries() []*model.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Clone()
	}
	return out
}

// Get returns the cached entry with the given ID
func (c *EntryCache) Get(id string) (*model.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexLocked(id); idx >= 0 {
		return c.entries[idx].Clone(), true
	}
	return nil, false
}

// Stats recomputes the derived aggregates from the current cache contents
func (c *EntryCache) Stats() *model.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.ComputeStats(c.entries)
}

// TrainableEntries returns the training-eligible subset: trainable entries
// that carry a training question.
func (c *EntryCache) TrainableEntries() []*model.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*model.Entry
	for _, e := range c.entries {
		if e.IsTrainable() {
			out = append(out, e.Clone())
		}
	}
	return out
}

// EntriesByDomain partitions the full entry list by domain. Every fixed
// domain is present as a key, empty domains included.
func (c *EntryCache) EntriesByDomain() map[types.Domain][]*model.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[types.Domain][]*model.Entry, len(types.AllDomains()))
	for _, d := range types.AllDomains() {
		out[d] = []*model.Entry{}
	}
	for _, e := range c.entries {
		out[e.Domain] = append(out[e.Domain], e.Clone())
	}
	return out
}

// Wait blocks until all in-flight background writes complete. Used before
// process exit and in tests; the interactive paths never call it.
func (c *EntryCache) Wait() {
	c.wg.Wait()
}

func (c *EntryCache) indexLocked(id string) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// syncWrite encodes and writes one entry in the background, using the
// version token cached for its ID at write time. An empty token makes the
// store probe for the current one.
func (c *EntryCache) syncWrite(ctx context.Context, e *model.Entry) {
	c.beginSync()
	c.wg.Add(1)
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer c.wg.Done()
		defer c.endSync()

		c.mu.RLock()
		token := c.tokens[e.ID]
		c.mu.RUnlock()

		newToken, err := c.store.WriteDocument(ctx, e.Domain, e.Filename(), model.EncodeDocument(e), token)
		if err != nil {
			c.SyncErr.Set(err)
			return err
		}

		c.mu.Lock()
		c.tokens[e.ID] = newToken
		c.mu.Unlock()
		return nil
	})
}

// syncMove persists a domain change: delete at the old path, recreate at
// the new one. Both steps are conditional; a failed delete aborts so the
// old document is never orphaned silently.
func (c *EntryCache) syncMove(ctx context.Context, e *model.Entry, oldDomain types.Domain, oldToken string) {
	c.beginSync()
	c.wg.Add(1)
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer c.wg.Done()
		defer c.endSync()

		if err := c.store.DeleteDocument(ctx, oldDomain, e.Filename(), oldToken); err != nil {
			c.SyncErr.Set(err)
			return err
		}

		newToken, err := c.store.WriteDocument(ctx, e.Domain, e.Filename(), model.EncodeDocument(e), "")
		if err != nil {
			c.SyncErr.Set(err)
			return err
		}

		c.mu.Lock()
		c.tokens[e.ID] = newToken
		c.mu.Unlock()
		return nil
	})
}

func (c *EntryCache) beginSync() {
	if c.inflight.Add(1) == 1 {
		c.Syncing.Set(true)
	}
}

func (c *EntryCache) endSync() {
	if c.inflight.Add(-1) == 0 {
		c.Syncing.Set(false)
	}
}
