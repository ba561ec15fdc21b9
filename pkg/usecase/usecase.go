package usecase

import (
	"time"

	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/service/classifier"
	"github.com/notelab/braindump/pkg/service/digest"
	"github.com/notelab/braindump/pkg/service/slack"
)

// UseCases wires the entry cache and its collaborators for one session
type UseCases struct {
	store      interfaces.RemoteStore
	classifier classifier.Service
	digest     digest.Service
	notifier   slack.Service
	now        func() time.Time

	Entries  *EntryCache
	Coaching *Coaching
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithClassifier sets the classification service used by Capture
func WithClassifier(svc classifier.Service) Option {
	return func(uc *UseCases) {
		uc.classifier = svc
	}
}

// WithDigest sets the digest builder used by coaching delivery
func WithDigest(svc digest.Service) Option {
	return func(uc *UseCases) {
		uc.digest = svc
	}
}

// WithNotifier sets the messenger used for digest delivery
func WithNotifier(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the use case layer around a remote store
func New(store interfaces.RemoteStore, opts ...Option) *UseCases {
	uc := &UseCases{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.classifier == nil {
		uc.classifier = classifier.New()
	}

	uc.Entries = newEntryCache(store, uc.classifier, uc.now)
	uc.Coaching = newCoaching(uc.Entries, uc.digest, uc.notifier, uc.now)

	return uc
}

// Store exposes the underlying remote store for read-only consumers such
// as the status command and the history endpoint.
func (uc *UseCases) Store() interfaces.RemoteStore {
	return uc.store
}

// Classifier exposes the classification service for the classify and hint
// endpoints, which operate on raw text without touching the cache.
func (uc *UseCases) Classifier() classifier.Service {
	return uc.classifier
}
