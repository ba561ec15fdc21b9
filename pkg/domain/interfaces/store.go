package interfaces

import (
	"context"
	"time"

	"github.com/notelab/braindump/pkg/domain/types"
)

// Document is one remote document as listed from the store: its raw decoded
// text, the domain folder it was found under, and the provider-assigned
// version token for conditional writes.
type Document struct {
	Filename string
	Content  string
	Domain   types.Domain
	Token    string
}

// ConnectionStatus is the result of a connection probe
type ConnectionStatus struct {
	OK       bool   `json:"ok"`
	RepoName string `json:"repo_name,omitempty"`
	Private  bool   `json:"private,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Commit is one revision in the remote store's history
type Commit struct {
	Message     string    `json:"message"`
	Author      string    `json:"author"`
	CommittedAt time.Time `json:"committed_at"`
}

// RemoteStore persists entry documents in a versioned remote file store,
// one folder per domain, one document per entry. Writes and deletes are
// conditional on a version token; implementations must probe for the
// current token before an unconditional write would otherwise clobber or
// be rejected by the provider.
type RemoteStore interface {
	// TestConnection verifies credential and target repository without
	// mutating state. A reachable-but-broken target is reported via the
	// returned status, not an error; errors wrap the failure taxonomy in
	// types so not-found, unauthorized and transport stay distinguishable.
	TestConnection(ctx context.Context) (*ConnectionStatus, error)

	// EnsureDomainFolders idempotently creates a placeholder in every
	// domain folder so later listings never fail on an absent folder.
	EnsureDomainFolders(ctx context.Context) error

	// ListDocuments lists and fetches all entry documents across every
	// domain folder. Individual fetch failures are dropped from the
	// result; only listing-level failures are returned as errors.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// WriteDocument creates or updates a document and returns its new
	// version token. An empty token triggers a probe for the current one.
	WriteDocument(ctx context.Context, domain types.Domain, filename, content, token string) (string, error)

	// DeleteDocument removes a document. An empty token triggers a probe;
	// deleting an absent document is a no-op.
	DeleteDocument(ctx context.Context, domain types.Domain, filename, token string) error

	// RecentCommits returns the newest revisions of the store's history,
	// newest first.
	RecentCommits(ctx context.Context, limit int) ([]*Commit, error)
}
