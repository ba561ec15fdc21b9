package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/domain/types"
)

type docKey struct {
	domain   types.Domain
	filename string
}

type storedDoc struct {
	content string
	token   string
}

// Store is an in-memory RemoteStore for development and tests. It applies
// the same conditional-write rules as the real provider: a write carrying
// a stale token is rejected, a write without a token adopts the current
// one, and deleting an absent document is a no-op.
type Store struct {
	mu      sync.RWMutex
	docs    map[docKey]*storedDoc
	commits []*interfaces.Commit
	rev     int
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{docs: make(map[docKey]*storedDoc)}
}

func (s *Store) TestConnection(ctx context.Context) (*interfaces.ConnectionStatus, error) {
	return &interfaces.ConnectionStatus{OK: true, RepoName: "memory/dev", Private: true}, nil
}

func (s *Store) EnsureDomainFolders(ctx context.Context) error {
	return nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]*interfaces.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*interfaces.Document, 0, len(s.docs))
	for key, doc := range s.docs {
		docs = append(docs, &interfaces.Document{
			Filename: key.filename,
			Content:  doc.content,
			Domain:   key.domain,
			Token:    doc.token,
		})
	}
	return docs, nil
}

func (s *Store) WriteDocument(ctx context.Context, domain types.Domain, filename, content, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := docKey{domain: domain, filename: filename}
	existing := s.docs[key]

	if existing != nil && token != "" && token != existing.token {
		return "", goerr.Wrap(types.ErrConflict, "stale version token",
			goerr.V("path", domain.String()+"/"+filename),
			goerr.V("expected", existing.token), goerr.V("got", token))
	}

	s.rev++
	doc := &storedDoc{content: content, token: fmt.Sprintf("rev-%d", s.rev)}
	s.docs[key] = doc

	action := "add"
	if existing != nil {
		action = "update"
	}
	s.commits = append(s.commits, &interfaces.Commit{
		Message:     action + " " + filename,
		Author:      "memory",
		CommittedAt: time.Now().UTC(),
	})

	return doc.token, nil
}

func (s *Store) DeleteDocument(ctx context.Context, domain types.Domain, filename, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := docKey{domain: domain, filename: filename}
	existing := s.docs[key]
	if existing == nil {
		return nil
	}

	if token != "" && token != existing.token {
		return goerr.Wrap(types.ErrConflict, "stale version token",
			goerr.V("path", domain.String()+"/"+filename))
	}

	delete(s.docs, key)
	s.commits = append(s.commits, &interfaces.Commit{
		Message:     "remove " + filename,
		Author:      "memory",
		CommittedAt: time.Now().UTC(),
	})
	return nil
}

func (s *Store) RecentCommits(ctx context.Context, limit int) ([]*interfaces.Commit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	commits := make([]*interfaces.Commit, 0, limit)
	for i := len(s.commits) - 1; i >= 0 && len(commits) < limit; i-- {
		commits = append(commits, s.commits[i])
	}
	return commits, nil
}

// Seed stores a document directly, bypassing version checks. Test helper.
func (s *Store) Seed(domain types.Domain, filename, content, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docKey{domain: domain, filename: filename}] = &storedDoc{content: content, token: token}
}

// Token returns the current version token for a document, or empty
func (s *Store) Token(domain types.Domain, filename string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc := s.docs[docKey{domain: domain, filename: filename}]; doc != nil {
		return doc.token
	}
	return ""
}
