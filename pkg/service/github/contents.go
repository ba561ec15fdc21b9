package github

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	gh "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// fetchConcurrency bounds concurrent per-document fetches within a listing
const fetchConcurrency = 8

const placeholderFile = ".gitkeep"

// EnsureDomainFolders idempotently creates a placeholder object in every
// domain folder that does not yet exist, so listings never fail on an
// absent folder.
func (c *client) EnsureDomainFolders(ctx context.Context) error {
	for _, domain := range types.AllDomains() {
		_, _, _, err := c.rest.Repositories.GetContents(ctx, c.owner, c.repo, domain.String(), nil)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return wrapAPIError(err, "failed to probe domain folder", domain.String())
		}

		path := domain.String() + "/" + placeholderFile
		opts := &gh.RepositoryContentFileOptions{
			Message: gh.Ptr("init " + domain.String()),
			Content: []byte{},
		}
		if _, _, err := c.rest.Repositories.CreateFile(ctx, c.owner, c.repo, path, opts); err != nil {
			werr := wrapAPIError(err, "failed to init domain folder", path)
			// A concurrent init may have won the race
			if errors.Is(werr, types.ErrConflict) {
				continue
			}
			return werr
		}
	}

	return nil
}

// ListDocuments lists every domain folder and fetches each recognized
// document. Fetch failures for an individual document are logged and
// dropped so one corrupt or unreachable document cannot block loading the
// rest; only listing-level failures abort.
func (c *client) ListDocuments(ctx context.Context) ([]*interfaces.Document, error) {
	var mu sync.Mutex
	var docs []*interfaces.Document

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(fetchConcurrency)

	for _, domain := range types.AllDomains() {
		_, dir, _, err := c.rest.Repositories.GetContents(ctx, c.owner, c.repo, domain.String(), nil)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, wrapAPIError(err, "failed to list domain folder", domain.String())
		}

		for _, item := range dir {
			if item.GetType() != "file" || !strings.HasSuffix(item.GetName(), model.DocumentExt) {
				continue
			}

			domain := domain
			name := item.GetName()
			eg.Go(func() error {
				content, token, err := c.fetchDocument(egCtx, domain, name)
				if err != nil {
					logging.From(egCtx).Warn("skipping unreadable document",
						"domain", domain, "file", name, "error", err)
					return nil
				}

				mu.Lock()
				docs = append(docs, &interfaces.Document{
					Filename: name,
					Content:  content,
					Domain:   domain,
					Token:    token,
				})
				mu.Unlock()
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}

// fetchDocument retrieves one document's text and version token. Content
// arrives base64-encoded with line wraps that must be stripped before
// decoding.
func (c *client) fetchDocument(ctx context.Context, domain types.Domain, filename string) (string, string, error) {
	path := domain.String() + "/" + filename

	file, _, _, err := c.rest.Repositories.GetContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		return "", "", wrapAPIError(err, "failed to fetch document", path)
	}
	if file == nil {
		return "", "", goerr.Wrap(types.ErrTransport, "path is not a file", goerr.V("path", path))
	}

	content := ""
	if file.Content != nil {
		content = *file.Content
	}

	if file.GetEncoding() == "base64" {
		wrapped := strings.NewReplacer("\n", "", "\r", "").Replace(content)
		decoded, err := base64.StdEncoding.DecodeString(wrapped)
		if err != nil {
			return "", "", goerr.Wrap(types.ErrTransport, "failed to decode document content",
				goerr.V("path", path), goerr.V("cause", err.Error()))
		}
		content = string(decoded)
	}

	return content, file.GetSHA(), nil
}

// WriteDocument creates or updates a document and returns the new version
// token. When no token is supplied the client first probes for the current
// one; skipping the probe would turn the write into a blind overwrite on
// an existing path.
func (c *client) WriteDocument(ctx context.Context, domain types.Domain, filename, content, token string) (string, error) {
	path := domain.String() + "/" + filename

	if token == "" {
		sha, err := c.probeSHA(ctx, path)
		if err != nil {
			return "", err
		}
		token = sha
	}

	opts := &gh.RepositoryContentFileOptions{Content: []byte(content)}

	var resp *gh.RepositoryContentResponse
	var err error
	if token != "" {
		opts.Message = gh.Ptr("update " + filename)
		opts.SHA = gh.Ptr(token)
		resp, _, err = c.rest.Repositories.UpdateFile(ctx, c.owner, c.repo, path, opts)
	} else {
		opts.Message = gh.Ptr("add " + filename)
		resp, _, err = c.rest.Repositories.CreateFile(ctx, c.owner, c.repo, path, opts)
	}
	if err != nil {
		return "", wrapAPIError(err, "failed to write document", path)
	}

	return resp.Content.GetSHA(), nil
}

// DeleteDocument removes a document. Deleting an absent document is a
// no-op, not an error.
func (c *client) DeleteDocument(ctx context.Context, domain types.Domain, filename, token string) error {
	path := domain.String() + "/" + filename

	if token == "" {
		sha, err := c.probeSHA(ctx, path)
		if err != nil {
			return err
		}
		if sha == "" {
			return nil
		}
		token = sha
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr("remove " + filename),
		SHA:     gh.Ptr(token),
	}
	if _, _, err := c.rest.Repositories.DeleteFile(ctx, c.owner, c.repo, path, opts); err != nil {
		if isNotFound(err) {
			return nil
		}
		return wrapAPIError(err, "failed to delete document", path)
	}

	return nil
}

// probeSHA returns the current version token of a path, or empty when the
// path does not exist.
func (c *client) probeSHA(ctx context.Context, path string) (string, error) {
	file, _, _, err := c.rest.Repositories.GetContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", wrapAPIError(err, "failed to probe document", path)
	}
	if file == nil {
		return "", goerr.Wrap(types.ErrConflict, "path exists but is not a file", goerr.V("path", path))
	}
	return file.GetSHA(), nil
}
