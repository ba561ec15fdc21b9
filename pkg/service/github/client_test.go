package github_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/service/github"
)

func newTestStore(t *testing.T, h http.Handler) interfaces.RemoteStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rest := gh.NewClient(nil)
	u, err := url.Parse(srv.URL + "/")
	gt.NoError(t, err).Required()
	rest.BaseURL = u

	return github.NewWithClients(rest, nil, "acme", "brain")
}

// wrappedBase64 encodes content the way the contents API transports it,
// with line-wrap artifacts inside the base64 text.
func wrappedBase64(content string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(content))
	if len(enc) > 8 {
		enc = enc[:8] + "\n" + enc[8:]
	}
	return enc
}

func fileJSON(name, path, sha, content string) map[string]any {
	return map[string]any{
		"type":     "file",
		"name":     name,
		"path":     path,
		"sha":      sha,
		"encoding": "base64",
		"content":  wrappedBase64(content),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListDocumentsBestEffort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/brain/contents/daily", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "file", "name": "a.md", "path": "daily/a.md", "sha": "sha-a"},
			{"type": "file", "name": "b.md", "path": "daily/b.md", "sha": "sha-b"},
			{"type": "file", "name": "c.md", "path": "daily/c.md", "sha": "sha-c"},
			{"type": "file", "name": "notes.txt", "path": "daily/notes.txt", "sha": "sha-t"},
			{"type": "dir", "name": "sub", "path": "daily/sub", "sha": "sha-d"},
		})
	})
	mux.HandleFunc("GET /repos/acme/brain/contents/daily/a.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fileJSON("a.md", "daily/a.md", "sha-a", "alpha"))
	})
	mux.HandleFunc("GET /repos/acme/brain/contents/daily/b.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	mux.HandleFunc("GET /repos/acme/brain/contents/daily/c.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fileJSON("c.md", "daily/c.md", "sha-c", "gamma"))
	})
	mux.HandleFunc("GET /repos/acme/brain/contents/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	store := newTestStore(t, mux)
	docs, err := store.ListDocuments(t.Context())
	gt.NoError(t, err).Required()

	// One fetch failure among three documents yields the two good ones
	gt.Value(t, len(docs)).Equal(2)

	byName := map[string]*interfaces.Document{}
	for _, d := range docs {
		byName[d.Filename] = d
	}

	gt.Value(t, byName["a.md"].Content).Equal("alpha")
	gt.Value(t, byName["a.md"].Token).Equal("sha-a")
	gt.Value(t, byName["a.md"].Domain).Equal(types.DomainDaily)
	gt.Value(t, byName["c.md"].Content).Equal("gamma")
}

func TestWriteDocumentProbesForToken(t *testing.T) {
	var putBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/brain/contents/skills/x.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fileJSON("x.md", "skills/x.md", "old-sha", "old"))
	})
	mux.HandleFunc("PUT /repos/acme/brain/contents/skills/x.md", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
		writeJSON(w, http.StatusOK, map[string]any{
			"content": map[string]any{"sha": "new-sha"},
		})
	})

	store := newTestStore(t, mux)
	token, err := store.WriteDocument(t.Context(), types.DomainSkills, "x.md", "updated", "")
	gt.NoError(t, err).Required()

	gt.Value(t, token).Equal("new-sha")
	// The probe discovered the existing SHA, so the PUT is conditional
	gt.Value(t, putBody["sha"]).Equal("old-sha")
	gt.Value(t, putBody["message"]).Equal("update x.md")
}

func TestWriteDocumentCreatesWhenAbsent(t *testing.T) {
	var putBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/brain/contents/daily/y.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	mux.HandleFunc("PUT /repos/acme/brain/contents/daily/y.md", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
		writeJSON(w, http.StatusCreated, map[string]any{
			"content": map[string]any{"sha": "first-sha"},
		})
	})

	store := newTestStore(t, mux)
	token, err := store.WriteDocument(t.Context(), types.DomainDaily, "y.md", "hello", "")
	gt.NoError(t, err).Required()

	gt.Value(t, token).Equal("first-sha")
	gt.Value(t, putBody["message"]).Equal("add y.md")
	_, hasSHA := putBody["sha"]
	gt.Bool(t, hasSHA).False()

	decoded, err := base64.StdEncoding.DecodeString(putBody["content"].(string))
	gt.NoError(t, err)
	gt.Value(t, string(decoded)).Equal("hello")
}

func TestWriteDocumentStaleTokenConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/acme/brain/contents/daily/z.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"message": "z.md does not match the expected SHA",
		})
	})

	store := newTestStore(t, mux)
	_, err := store.WriteDocument(t.Context(), types.DomainDaily, "z.md", "x", "stale-sha")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrConflict)).True()
}

func TestDeleteDocumentAbsentIsNoop(t *testing.T) {
	deleted := false

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/brain/contents/goals/gone.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	mux.HandleFunc("DELETE /repos/acme/brain/contents/goals/gone.md", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	store := newTestStore(t, mux)
	gt.NoError(t, store.DeleteDocument(t.Context(), types.DomainGoals, "gone.md", ""))
	gt.Bool(t, deleted).False()
}

func TestDeleteDocumentWithToken(t *testing.T) {
	var delBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /repos/acme/brain/contents/goals/old.md", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&delBody))
		writeJSON(w, http.StatusOK, map[string]any{"commit": map[string]any{}})
	})

	store := newTestStore(t, mux)
	gt.NoError(t, store.DeleteDocument(t.Context(), types.DomainGoals, "old.md", "sha-1"))
	gt.Value(t, delBody["sha"]).Equal("sha-1")
	gt.Value(t, delBody["message"]).Equal("remove old.md")
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantOK   bool
		wantErr  error
		wantName string
	}{
		{
			name:     "accessible private repo",
			status:   http.StatusOK,
			body:     map[string]any{"full_name": "acme/brain", "private": true},
			wantOK:   true,
			wantName: "acme/brain",
		},
		{
			name:    "missing repo",
			status:  http.StatusNotFound,
			body:    map[string]string{"message": "Not Found"},
			wantErr: types.ErrNotFound,
		},
		{
			name:    "bad token",
			status:  http.StatusUnauthorized,
			body:    map[string]string{"message": "Bad credentials"},
			wantErr: types.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /repos/acme/brain", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			store := newTestStore(t, mux)
			status, err := store.TestConnection(t.Context())

			if tt.wantErr != nil {
				gt.Error(t, err)
				gt.Bool(t, errors.Is(err, tt.wantErr)).True()
				gt.Bool(t, status.OK).False()
				gt.Bool(t, status.Error != "").True()
				return
			}

			gt.NoError(t, err).Required()
			gt.Bool(t, status.OK).True()
			gt.Value(t, status.RepoName).Equal(tt.wantName)
			gt.Bool(t, status.Private).True()
		})
	}
}

func TestEnsureDomainFolders(t *testing.T) {
	created := map[string]bool{}

	mux := http.NewServeMux()
	for _, d := range types.AllDomains() {
		domain := d.String()
		if domain == "daily" {
			mux.HandleFunc("GET /repos/acme/brain/contents/daily", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []map[string]any{})
			})
			continue
		}
		mux.HandleFunc(fmt.Sprintf("GET /repos/acme/brain/contents/%s", domain), func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		})
		mux.HandleFunc(fmt.Sprintf("PUT /repos/acme/brain/contents/%s/.gitkeep", domain), func(w http.ResponseWriter, r *http.Request) {
			created[domain] = true
			writeJSON(w, http.StatusCreated, map[string]any{
				"content": map[string]any{"sha": "keep-sha"},
			})
		})
	}

	store := newTestStore(t, mux)
	gt.NoError(t, store.EnsureDomainFolders(t.Context()))

	// Existing folder untouched, all missing folders initialized
	gt.Bool(t, created["daily"]).False()
	for _, d := range []string{"skills", "goals", "health", "library"} {
		gt.Bool(t, created[d]).True()
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := github.New("", "acme/brain")
	gt.Bool(t, errors.Is(err, types.ErrNotConfigured)).True()

	_, err = github.New("token", "not-a-repo")
	gt.Bool(t, errors.Is(err, types.ErrNotConfigured)).True()
}
