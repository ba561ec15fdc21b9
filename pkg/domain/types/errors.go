package types

import "github.com/m-mizutani/goerr/v2"

// Failure taxonomy for the remote store and its orchestration. Callers are
// expected to classify with errors.Is against these sentinels.
var (
	// ErrNotConfigured means credential or repository target is missing.
	// Operations must fail fast without attempting a network call.
	ErrNotConfigured = goerr.New("remote store is not configured")

	// ErrNotFound means the target repository or document is absent
	ErrNotFound = goerr.New("remote target not found")

	// ErrUnauthorized means the credential was rejected
	ErrUnauthorized = goerr.New("remote credential rejected")

	// ErrConflict means a write carried a stale version token and the
	// remote API rejected it. The caller must refetch before retrying.
	ErrConflict = goerr.New("version token conflict")

	// ErrTransport covers network failures and unclassified non-success
	// responses from the remote API.
	ErrTransport = goerr.New("remote transport failure")
)
