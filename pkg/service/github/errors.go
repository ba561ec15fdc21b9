package github

import (
	"errors"
	"net/http"

	gh "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/types"
)

// wrapAPIError classifies a go-github error into the failure taxonomy,
// keeping the provider's status and message as structured context. GitHub
// reports a stale SHA as 409 and a missing SHA on an existing path as 422;
// both mean the caller's version token view is out of date.
func wrapAPIError(err error, msg, path string) error {
	values := []goerr.Option{
		goerr.V("path", path),
		goerr.V("cause", err.Error()),
	}

	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		values = append(values,
			goerr.V("status", er.Response.StatusCode),
			goerr.V("message", er.Message),
		)

		switch er.Response.StatusCode {
		case http.StatusNotFound:
			return goerr.Wrap(types.ErrNotFound, msg, values...)
		case http.StatusUnauthorized, http.StatusForbidden:
			return goerr.Wrap(types.ErrUnauthorized, msg, values...)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return goerr.Wrap(types.ErrConflict, msg, values...)
		}
	}

	return goerr.Wrap(types.ErrTransport, msg, values...)
}

func isNotFound(err error) bool {
	var er *gh.ErrorResponse
	return errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound
}
