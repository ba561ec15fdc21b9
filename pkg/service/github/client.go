package github

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// client implements interfaces.RemoteStore on top of the GitHub contents
// API. Version tokens are blob SHAs; every conditional write and delete
// passes the token as the expected SHA.
type client struct {
	rest  *gh.Client
	gql   *githubv4.Client
	owner string
	repo  string
}

// New creates a RemoteStore for the given "owner/name" repository using a
// personal access token.
func New(token, repo string) (interfaces.RemoteStore, error) {
	if token == "" {
		return nil, goerr.Wrap(types.ErrNotConfigured, "GitHub token is required")
	}

	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(context.Background(),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	return newWithHTTPClient(httpClient, owner, name), nil
}

// NewApp creates a RemoteStore using GitHub App authentication.
// privateKey can be a PEM string or a file path to a PEM file.
func NewApp(appID, installationID int64, privateKey, repo string) (interfaces.RemoteStore, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var key []byte

	// Try reading as file path first
	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		// Treat as PEM string
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return newWithHTTPClient(&http.Client{Transport: tr}, owner, name), nil
}

func newWithHTTPClient(httpClient *http.Client, owner, name string) *client {
	return &client{
		rest:  gh.NewClient(httpClient),
		gql:   githubv4.NewClient(httpClient),
		owner: owner,
		repo:  name,
	}
}

func splitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", goerr.Wrap(types.ErrNotConfigured,
			"repository must be in owner/name form", goerr.V("repo", repo))
	}
	return owner, name, nil
}

// TestConnection verifies credential and target repository without mutating
// state. The returned status mirrors what a settings screen needs; the
// error keeps the not-found / unauthorized / transport distinction.
func (c *client) TestConnection(ctx context.Context) (*interfaces.ConnectionStatus, error) {
	repo, _, err := c.rest.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		werr := wrapAPIError(err, "failed to probe repository", c.owner+"/"+c.repo)
		return &interfaces.ConnectionStatus{OK: false, Error: werr.Error()}, werr
	}

	return &interfaces.ConnectionStatus{
		OK:       true,
		RepoName: repo.GetFullName(),
		Private:  repo.GetPrivate(),
	}, nil
}

// RecentCommits returns the newest revisions of the default branch
func (c *client) RecentCommits(ctx context.Context, limit int) ([]*interfaces.Commit, error) {
	var q struct {
		Repository struct {
			DefaultBranchRef struct {
				Target struct {
					Commit struct {
						History struct {
							Nodes []struct {
								MessageHeadline githubv4.String
								CommittedDate   githubv4.DateTime
								Author          struct {
									Name githubv4.String
								}
							}
						} `graphql:"history(first: $limit)"`
					} `graphql:"... on Commit"`
				}
			}
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": githubv4.String(c.owner),
		"name":  githubv4.String(c.repo),
		"limit": githubv4.Int(limit), // #nosec G115 -- bounded small value
	}

	if err := c.gql.Query(ctx, &q, variables); err != nil {
		return nil, goerr.Wrap(types.ErrTransport, "failed to fetch commit history",
			goerr.V("owner", c.owner), goerr.V("repo", c.repo), goerr.V("cause", err.Error()))
	}

	nodes := q.Repository.DefaultBranchRef.Target.Commit.History.Nodes
	commits := make([]*interfaces.Commit, 0, len(nodes))
	for _, n := range nodes {
		commits = append(commits, &interfaces.Commit{
			Message:     string(n.MessageHeadline),
			Author:      string(n.Author.Name),
			CommittedAt: n.CommittedDate.Time,
		})
	}

	return commits, nil
}
