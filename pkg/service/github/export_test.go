package github

import (
	gh "github.com/google/go-github/v75/github"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/shurcooL/githubv4"
)

// NewWithClients builds a store around preconfigured API clients for tests
func NewWithClients(rest *gh.Client, gql *githubv4.Client, owner, repo string) interfaces.RemoteStore {
	return &client{rest: rest, gql: gql, owner: owner, repo: repo}
}
