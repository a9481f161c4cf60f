package gh

import (
	"context"
	"errors"

	"github.com/h0rv/ghs/internal/domain"
	"github.com/machinebox/graphql"
	"github.com/sirupsen/logrus"
)

const searchRepositoriesQuery = `
	query($query: String!, $first: Int!) {
		search(query: $query, type: REPOSITORY, first: $first) {
			repositoryCount
			nodes {
				... on Repository {
					name
					url
				}
			}
		}
	}
`

// searchRepositoriesResponse mirrors the GraphQL response. Every level is nullable.
type searchRepositoriesResponse struct {
	Search *struct {
		RepositoryCount int `json:"repositoryCount"`
		Nodes           []struct {
			Name *string `json:"name"`
			URL  *string `json:"url"`
		} `json:"nodes"`
	} `json:"search"`
}

// SearchRepositories searches GitHub repositories matching query.
// It never returns an error: transport, HTTP, GraphQL and breaker failures are reported as
// an unsuccessful response carrying the failure message. A null search field yields a
// successful response without a body.
func (c *Client) SearchRepositories(ctx context.Context, query string) domain.SearchResponse {
	req := graphql.NewRequest(searchRepositoriesQuery)
	req.Var("query", query)
	req.Var("first", c.pageSize)

	log := c.log.WithField("query", query)

	var resp searchRepositoriesResponse
	if err := c.makeRequest(ctx, req, &resp); err != nil {
		log.WithError(err).Warn("repository search failed")
		return domain.SearchResponse{Successful: false, Message: failureMessage(err)}
	}

	if resp.Search == nil {
		log.Debug("repository search returned no body")
		return domain.SearchResponse{Successful: true, Message: "OK"}
	}

	body := &domain.SearchBody{TotalCount: resp.Search.RepositoryCount}
	if resp.Search.Nodes != nil {
		body.Items = make([]domain.RawRepo, 0, len(resp.Search.Nodes))
		for _, node := range resp.Search.Nodes {
			body.Items = append(body.Items, domain.RawRepo{
				Name:    node.Name,
				HTMLURL: node.URL,
			})
		}
	}

	log.WithFields(logrus.Fields{
		"total": body.TotalCount,
		"items": len(body.Items),
	}).Debug("repository search succeeded")

	return domain.SearchResponse{Successful: true, Message: "OK", Body: body}
}

// failureMessage prefers the HTTP status over the *url.Error wrapping added by net/http.
func failureMessage(err error) string {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Status
	}
	return err.Error()
}
