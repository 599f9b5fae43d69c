package game

import (
	"context"
	"fmt"
	"strings"

	"adventure-server/internal/domain"
	"adventure-server/internal/generation"

	"go.uber.org/zap"
)

// Search runs a grounded web search and stores the result in the session's search panel.
// It blocks until the provider answers. A newer search or a restart supersedes a search in
// flight; the superseded result is dropped and the current panel state is returned.
//
// Provider failures are reported through SearchState.Error, not the returned error, which is
// only set for a blank query.
func (c *Controller) Search(ctx context.Context, query string) (domain.SearchState, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return c.Snapshot().Search, domain.ErrEmptyQuery
	}

	c.mu.Lock()
	c.search++
	gen := c.search
	c.session.Search = domain.SearchState{Query: q, Searching: true}
	c.mu.Unlock()
	c.publishSearch()

	res, err := c.provider.GroundedSearch(context.WithoutCancel(ctx), q)

	state := domain.SearchState{Query: q}
	if err != nil {
		c.logger.Warn("Grounded search failed", zap.String("query", q), zap.Error(err))
		state.Error = fmt.Sprintf(searchFailedFormat, err)
	} else {
		state.Text = res.Text
		state.Citations = res.Citations
	}

	c.mu.Lock()
	if gen != c.search {
		current := c.session.Search
		c.mu.Unlock()
		staleResultsTotal.WithLabelValues(generation.OpSearch).Inc()
		c.logger.Debug("Discarding stale search result", zap.String("query", q))
		return current, nil
	}
	c.session.Search = state
	c.mu.Unlock()

	c.publishSearch()
	return state, nil
}

func (c *Controller) publishSearch() {
	c.notifier.Broadcast(EventSearchUpdated, TopicSession, c.Snapshot().Search)
}
