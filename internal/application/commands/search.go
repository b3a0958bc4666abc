package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// SearchResult wraps domain.SearchResult with a relevance score
type SearchResult struct {
	domain.SearchResult
	Score int
}

// SearchCommand searches pages with fuzzy matching. With an index the page
// text is searched too; without one only page paths are matched.
type SearchCommand struct {
	index ports.PageIndex
	tree  *domain.PageTree
	Query string
}

// NewSearchCommand creates a new SearchCommand. index may be nil.
func NewSearchCommand(index ports.PageIndex, tree *domain.PageTree, query string) *SearchCommand {
	return &SearchCommand{
		index: index,
		tree:  tree,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	query := strings.TrimSpace(c.Query)
	if len(query) < 2 {
		return nil, nil
	}

	if c.index == nil {
		return FuzzySort(c.pathCandidates(), query), nil
	}

	results, err := c.index.Search(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	return FuzzySort(results, query), nil
}

func (c *SearchCommand) pathCandidates() []domain.SearchResult {
	if c.tree == nil {
		return nil
	}
	docs := c.tree.Documents()
	out := make([]domain.SearchResult, 0, len(docs))
	for _, d := range docs {
		segments, err := domain.ParentLogicalPath(d.StoragePath)
		if err != nil {
			continue
		}
		title := "Home"
		if len(segments) > 0 {
			title = domain.TitleFromSegment(segments[len(segments)-1])
		}
		out = append(out, domain.SearchResult{
			StoragePath: d.StoragePath,
			Title:       title,
			MatchedText: domain.JoinLogicalPath(segments),
		})
	}
	return out
}

const (
	scoreContains      = 100
	scorePrefix        = 50
	scoreSegmentPrefix = 25

	scoreConsecutive = 10
	scoreFirstChar   = 15
	scoreBoundary    = 10
)

// FuzzyScore rates how well target matches query, 0 meaning no match.
// Substrings beat scattered characters. A substring at the start of target
// ranks first, then one at the start of a word or path segment.
func FuzzyScore(target, query string) int {
	if query == "" {
		return 0
	}
	target, query = strings.ToLower(target), strings.ToLower(query)

	if strings.HasPrefix(target, query) {
		return scoreContains + scorePrefix
	}
	found := false
	for i := 0; ; {
		j := strings.Index(target[i:], query)
		if j < 0 {
			break
		}
		found = true
		if isSeparator(target[i+j-1]) {
			return scoreContains + scoreSegmentPrefix
		}
		i += j + 1
	}
	if found {
		return scoreContains
	}

	return subsequenceScore(target, query)
}

// subsequenceScore matches query characters in order, rewarding runs and
// word starts. It returns 0 unless every character is found.
func subsequenceScore(target, query string) int {
	score, q, prev := 0, 0, -2
	for i := 0; i < len(target) && q < len(query); i++ {
		if target[i] != query[q] {
			continue
		}
		score++
		switch {
		case i == 0:
			score += scoreFirstChar
		case isSeparator(target[i-1]):
			score += scoreBoundary
		}
		if prev == i-1 {
			score += scoreConsecutive
		}
		prev = i
		q++
	}
	if q < len(query) {
		return 0
	}
	return score
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '.', '-', '_', '/':
		return true
	}
	return false
}

// FuzzySort sorts search results by relevance to the query. Ties keep
// storage path order.
func FuzzySort(results []domain.SearchResult, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(results))

	for _, r := range results {
		best := max(
			FuzzyScore(r.StoragePath, query),
			FuzzyScore(r.Title, query),
			FuzzyScore(r.MatchedText, query),
		)

		if best > 0 {
			scored = append(scored, SearchResult{
				SearchResult: r,
				Score:        best,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].StoragePath < scored[j].StoragePath
	})

	return scored
}
