package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/repository"
)

const defaultSearchLimit = 20

var _ repository.SearchRepository = (*SearchRepository)(nil)

// SearchRepository implements repository.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over the cached projects of scope.
// Every word of query is matched as a prefix.
func (r *SearchRepository) Search(ctx context.Context, scope, query string, limit int) ([]project.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, fmt.Errorf("%w: empty search query", repository.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.payload,
			bm25(projects_fts) AS rank,
			snippet(projects_fts, 1, '[', ']', '...', 12) AS snippet
		FROM projects_fts
		JOIN cached_projects c ON c.rowid = projects_fts.rowid
		WHERE c.scope = ? AND projects_fts MATCH ?
		ORDER BY rank, c.position
		LIMIT ?
	`, scope, match, limit)
	if err != nil {
		if isFTSSyntaxError(err) {
			return nil, fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	defer rows.Close()

	var results []project.SearchResult
	for rows.Next() {
		var result project.SearchResult
		var payload string
		if err := rows.Scan(&payload, &result.Rank, &result.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &result.Project); err != nil {
			return nil, fmt.Errorf("failed to decode search result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}

// matchExpression quotes every word so user input is never parsed as FTS5
// query syntax.
func matchExpression(query string) string {
	var terms []string
	for _, word := range strings.Fields(query) {
		word = strings.ReplaceAll(word, `"`, "")
		if strings.IndexFunc(word, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		terms = append(terms, `"`+word+`"*`)
	}
	return strings.Join(terms, " ")
}
