package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/rpggio/folio/internal/repository"
)

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func isFTSSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5: syntax error") || strings.Contains(msg, "unterminated string")
}
