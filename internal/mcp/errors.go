package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/folio/internal/apiclient"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/repository"
	"github.com/samber/lo"
)

var (
	errSearchUnavailable   = errors.New("search is not configured")
	errActivityUnavailable = errors.New("activity log is not configured")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RecoveryHint != "" {
		msg += " (" + e.RecoveryHint + ")"
	}
	return msg
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var batch *project.BatchError
	switch {
	case errors.As(err, &batch):
		failed := lo.Map(batch.Failures, func(f project.WriteFailure, _ int) string { return f.ID })
		return &APIError{
			Code:         "REORDER_FAILED",
			Message:      batch.Error(),
			Details:      map[string]any{"failed_ids": failed, "total": batch.Total},
			RecoveryHint: "The previous order was restored; list_projects shows the server state",
		}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, apiclient.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "the portfolio API rejected the credentials", RecoveryHint: "Run folio login"}
	case errors.Is(err, errSearchUnavailable), errors.Is(err, errActivityUnavailable):
		return &APIError{Code: "UNAVAILABLE", Message: err.Error()}
	default:
		return nil
	}
}
