package mcp_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/folio/internal/apiclient"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/mcp"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	require.Nil(t, mcp.MapError(nil))
	require.Nil(t, mcp.MapError(errors.New("boom")))

	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("updating project: %w", project.ErrProjectNotFound), "PROJECT_NOT_FOUND"},
		{fmt.Errorf("%w: title is required", project.ErrInvalidInput), "INVALID_INPUT"},
		{&apiclient.APIError{StatusCode: 401, Message: "expired"}, "UNAUTHORIZED"},
	}
	for _, tc := range cases {
		got := mcp.MapError(tc.err)
		require.NotNil(t, got, tc.err.Error())
		require.Equal(t, tc.code, got.Code)
	}
}

func TestMapError_BatchDetails(t *testing.T) {
	batch := &project.BatchError{
		Total:    3,
		Failures: []project.WriteFailure{{ID: "b", Err: errors.New("500")}},
	}

	got := mcp.MapError(fmt.Errorf("reorder: %w", batch))
	require.NotNil(t, got)
	require.Equal(t, "REORDER_FAILED", got.Code)
	details, ok := got.Details.(map[string]any)
	require.True(t, ok)
	require.Equal(t, []string{"b"}, details["failed_ids"])
	require.Equal(t, 3, details["total"])
	require.Contains(t, got.Error(), "previous order was restored")
}
