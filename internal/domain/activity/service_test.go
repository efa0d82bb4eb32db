package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	scope := "https://api.example.com"

	repo := &mocks.ActivityRepository{}
	projectID := "p1"
	entry := &activity.ActivityEntry{
		ProjectID:    &projectID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created",
	}

	repo.On("Log", ctx, scope, entry).Return(nil)
	repo.On("List", ctx, scope, activity.ListActivityOptions{ProjectID: &projectID, Limit: activity.DefaultLimit}).
		Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, scope, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, scope, activity.ListActivityOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogRejectsMissingType(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	err := svc.LogActivity(context.Background(), "scope", &activity.ActivityEntry{Summary: "x"})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "scope", nil), activity.ErrInvalidInput)
}

func TestActivityService_ListWrapsErrors(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	boom := errors.New("disk full")
	repo.On("List", mock.Anything, "scope", mock.Anything).Return(nil, boom)

	svc := activity.NewService(repo, nil)
	_, err := svc.GetRecentActivity(context.Background(), "scope", activity.ListActivityOptions{Limit: 5})
	require.ErrorIs(t, err, boom)
}

func TestParseType(t *testing.T) {
	typ, ok := activity.ParseType("projects_reordered")
	require.True(t, ok)
	require.Equal(t, activity.TypeProjectsReordered, typ)

	_, ok = activity.ParseType("record_created")
	require.False(t, ok)
}
