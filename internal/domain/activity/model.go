package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated     ActivityType = "project_created"
	TypeProjectUpdated     ActivityType = "project_updated"
	TypeProjectDeleted     ActivityType = "project_deleted"
	TypeProjectsReordered  ActivityType = "projects_reordered"
	TypeReorderFailed      ActivityType = "reorder_failed"
	TypeProjectsNormalized ActivityType = "projects_normalized"
)

// ParseType validates an activity type name.
func ParseType(s string) (ActivityType, bool) {
	switch t := ActivityType(s); t {
	case TypeProjectCreated, TypeProjectUpdated, TypeProjectDeleted,
		TypeProjectsReordered, TypeReorderFailed, TypeProjectsNormalized:
		return t, true
	}
	return "", false
}

// ActivityEntry represents an event in the local activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	Scope        string       `json:"scope"`
	ProjectID    *string      `json:"project_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
