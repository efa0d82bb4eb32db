package skill

import (
	"time"

	"github.com/rpggio/folio/internal/icon"
)

// DefaultColor is the card color given to skills created without one.
const DefaultColor = "#1f2937"

// Skill is a named group of related technologies shown as one card.
type Skill struct {
	ID        int       `json:"id"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IconValue resolves the stored icon name, falling back to the default icon.
func (s Skill) IconValue() icon.Icon {
	i, _ := icon.Parse(s.Icon)
	return i
}

// Draft is a skill that has not been assigned an identity yet.
type Draft struct {
	Category string   `json:"category"`
	Color    string   `json:"color"`
	Icon     string   `json:"icon"`
	Items    []string `json:"items"`
}

// Patch is a partial update of a skill.
type Patch struct {
	Category *string  `json:"category,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Icon     *string  `json:"icon,omitempty"`
	Items    []string `json:"items,omitempty"`
}
