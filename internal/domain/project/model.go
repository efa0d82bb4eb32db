package project

import "time"

// Type is the platform a project targets.
type Type string

const (
	TypeWeb    Type = "web"
	TypeMobile Type = "mobile"
)

// Category classifies the scope of a project.
type Category string

const (
	CategoryFrontend  Category = "frontend"
	CategoryFullstack Category = "fullstack"
)

// Status is the publication state of a project.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusFeatured   Status = "featured"
)

// FirstOrder is the order value of the top row. Lists are numbered
// contiguously FirstOrder..FirstOrder+N-1 from top to bottom.
const FirstOrder = 1

// Project is a portfolio entry as stored by the portfolio API.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	LiveURL      string    `json:"live_url"`
	GithubURL    *string   `json:"github_url,omitempty"`
	Technologies []string  `json:"technologies"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `json:"user_id,omitempty"`
	Type         Type      `json:"type,omitempty"`
	Category     Category  `json:"category,omitempty"`
	Status       Status    `json:"status,omitempty"`
	Year         int       `json:"year,omitempty"`
}

// Draft is a project that has not been assigned an identity yet.
type Draft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	LiveURL      string   `json:"live_url"`
	GithubURL    *string  `json:"github_url,omitempty"`
	Technologies []string `json:"technologies"`
	Order        int      `json:"order"`
	Type         Type     `json:"type,omitempty"`
	Category     Category `json:"category,omitempty"`
	Status       Status   `json:"status,omitempty"`
	Year         int      `json:"year,omitempty"`
}

// Patch is a partial update. Nil fields are left untouched by the server.
type Patch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	LiveURL      *string    `json:"live_url,omitempty"`
	GithubURL    *string    `json:"github_url,omitempty"`
	Technologies *[]string  `json:"technologies,omitempty"`
	Order        *int       `json:"order,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Type         *Type      `json:"type,omitempty"`
	Category     *Category  `json:"category,omitempty"`
	Status       *Status    `json:"status,omitempty"`
	Year         *int       `json:"year,omitempty"`
}

// IsEmpty reports whether the patch carries no field.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ImageURL == nil &&
		p.LiveURL == nil && p.GithubURL == nil && p.Technologies == nil &&
		p.Order == nil && p.UpdatedAt == nil && p.Type == nil &&
		p.Category == nil && p.Status == nil && p.Year == nil
}

// Apply returns a copy of proj with the patch fields overlaid.
func (p Patch) Apply(proj Project) Project {
	out := proj
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	if p.LiveURL != nil {
		out.LiveURL = *p.LiveURL
	}
	if p.GithubURL != nil {
		url := *p.GithubURL
		out.GithubURL = &url
	}
	if p.Technologies != nil {
		out.Technologies = append([]string{}, *p.Technologies...)
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.UpdatedAt != nil {
		out.UpdatedAt = *p.UpdatedAt
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	return out
}

// FullPatch builds a patch carrying every writable field of proj.
func FullPatch(proj Project) Patch {
	title := proj.Title
	description := proj.Description
	imageURL := proj.ImageURL
	liveURL := proj.LiveURL
	order := proj.Order
	updatedAt := proj.UpdatedAt
	typ := proj.Type
	category := proj.Category
	status := proj.Status
	year := proj.Year
	technologies := append([]string{}, proj.Technologies...)
	return Patch{
		Title:        &title,
		Description:  &description,
		ImageURL:     &imageURL,
		LiveURL:      &liveURL,
		GithubURL:    proj.GithubURL,
		Technologies: &technologies,
		Order:        &order,
		UpdatedAt:    &updatedAt,
		Type:         &typ,
		Category:     &category,
		Status:       &status,
		Year:         &year,
	}
}

// SearchResult is a full-text hit over the cached project snapshot.
type SearchResult struct {
	Project Project `json:"project"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet,omitempty"`
}
