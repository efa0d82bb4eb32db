package project

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	minYear = 1970
	maxYear = 2100
)

// ValidateDraft validates fields required to create a project.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if err := validateURL("image_url", d.ImageURL, true); err != nil {
		return err
	}
	if err := validateURL("live_url", d.LiveURL, true); err != nil {
		return err
	}
	if d.GithubURL != nil {
		if err := validateURL("github_url", *d.GithubURL, false); err != nil {
			return err
		}
	}
	return validateEnums(&d.Type, &d.Category, &d.Status, &d.Year)
}

// ValidatePatch validates the fields present in a patch.
func ValidatePatch(p Patch) error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
	}
	if p.ImageURL != nil {
		if err := validateURL("image_url", *p.ImageURL, true); err != nil {
			return err
		}
	}
	if p.LiveURL != nil {
		if err := validateURL("live_url", *p.LiveURL, true); err != nil {
			return err
		}
	}
	if p.GithubURL != nil {
		if err := validateURL("github_url", *p.GithubURL, false); err != nil {
			return err
		}
	}
	if p.Order != nil && *p.Order < FirstOrder {
		return fmt.Errorf("%w: order must be at least %d", ErrInvalidInput, FirstOrder)
	}
	return validateEnums(p.Type, p.Category, p.Status, p.Year)
}

func validateEnums(typ *Type, category *Category, status *Status, year *int) error {
	if typ != nil {
		switch *typ {
		case "", TypeWeb, TypeMobile:
		default:
			return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, *typ)
		}
	}
	if category != nil {
		switch *category {
		case "", CategoryFrontend, CategoryFullstack:
		default:
			return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *category)
		}
	}
	if status != nil {
		switch *status {
		case "", StatusCompleted, StatusInProgress, StatusFeatured:
		default:
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
		}
	}
	if year != nil && *year != 0 && (*year < minYear || *year > maxYear) {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidInput, *year)
	}
	return nil
}

func validateURL(field, raw string, required bool) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrInvalidInput, field)
	}
	return nil
}
