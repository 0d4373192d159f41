// Package catalog holds the taxonomy entities referenced by webinars:
// categories, speakers, and tags.
package catalog

import (
	"fmt"
	"regexp"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Category groups webinars; a webinar references at most one category.
type Category struct {
	id   string
	name string
	slug string
}

// NewCategory validates and creates a Category.
func NewCategory(id, name, slug string) (Category, error) {
	if id == "" {
		return Category{}, fmt.Errorf("category ID is required")
	}
	if name == "" {
		return Category{}, fmt.Errorf("category name is required")
	}
	if !slugRegex.MatchString(slug) {
		return Category{}, fmt.Errorf("category slug %q must be lowercase-hyphenated", slug)
	}
	return Category{id: id, name: name, slug: slug}, nil
}

// ReconstructCategory creates a Category without validation (storage hydration).
func ReconstructCategory(id, name, slug string) Category {
	return Category{id: id, name: name, slug: slug}
}

// ID returns the category identifier.
func (c *Category) ID() string { return c.id }

// Name returns the display name.
func (c *Category) Name() string { return c.name }

// Slug returns the unique URL slug.
func (c *Category) Slug() string { return c.slug }

// Speaker presents webinars; related many-to-many.
type Speaker struct {
	id   string
	name string
	bio  string
}

// NewSpeaker validates and creates a Speaker.
func NewSpeaker(id, name, bio string) (Speaker, error) {
	if id == "" {
		return Speaker{}, fmt.Errorf("speaker ID is required")
	}
	if name == "" {
		return Speaker{}, fmt.Errorf("speaker name is required")
	}
	return Speaker{id: id, name: name, bio: bio}, nil
}

// ReconstructSpeaker creates a Speaker without validation (storage hydration).
func ReconstructSpeaker(id, name, bio string) Speaker {
	return Speaker{id: id, name: name, bio: bio}
}

// ID returns the speaker identifier.
func (s *Speaker) ID() string { return s.id }

// Name returns the unique speaker name.
func (s *Speaker) Name() string { return s.name }

// Bio returns the optional biography (may be empty).
func (s *Speaker) Bio() string { return s.bio }

// Tag labels webinars; related many-to-many.
type Tag struct {
	id   string
	name string
	slug string
}

// NewTag validates and creates a Tag.
func NewTag(id, name, slug string) (Tag, error) {
	if id == "" {
		return Tag{}, fmt.Errorf("tag ID is required")
	}
	if name == "" {
		return Tag{}, fmt.Errorf("tag name is required")
	}
	if !slugRegex.MatchString(slug) {
		return Tag{}, fmt.Errorf("tag slug %q must be lowercase-hyphenated", slug)
	}
	return Tag{id: id, name: name, slug: slug}, nil
}

// ReconstructTag creates a Tag without validation (storage hydration).
func ReconstructTag(id, name, slug string) Tag {
	return Tag{id: id, name: name, slug: slug}
}

// ID returns the tag identifier.
func (t *Tag) ID() string { return t.id }

// Name returns the unique tag name.
func (t *Tag) Name() string { return t.name }

// Slug returns the unique URL slug.
func (t *Tag) Slug() string { return t.slug }
