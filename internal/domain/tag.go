package domain

import "context"

// TagKind selects which deduplicated tag table a store operates on.
type TagKind string

const (
	TagKindSkill     TagKind = "skill"
	TagKindFocusArea TagKind = "focus_area"
)

// Tag is a shared, deduplicated named record (Skill or FocusArea) referenced
// by many candidates. At most one stored tag exists per slug within a kind.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ResolvedTag is a tag reference produced by the resolver. ID zero means a
// new, not-yet-persisted tag (saved via upsert-by-slug). Mutate marks an
// existing tag whose name/slug were overwritten from an update payload and
// must be persisted before relinking.
type ResolvedTag struct {
	Tag
	Mutate bool
}

// TagRepository reads shared tag storage for one kind. Writes happen inside
// the candidate aggregate transaction, not here.
type TagRepository interface {
	Kind() TagKind
	// FindByID returns nil when no tag has the id.
	FindByID(ctx context.Context, id int64) (*Tag, error)
	// FindBySlug returns nil when no tag has the slug.
	FindBySlug(ctx context.Context, slug string) (*Tag, error)
}
