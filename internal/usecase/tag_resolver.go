package usecase

import (
	"context"
	"fmt"

	"go-candidate-backend/internal/domain"
	"go-candidate-backend/pkg/apperror"
	"go-candidate-backend/pkg/slug"
)

// tagResolver maps payload items onto tag references for one kind: an
// existing stored tag (matched by id or by slug) or a new unsaved one.
// Persistence and association-linking belong to the caller.
type tagResolver struct {
	store domain.TagRepository
}

func newTagResolver(store domain.TagRepository) *tagResolver {
	return &tagResolver{store: store}
}

// Resolve returns one reference per input item, in input order. With byID set
// (the update path), an item carrying an id resolves to that stored tag with
// its name and slug overwritten from the payload; a missing id is an error.
// Otherwise items resolve by slug: a hit reuses the stored tag untouched, a
// miss yields a new tag carrying the computed slug (ID zero, saved by the
// caller via upsert-by-slug).
func (r *tagResolver) Resolve(ctx context.Context, items []domain.TagInput, byID bool) ([]domain.ResolvedTag, error) {
	resolved := make([]domain.ResolvedTag, 0, len(items))

	for _, item := range items {
		s := slug.Make(item.Name)

		if byID && item.ID != nil {
			tag, err := r.store.FindByID(ctx, *item.ID)
			if err != nil {
				return nil, apperror.Internal(err)
			}
			if tag == nil {
				return nil, apperror.NotFound(fmt.Sprintf("%s with id %d not found", r.store.Kind(), *item.ID))
			}
			tag.Name = item.Name
			tag.Slug = s
			resolved = append(resolved, domain.ResolvedTag{Tag: *tag, Mutate: true})
			continue
		}

		tag, err := r.store.FindBySlug(ctx, s)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if tag != nil {
			resolved = append(resolved, domain.ResolvedTag{Tag: *tag})
			continue
		}

		resolved = append(resolved, domain.ResolvedTag{Tag: domain.Tag{Name: item.Name, Slug: s}})
	}

	return resolved, nil
}
