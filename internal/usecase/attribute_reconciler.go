package usecase

import (
	"context"
	"fmt"

	"go-candidate-backend/internal/domain"
	"go-candidate-backend/pkg/apperror"
)

// attributeReconciler maps payload items onto attribute records scoped to one
// candidate: an item with an id resolves to the stored attribute with name
// and value overwritten from the payload, anything else becomes a new record
// bound to the candidate. Output order and length match the input.
type attributeReconciler struct {
	repo domain.CandidateRepository
}

func newAttributeReconciler(repo domain.CandidateRepository) *attributeReconciler {
	return &attributeReconciler{repo: repo}
}

func (r *attributeReconciler) Reconcile(ctx context.Context, candidateID int64, items []domain.AttributeInput) ([]domain.CandidateAttribute, error) {
	resolved := make([]domain.CandidateAttribute, 0, len(items))

	for _, item := range items {
		if item.ID != nil {
			attr, err := r.repo.FindAttributeByID(ctx, *item.ID)
			if err != nil {
				return nil, apperror.Internal(err)
			}
			// Attributes are exclusively owned; an id belonging to another
			// candidate is treated as unknown.
			if attr == nil || attr.CandidateID != candidateID {
				return nil, apperror.NotFound(fmt.Sprintf("attribute with id %d not found", *item.ID))
			}
			attr.Name = item.Name
			attr.Value = item.Value
			resolved = append(resolved, *attr)
			continue
		}

		resolved = append(resolved, domain.CandidateAttribute{
			CandidateID: candidateID,
			Name:        item.Name,
			Value:       item.Value,
		})
	}

	return resolved, nil
}
