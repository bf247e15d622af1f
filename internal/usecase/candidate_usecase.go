package usecase

import (
	"context"

	"go-candidate-backend/internal/domain"
	"go-candidate-backend/pkg/apperror"
	"go-candidate-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const defaultPerPage = 10

// candidateUsecase orchestrates candidate aggregate writes: validate the
// payload, resolve each related collection, then hand the whole change set to
// the repository for one transactional save.
type candidateUsecase struct {
	repo       domain.CandidateRepository
	users      domain.UserRepository
	skills     *tagResolver
	focusAreas *tagResolver
	attributes *attributeReconciler
	validate   *validator.Validate
}

func NewCandidateUsecase(
	repo domain.CandidateRepository,
	users domain.UserRepository,
	skillStore domain.TagRepository,
	focusAreaStore domain.TagRepository,
	validate *validator.Validate,
) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:       repo,
		users:      users,
		skills:     newTagResolver(skillStore),
		focusAreas: newTagResolver(focusAreaStore),
		attributes: newAttributeReconciler(repo),
		validate:   validate,
	}
}

func (u *candidateUsecase) Store(ctx context.Context, input *domain.StoreCandidateInput) (*domain.Candidate, error) {
	fields := map[string][]string{}
	if err := u.validate.Struct(input); err != nil {
		fields = validation.FieldErrors(err)
	}
	if input.UserID != "" {
		if err := u.checkUserExists(ctx, input.UserID, fields); err != nil {
			return nil, err
		}
	}
	if input.Email != "" {
		taken, err := u.repo.EmailExists(ctx, input.Email, 0)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if taken {
			fields["email"] = append(fields["email"], "The email has already been taken.")
		}
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	candidate := &domain.Candidate{
		UserID:             input.UserID,
		Email:              input.Email,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Status:             input.Status,
		LinkedinURL:        input.LinkedinURL,
		Source:             input.Source,
		Notes:              input.Notes,
		Dob:                input.Dob,
		SalaryExpectation:  input.SalaryExpectation,
		PotentialStartDate: input.PotentialStartDate,
		WillingToMove:      input.WillingToMove,
	}

	changes := &domain.CandidateChanges{}

	if len(input.Attributes) > 0 {
		// The create path never reuses stored attributes: ids are dropped
		// and every item becomes a fresh record.
		items := make([]domain.AttributeInput, len(input.Attributes))
		for i, item := range input.Attributes {
			item.ID = nil
			items[i] = item
		}
		attrs, err := u.attributes.Reconcile(ctx, 0, items)
		if err != nil {
			return nil, err
		}
		changes.Attributes = attrs
		changes.AttributesPresent = true
	}

	if len(input.Skills) > 0 {
		tags, err := u.skills.Resolve(ctx, input.Skills, false)
		if err != nil {
			return nil, err
		}
		changes.Skills = tags
		changes.SkillsPresent = true
	}

	if len(input.FocusAreas) > 0 {
		tags, err := u.focusAreas.Resolve(ctx, input.FocusAreas, false)
		if err != nil {
			return nil, err
		}
		changes.FocusAreas = tags
		changes.FocusAreasPresent = true
	}

	if err := u.repo.Create(ctx, candidate, changes); err != nil {
		return nil, err
	}

	return u.mustLoad(ctx, candidate.ID)
}

func (u *candidateUsecase) Show(ctx context.Context, id int64) (*domain.Candidate, error) {
	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found")
	}
	return candidate, nil
}

func (u *candidateUsecase) Update(ctx context.Context, id int64, input *domain.UpdateCandidateInput) (*domain.Candidate, error) {
	fields := map[string][]string{}
	if err := u.validate.Struct(input); err != nil {
		fields = validation.FieldErrors(err)
	}
	if input.UserID != "" {
		if err := u.checkUserExists(ctx, input.UserID, fields); err != nil {
			return nil, err
		}
	}
	if input.Email != nil && *input.Email != "" {
		taken, err := u.repo.EmailExists(ctx, *input.Email, id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if taken {
			fields["email"] = append(fields["email"], "The email has already been taken.")
		}
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	applyScalarUpdates(candidate, input)

	changes := &domain.CandidateChanges{}

	// Attributes are additive: existing records are reused (and overwritten
	// when an id is supplied), new ones are appended. Never a full replace.
	if input.Attributes != nil {
		attrs, err := u.attributes.Reconcile(ctx, id, *input.Attributes)
		if err != nil {
			return nil, err
		}
		changes.Attributes = attrs
		changes.AttributesPresent = true
	}

	// Skills and focus areas are full replacements: when the payload mentions
	// the collection, every existing association is detached and exactly the
	// resolved set is relinked. An empty array therefore clears the set.
	if input.Skills != nil {
		tags, err := u.skills.Resolve(ctx, *input.Skills, true)
		if err != nil {
			return nil, err
		}
		changes.Skills = tags
		changes.SkillsPresent = true
	}

	if input.FocusAreas != nil {
		tags, err := u.focusAreas.Resolve(ctx, *input.FocusAreas, true)
		if err != nil {
			return nil, err
		}
		changes.FocusAreas = tags
		changes.FocusAreasPresent = true
	}

	if err := u.repo.Update(ctx, candidate, changes); err != nil {
		return nil, err
	}

	return u.mustLoad(ctx, id)
}

func (u *candidateUsecase) Delete(ctx context.Context, id int64) (*domain.Candidate, error) {
	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	// The representation of the deleted entity is returned to the caller.
	return candidate, nil
}

func (u *candidateUsecase) List(ctx context.Context, query domain.CandidateQuery) ([]domain.Candidate, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = defaultPerPage
	}
	return u.repo.List(ctx, query)
}

func (u *candidateUsecase) checkUserExists(ctx context.Context, userID string, fields map[string][]string) error {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return apperror.Internal(err)
	}
	if user == nil {
		fields["user_id"] = append(fields["user_id"], "The selected user_id is invalid.")
	}
	return nil
}

func (u *candidateUsecase) mustLoad(ctx context.Context, id int64) (*domain.Candidate, error) {
	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found")
	}
	return candidate, nil
}

func applyScalarUpdates(c *domain.Candidate, input *domain.UpdateCandidateInput) {
	c.UserID = input.UserID
	if input.Email != nil {
		c.Email = *input.Email
	}
	if input.FirstName != nil {
		c.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		c.LastName = *input.LastName
	}
	if input.Status != nil {
		c.Status = input.Status
	}
	if input.LinkedinURL != nil {
		c.LinkedinURL = input.LinkedinURL
	}
	if input.Source != nil {
		c.Source = input.Source
	}
	if input.Notes != nil {
		c.Notes = input.Notes
	}
	if input.Dob != nil {
		c.Dob = input.Dob
	}
	if input.SalaryExpectation != nil {
		c.SalaryExpectation = input.SalaryExpectation
	}
	if input.PotentialStartDate != nil {
		c.PotentialStartDate = input.PotentialStartDate
	}
	if input.WillingToMove != nil {
		c.WillingToMove = input.WillingToMove
	}
}
