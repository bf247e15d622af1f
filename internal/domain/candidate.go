package domain

import (
	"context"
	"time"
)

type Candidate struct {
	ID                 int64                `json:"id"`
	UserID             string               `json:"user_id"`
	Email              string               `json:"email"`
	FirstName          string               `json:"first_name"`
	LastName           string               `json:"last_name"`
	FullName           string               `json:"full_name"` // computed on read, never stored
	Status             *string              `json:"status"`
	LinkedinURL        *string              `json:"linkedin_url"`
	Source             *string              `json:"source"`
	Notes              *string              `json:"notes"`
	Dob                *string              `json:"dob"` // YYYY-MM-DD
	SalaryExpectation  *int64               `json:"salary_expectation"`
	PotentialStartDate *string              `json:"potential_start_date"`
	WillingToMove      *bool                `json:"willing_to_move"`
	Attributes         []CandidateAttribute `json:"attributes"`
	Skills             []Tag                `json:"skills"`
	FocusAreas         []Tag                `json:"focus_areas"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// CandidateAttribute is a free-form named value owned by exactly one candidate.
// Deleting the candidate deletes its attributes.
type CandidateAttribute struct {
	ID          int64  `json:"id"`
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Value       string `json:"value"`
}

type AttributeInput struct {
	ID    *int64 `json:"id"`
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type TagInput struct {
	ID   *int64 `json:"id"`
	Name string `json:"name" validate:"required"`
}

// StoreCandidateInput is the create payload. Explicit typed fields only -
// open-ended maps are never accepted or stored.
type StoreCandidateInput struct {
	UserID             string           `json:"user_id" validate:"required"`
	Email              string           `json:"email" validate:"required,email"`
	FirstName          string           `json:"first_name" validate:"required"`
	LastName           string           `json:"last_name" validate:"required"`
	Status             *string          `json:"status"`
	LinkedinURL        *string          `json:"linkedin_url"`
	Source             *string          `json:"source"`
	Notes              *string          `json:"notes"`
	Dob                *string          `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	SalaryExpectation  *int64           `json:"salary_expectation"`
	PotentialStartDate *string          `json:"potential_start_date"`
	WillingToMove      *bool            `json:"willing_to_move"`
	Attributes         []AttributeInput `json:"attributes" validate:"omitempty,dive"`
	Skills             []TagInput       `json:"skills" validate:"omitempty,dive"`
	FocusAreas         []TagInput       `json:"focus_areas" validate:"omitempty,dive"`
}

// UpdateCandidateInput is the update payload. Scalar pointers distinguish
// "omitted" from "set"; pointer slices distinguish "omitted" (relations
// untouched) from "present but empty" (skills/focus_areas: detach all).
type UpdateCandidateInput struct {
	UserID             string            `json:"user_id" validate:"required"`
	Email              *string           `json:"email" validate:"omitempty,email"`
	FirstName          *string           `json:"first_name"`
	LastName           *string           `json:"last_name"`
	Status             *string           `json:"status"`
	LinkedinURL        *string           `json:"linkedin_url"`
	Source             *string           `json:"source"`
	Notes              *string           `json:"notes"`
	Dob                *string           `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	SalaryExpectation  *int64            `json:"salary_expectation"`
	PotentialStartDate *string           `json:"potential_start_date"`
	WillingToMove      *bool             `json:"willing_to_move"`
	Attributes         *[]AttributeInput `json:"attributes" validate:"omitempty,dive"`
	Skills             *[]TagInput       `json:"skills" validate:"omitempty,dive"`
	FocusAreas         *[]TagInput       `json:"focus_areas" validate:"omitempty,dive"`
}

// CandidateChanges carries the resolved relation sets for one aggregate write.
// Present flags record whether the payload mentioned the collection at all.
type CandidateChanges struct {
	Attributes        []CandidateAttribute
	AttributesPresent bool
	Skills            []ResolvedTag
	SkillsPresent     bool
	FocusAreas        []ResolvedTag
	FocusAreasPresent bool
}

// CandidateQuery is the list/search request: either a free-text search term
// or structured equality/range filters, plus 1-indexed pagination.
type CandidateQuery struct {
	Search        string
	Status        *string
	Source        *string
	UserID        *string
	WillingToMove *bool
	SalaryMin     *int64
	SalaryMax     *int64
	Page          int
	PerPage       int
}

type CandidateRepository interface {
	// GetByID loads the full aggregate (attributes, skills, focus areas).
	// Returns nil when the candidate does not exist.
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	// FindAttributeByID returns nil when no attribute has the id.
	FindAttributeByID(ctx context.Context, id int64) (*CandidateAttribute, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	// Create persists the root and all resolved relations in one transaction.
	Create(ctx context.Context, candidate *Candidate, changes *CandidateChanges) error
	// Update applies scalar changes plus relation changes in one transaction:
	// attributes are additive, skills/focus_areas are full replacements
	// (detach all, relink the resolved set) when present.
	Update(ctx context.Context, candidate *Candidate, changes *CandidateChanges) error
	// Delete removes the candidate, cascades its attributes, and detaches
	// (never destroys) shared skill/focus-area tags.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query CandidateQuery) ([]Candidate, int64, error)
}

type CandidateUsecase interface {
	Store(ctx context.Context, input *StoreCandidateInput) (*Candidate, error)
	Show(ctx context.Context, id int64) (*Candidate, error)
	Update(ctx context.Context, id int64, input *UpdateCandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id int64) (*Candidate, error)
	List(ctx context.Context, query CandidateQuery) ([]Candidate, int64, error)
}
