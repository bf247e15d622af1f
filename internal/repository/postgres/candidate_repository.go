package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-candidate-backend/internal/domain"
	"go-candidate-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const candidateColumns = `id, user_id, email, first_name, last_name, status, linkedin_url, source,
	notes, dob, salary_expectation, potential_start_date, willing_to_move, created_at, updated_at`

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so relation loading and
// linking can run inside or outside a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = $1`, candidateColumns)

	candidate, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadRelations(ctx, r.db, []*domain.Candidate{candidate}); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (r *candidateRepository) FindAttributeByID(ctx context.Context, id int64) (*domain.CandidateAttribute, error) {
	query := `SELECT id, candidate_id, name, value FROM candidate_attributes WHERE id = $1`

	var a domain.CandidateAttribute
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.CandidateID, &a.Name, &a.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *candidateRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM candidates WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *candidateRepository) Create(ctx context.Context, candidate *domain.Candidate, changes *domain.CandidateChanges) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO candidates (
			user_id, email, first_name, last_name, status, linkedin_url, source,
			notes, dob, salary_expectation, potential_start_date, willing_to_move,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id`

	err = tx.QueryRow(ctx, insertQuery,
		candidate.UserID, candidate.Email, candidate.FirstName, candidate.LastName,
		candidate.Status, candidate.LinkedinURL, candidate.Source, candidate.Notes,
		candidate.Dob, candidate.SalaryExpectation, candidate.PotentialStartDate,
		candidate.WillingToMove,
	).Scan(&candidate.ID)
	if err != nil {
		return mapWriteError(err)
	}

	if changes.AttributesPresent {
		if err := saveAttributes(ctx, tx, candidate.ID, changes.Attributes); err != nil {
			return err
		}
	}
	if changes.SkillsPresent {
		if err := linkTags(ctx, tx, candidate.ID, domain.TagKindSkill, changes.Skills, false); err != nil {
			return err
		}
	}
	if changes.FocusAreasPresent {
		if err := linkTags(ctx, tx, candidate.ID, domain.TagKindFocusArea, changes.FocusAreas, false); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate, changes *domain.CandidateChanges) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE candidates SET
			user_id = $1, email = $2, first_name = $3, last_name = $4, status = $5,
			linkedin_url = $6, source = $7, notes = $8, dob = $9,
			salary_expectation = $10, potential_start_date = $11, willing_to_move = $12,
			updated_at = NOW()
		WHERE id = $13`

	_, err = tx.Exec(ctx, updateQuery,
		candidate.UserID, candidate.Email, candidate.FirstName, candidate.LastName,
		candidate.Status, candidate.LinkedinURL, candidate.Source, candidate.Notes,
		candidate.Dob, candidate.SalaryExpectation, candidate.PotentialStartDate,
		candidate.WillingToMove, candidate.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	if changes.AttributesPresent {
		if err := saveAttributes(ctx, tx, candidate.ID, changes.Attributes); err != nil {
			return err
		}
	}
	// Tag sets are full replacements: detach everything, relink the resolved set.
	if changes.SkillsPresent {
		if err := linkTags(ctx, tx, candidate.ID, domain.TagKindSkill, changes.Skills, true); err != nil {
			return err
		}
	}
	if changes.FocusAreasPresent {
		if err := linkTags(ctx, tx, candidate.ID, domain.TagKindFocusArea, changes.FocusAreas, true); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	// Detach shared tags (association rows only - the tags themselves persist)
	// and cascade owned attributes before removing the root.
	for _, tables := range tagTablesByKind {
		query := fmt.Sprintf(`DELETE FROM %s WHERE candidate_id = $1`, tables.pivot)
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return apperror.Internal(err)
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM candidate_attributes WHERE candidate_id = $1`, id); err != nil {
		return apperror.Internal(err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("Candidate not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *candidateRepository) List(ctx context.Context, q domain.CandidateQuery) ([]domain.Candidate, int64, error) {
	var (
		where []string
		args  []any
	)

	if q.Search != "" {
		// Free-text search over the indexed candidate document.
		args = append(args, q.Search)
		where = append(where, fmt.Sprintf(
			`to_tsvector('simple', first_name || ' ' || last_name || ' ' || email || ' ' || coalesce(notes, ''))
				@@ websearch_to_tsquery('simple', $%d)`, len(args)))
	} else {
		if q.Status != nil {
			args = append(args, *q.Status)
			where = append(where, fmt.Sprintf(`status = $%d`, len(args)))
		}
		if q.Source != nil {
			args = append(args, *q.Source)
			where = append(where, fmt.Sprintf(`source = $%d`, len(args)))
		}
		if q.UserID != nil {
			args = append(args, *q.UserID)
			where = append(where, fmt.Sprintf(`user_id = $%d`, len(args)))
		}
		if q.WillingToMove != nil {
			args = append(args, *q.WillingToMove)
			where = append(where, fmt.Sprintf(`willing_to_move = $%d`, len(args)))
		}
		if q.SalaryMin != nil {
			args = append(args, *q.SalaryMin)
			where = append(where, fmt.Sprintf(`salary_expectation >= $%d`, len(args)))
		}
		if q.SalaryMax != nil {
			args = append(args, *q.SalaryMax)
			where = append(where, fmt.Sprintf(`salary_expectation <= $%d`, len(args)))
		}
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM candidates` + whereSQL
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	pageQuery := fmt.Sprintf(`SELECT %s FROM candidates%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		candidateColumns, whereSQL, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	refs := make([]*domain.Candidate, len(candidates))
	for i := range candidates {
		refs[i] = &candidates[i]
	}
	if err := r.loadRelations(ctx, r.db, refs); err != nil {
		return nil, 0, err
	}

	return candidates, total, nil
}

// loadRelations eagerly loads attributes, skills, and focus areas for the
// given candidates in three batched queries.
func (r *candidateRepository) loadRelations(ctx context.Context, db dbtx, candidates []*domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]int64, len(candidates))
	byID := make(map[int64]*domain.Candidate, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	attrQuery := `
		SELECT id, candidate_id, name, value
		FROM candidate_attributes
		WHERE candidate_id = ANY($1::bigint[])
		ORDER BY id`

	rows, err := db.Query(ctx, attrQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch attributes: %w", err)
	}
	for rows.Next() {
		var a domain.CandidateAttribute
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.Name, &a.Value); err != nil {
			rows.Close()
			return err
		}
		byID[a.CandidateID].Attributes = append(byID[a.CandidateID].Attributes, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for kind, tables := range tagTablesByKind {
		tagQuery := fmt.Sprintf(`
			SELECT p.candidate_id, t.id, t.name, t.slug
			FROM %s p
			JOIN %s t ON t.id = p.%s
			WHERE p.candidate_id = ANY($1::bigint[])
			ORDER BY p.candidate_id, t.id`, tables.pivot, tables.table, tables.fk)

		rows, err := db.Query(ctx, tagQuery, pq.Array(ids))
		if err != nil {
			return fmt.Errorf("failed to fetch %s tags: %w", kind, err)
		}
		for rows.Next() {
			var candidateID int64
			var t domain.Tag
			if err := rows.Scan(&candidateID, &t.ID, &t.Name, &t.Slug); err != nil {
				rows.Close()
				return err
			}
			if kind == domain.TagKindSkill {
				byID[candidateID].Skills = append(byID[candidateID].Skills, t)
			} else {
				byID[candidateID].FocusAreas = append(byID[candidateID].FocusAreas, t)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	return nil
}

// saveAttributes persists reconciled attributes: records carrying an id are
// overwritten in place, the rest are inserted for the candidate.
func saveAttributes(ctx context.Context, tx dbtx, candidateID int64, attrs []domain.CandidateAttribute) error {
	for _, a := range attrs {
		if a.ID != 0 {
			query := `UPDATE candidate_attributes SET name = $1, value = $2 WHERE id = $3 AND candidate_id = $4`
			if _, err := tx.Exec(ctx, query, a.Name, a.Value, a.ID, candidateID); err != nil {
				return mapWriteError(err)
			}
			continue
		}

		query := `INSERT INTO candidate_attributes (candidate_id, name, value) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, query, candidateID, a.Name, a.Value); err != nil {
			return mapWriteError(err)
		}
	}
	return nil
}

// linkTags persists resolved tags and their associations for one kind. New
// tags (ID zero) go through upsert-by-slug so a concurrent insert of the same
// slug collapses to the single stored row instead of racing find-then-create.
func linkTags(ctx context.Context, tx dbtx, candidateID int64, kind domain.TagKind, tags []domain.ResolvedTag, replace bool) error {
	tables := tagTablesByKind[kind]

	if replace {
		query := fmt.Sprintf(`DELETE FROM %s WHERE candidate_id = $1`, tables.pivot)
		if _, err := tx.Exec(ctx, query, candidateID); err != nil {
			return mapWriteError(err)
		}
	}

	for _, t := range tags {
		id := t.ID

		switch {
		case id == 0:
			// The no-op DO UPDATE keeps RETURNING populated on conflict while
			// leaving the stored name untouched.
			upsert := fmt.Sprintf(`
				INSERT INTO %[1]s (name, slug) VALUES ($1, $2)
				ON CONFLICT (slug) DO UPDATE SET name = %[1]s.name
				RETURNING id`, tables.table)
			if err := tx.QueryRow(ctx, upsert, t.Name, t.Slug).Scan(&id); err != nil {
				return mapWriteError(err)
			}
		case t.Mutate:
			query := fmt.Sprintf(`UPDATE %s SET name = $1, slug = $2 WHERE id = $3`, tables.table)
			if _, err := tx.Exec(ctx, query, t.Name, t.Slug, id); err != nil {
				return mapWriteError(err)
			}
		}

		link := fmt.Sprintf(`
			INSERT INTO %s (candidate_id, %s) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, tables.pivot, tables.fk)
		if _, err := tx.Exec(ctx, link, candidateID, id); err != nil {
			return mapWriteError(err)
		}
	}

	return nil
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	var dob, startDate *time.Time

	err := row.Scan(
		&c.ID, &c.UserID, &c.Email, &c.FirstName, &c.LastName, &c.Status,
		&c.LinkedinURL, &c.Source, &c.Notes, &dob, &c.SalaryExpectation,
		&startDate, &c.WillingToMove, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Dates travel as YYYY-MM-DD strings
	if dob != nil {
		s := dob.Format("2006-01-02")
		c.Dob = &s
	}
	if startDate != nil {
		s := startDate.Format("2006-01-02")
		c.PotentialStartDate = &s
	}

	c.FullName = c.FirstName + " " + c.LastName
	c.Attributes = []domain.CandidateAttribute{}
	c.Skills = []domain.Tag{}
	c.FocusAreas = []domain.Tag{}
	return &c, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "email") {
				return apperror.Conflict("A candidate with this email already exists")
			}
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return apperror.Conflict("A tag with this slug already exists")
			}
			return apperror.Conflict("Duplicate value violates a uniqueness constraint")
		case pgForeignKeyViolation:
			return apperror.BadRequest("Referenced record does not exist")
		}
	}
	return apperror.Internal(err)
}
