package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-candidate-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tagTables maps a tag kind to its storage: the tag table itself plus the
// candidate pivot table and its foreign key column.
type tagTables struct {
	table string
	pivot string
	fk    string
}

var tagTablesByKind = map[domain.TagKind]tagTables{
	domain.TagKindSkill:     {table: "skills", pivot: "candidate_skill", fk: "skill_id"},
	domain.TagKindFocusArea: {table: "focus_areas", pivot: "candidate_focus_area", fk: "focus_area_id"},
}

// tagRepo serves slug/id lookups for one deduplicated tag table. Tag writes
// happen inside the candidate aggregate transaction, not here.
type tagRepo struct {
	db     *pgxpool.Pool
	kind   domain.TagKind
	tables tagTables
}

func NewTagRepository(db *pgxpool.Pool, kind domain.TagKind) domain.TagRepository {
	tables, ok := tagTablesByKind[kind]
	if !ok {
		panic(fmt.Sprintf("postgres: unknown tag kind %q", kind))
	}
	return &tagRepo{db: db, kind: kind, tables: tables}
}

func (r *tagRepo) Kind() domain.TagKind {
	return r.kind
}

func (r *tagRepo) FindByID(ctx context.Context, id int64) (*domain.Tag, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE id = $1`, r.tables.table)

	var t domain.Tag
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) FindBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = $1`, r.tables.table)

	var t domain.Tag
	err := r.db.QueryRow(ctx, query, slug).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
