package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Gateway performs the four record-store operations on job postings.
// Every failure is a *StorageError. Successful results are in external
// (JobPosting) form; callers never see storage rows.
type Gateway interface {
	// List returns all postings, newest first. An empty store yields an
	// empty, non-nil slice.
	List(ctx context.Context) ([]JobPosting, error)

	// Get returns one posting.
	Get(ctx context.Context, id string) (JobPosting, error)

	// Create stores a new posting and returns it with the store-assigned
	// id and created_at. An empty status is stored as Active.
	Create(ctx context.Context, j JobPosting) (JobPosting, error)

	// Update writes only the fields present in the patch and returns the
	// full updated posting.
	Update(ctx context.Context, id string, p JobPatch) (JobPosting, error)

	// Delete removes a posting.
	Delete(ctx context.Context, id string) error
}

// PGGateway is the PostgreSQL Gateway.
type PGGateway struct {
	db DBTX
}

// NewPGGateway returns a Gateway over db (a pool or a transaction).
func NewPGGateway(db DBTX) *PGGateway {
	return &PGGateway{db: db}
}

func (g *PGGateway) List(ctx context.Context) ([]JobPosting, error) {
	rows, err := g.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, newStorageError("list", "", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[jobRow])
	if err != nil {
		return nil, newStorageError("list", "", err)
	}

	jobs := make([]JobPosting, 0, len(recs))
	for _, r := range recs {
		jobs = append(jobs, MapIn(r))
	}
	return jobs, nil
}

func (g *PGGateway) Get(ctx context.Context, id string) (JobPosting, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return JobPosting{}, notFoundError("get", id)
	}
	rows, err := g.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, pgID)
	if err != nil {
		return JobPosting{}, newStorageError("get", id, err)
	}
	return collectOne("get", id, rows)
}

func (g *PGGateway) Create(ctx context.Context, j JobPosting) (JobPosting, error) {
	if j.Status == "" {
		j.Status = DefaultStatus
	}
	row := MapOut(j)

	placeholders := make([]string, len(insertColumns))
	for i := range insertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO jobs (%s) VALUES (%s) RETURNING %s`,
		strings.Join(insertColumns, ", "), strings.Join(placeholders, ", "), jobColumns)

	rows, err := g.db.Query(ctx, query, row.insertArgs()...)
	if err != nil {
		return JobPosting{}, newStorageError("create", "", err)
	}
	return collectOne("create", "", rows)
}

func (g *PGGateway) Update(ctx context.Context, id string, p JobPatch) (JobPosting, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return JobPosting{}, notFoundError("update", id)
	}

	cols, args := patchColumns(p)
	if len(cols) == 0 {
		// Nothing to write; still report a missing id.
		j, err := g.Get(ctx, id)
		if se, ok := err.(*StorageError); ok {
			se.Op = "update"
		}
		return j, err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	args = append(args, pgID)
	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), jobColumns)

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return JobPosting{}, newStorageError("update", id, err)
	}
	return collectOne("update", id, rows)
}

func (g *PGGateway) Delete(ctx context.Context, id string) error {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return notFoundError("delete", id)
	}
	tag, err := g.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, pgID)
	if err != nil {
		return newStorageError("delete", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundError("delete", id)
	}
	return nil
}

// CountByStatus returns how many of jobs have status s.
func CountByStatus(jobs []JobPosting, s Status) int {
	n := 0
	for _, j := range jobs {
		if j.Status == s {
			n++
		}
	}
	return n
}

func collectOne(op, id string, rows pgx.Rows) (JobPosting, error) {
	r, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[jobRow])
	if err != nil {
		return JobPosting{}, newStorageError(op, id, err)
	}
	return MapIn(r), nil
}
