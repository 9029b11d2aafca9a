package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

const documentCols = `id, doc_type, title, content, model_used, generation_time, company_id, created_at, updated_at`

// DocumentFilter narrows List. Zero values mean no filter; Limit defaults to
// 100 rows, callers validate the 1..1000 bound before reaching the repo.
type DocumentFilter struct {
	DocType   models.DocType
	CompanyID *int64
	Limit     int
	Offset    int
}

// DocumentUpdate carries a partial update of the editable fields.
type DocumentUpdate struct {
	Title   *string
	Content *string
}

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Insert(ctx context.Context, doc models.GeneratedDocument) (models.GeneratedDocument, error) {
	var out models.GeneratedDocument
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO generated_documents (doc_type, title, content, model_used, generation_time, company_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+documentCols,
		doc.DocType, doc.Title, doc.Content, doc.ModelUsed, doc.GenerationTime, doc.CompanyID).
		Scan(&out.ID, &out.DocType, &out.Title, &out.Content, &out.ModelUsed, &out.GenerationTime, &out.CompanyID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return models.GeneratedDocument{}, fmt.Errorf("insert document: %w", err)
	}
	return out, nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (models.GeneratedDocument, error) {
	var d models.GeneratedDocument
	err := r.db.Pool.QueryRow(ctx, `
SELECT `+documentCols+`
FROM generated_documents
WHERE id = $1`, id).
		Scan(&d.ID, &d.DocType, &d.Title, &d.Content, &d.ModelUsed, &d.GenerationTime, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.GeneratedDocument{}, fault.NotFound("GeneratedDocument", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return models.GeneratedDocument{}, fmt.Errorf("get document by id: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) List(ctx context.Context, f DocumentFilter) ([]models.GeneratedDocument, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if f.DocType != "" {
		args = append(args, f.DocType)
		where = append(where, fmt.Sprintf("doc_type = $%d", len(args)))
	}
	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		where = append(where, fmt.Sprintf("company_id = $%d", len(args)))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + documentCols + ` FROM generated_documents`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.GeneratedDocument, 0)
	for rows.Next() {
		var d models.GeneratedDocument
		if err := rows.Scan(&d.ID, &d.DocType, &d.Title, &d.Content, &d.ModelUsed, &d.GenerationTime, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepo) Update(ctx context.Context, id int64, upd DocumentUpdate) (models.GeneratedDocument, error) {
	set := make([]string, 0, 3)
	args := []any{id}
	if upd.Title != nil {
		args = append(args, *upd.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Content != nil {
		args = append(args, *upd.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set = append(set, "updated_at = NOW()")

	var d models.GeneratedDocument
	err := r.db.Pool.QueryRow(ctx, `
UPDATE generated_documents
SET `+strings.Join(set, ", ")+`
WHERE id = $1
RETURNING `+documentCols, args...).
		Scan(&d.ID, &d.DocType, &d.Title, &d.Content, &d.ModelUsed, &d.GenerationTime, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.GeneratedDocument{}, fault.NotFound("GeneratedDocument", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return models.GeneratedDocument{}, fmt.Errorf("update document: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Pool.Exec(ctx, `DELETE FROM generated_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fault.NotFound("GeneratedDocument", strconv.FormatInt(id, 10))
	}
	return nil
}
