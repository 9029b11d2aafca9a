package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

const companyProfileCols = `id, name, COALESCE(industry,''), COALESCE(size,''), COALESCE(location,''),
       COALESCE(website,''), COALESCE(description,''), COALESCE("values",''), COALESCE(logo_url,''),
       created_at, updated_at`

// CompanyProfileUpdate carries a partial update. Nil fields are left untouched;
// empty strings clear the column (except the required name).
type CompanyProfileUpdate struct {
	Name        *string
	Industry    *string
	Size        *string
	Location    *string
	Website     *string
	Description *string
	Values      *string
	LogoURL     *string
}

type CompanyRepo struct {
	db *DB
}

func NewCompanyRepo(db *DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Get returns the company profile. At most one row exists.
func (r *CompanyRepo) Get(ctx context.Context) (models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := r.db.Pool.QueryRow(ctx, `
SELECT `+companyProfileCols+`
FROM company_profiles
ORDER BY id
LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.Industry, &p.Size, &p.Location, &p.Website, &p.Description, &p.Values, &p.LogoURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CompanyProfile{}, fault.NotFound("CompanyProfile", "default")
	}
	if err != nil {
		return models.CompanyProfile{}, fmt.Errorf("get company profile: %w", err)
	}
	return p, nil
}

// GetIfExists is the lookup used when branding is optional: no profile is not
// an error, callers get a nil pointer.
func (r *CompanyRepo) GetIfExists(ctx context.Context) (*models.CompanyProfile, error) {
	p, err := r.Get(ctx)
	if err != nil {
		if f, ok := fault.As(err); ok && f.Kind == fault.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByID resolves a document's company association. A dangling id yields nil,
// the export still succeeds without branding.
func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := r.db.Pool.QueryRow(ctx, `
SELECT `+companyProfileCols+`
FROM company_profiles
WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Industry, &p.Size, &p.Location, &p.Website, &p.Description, &p.Values, &p.LogoURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company profile by id: %w", err)
	}
	return &p, nil
}

func (r *CompanyRepo) Create(ctx context.Context, p models.CompanyProfile) (models.CompanyProfile, error) {
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM company_profiles)`).Scan(&exists); err != nil {
		return models.CompanyProfile{}, fmt.Errorf("check company profile: %w", err)
	}
	if exists {
		return models.CompanyProfile{}, fault.Validation("Company profile already exists. Use PUT to update or DELETE first.")
	}

	var out models.CompanyProfile
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO company_profiles (name, industry, size, location, website, description, "values", logo_url)
VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''), NULLIF($8,''))
RETURNING `+companyProfileCols,
		p.Name, p.Industry, p.Size, p.Location, p.Website, p.Description, p.Values, p.LogoURL).
		Scan(&out.ID, &out.Name, &out.Industry, &out.Size, &out.Location, &out.Website, &out.Description, &out.Values, &out.LogoURL, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return models.CompanyProfile{}, fmt.Errorf("insert company profile: %w", err)
	}
	return out, nil
}

func (r *CompanyRepo) Update(ctx context.Context, upd CompanyProfileUpdate) (models.CompanyProfile, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return models.CompanyProfile{}, err
	}

	set := make([]string, 0, 9)
	args := []any{current.ID}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	optional := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		set = append(set, fmt.Sprintf("%s = NULLIF($%d,'')", col, len(args)))
	}
	optional("industry", upd.Industry)
	optional("size", upd.Size)
	optional("location", upd.Location)
	optional("website", upd.Website)
	optional("description", upd.Description)
	optional(`"values"`, upd.Values)
	optional("logo_url", upd.LogoURL)
	if len(set) == 0 {
		return current, nil
	}
	set = append(set, "updated_at = NOW()")

	var out models.CompanyProfile
	err = r.db.Pool.QueryRow(ctx, `
UPDATE company_profiles
SET `+strings.Join(set, ", ")+`
WHERE id = $1
RETURNING `+companyProfileCols, args...).
		Scan(&out.ID, &out.Name, &out.Industry, &out.Size, &out.Location, &out.Website, &out.Description, &out.Values, &out.LogoURL, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return models.CompanyProfile{}, fmt.Errorf("update company profile: %w", err)
	}
	return out, nil
}

func (r *CompanyRepo) Delete(ctx context.Context) error {
	ct, err := r.db.Pool.Exec(ctx, `DELETE FROM company_profiles`)
	if err != nil {
		return fmt.Errorf("delete company profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fault.NotFound("CompanyProfile", "default")
	}
	return nil
}
