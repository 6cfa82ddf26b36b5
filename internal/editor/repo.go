package editor

import (
	"context"

	"github.com/angelmondragon/webtheme-backend/pkg/db/models"
	"github.com/angelmondragon/webtheme-backend/pkg/pagination"
	"gorm.io/gorm"
)

// revisionColumns is every column but the stored document.
var revisionColumns = []string{
	"id", "brand_id", "user_id", "kind", "revision", "base_revision",
	"issue_count", "byte_size", "created_at",
}

// Repository persists the history of saved theme revisions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, revision *models.ThemeRevision) error
	List(ctx context.Context, params listRevisionsParams) ([]models.ThemeRevision, *pagination.Cursor, error)
	Prune(ctx context.Context, brandID string, keep int) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a revision repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRevisionsParams struct {
	BrandID string
	Limit   int
	Cursor  *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, revision *models.ThemeRevision) error {
	return r.db.WithContext(ctx).Create(revision).Error
}

// List returns revisions newest first without their documents.
func (r *repositoryImpl) List(ctx context.Context, params listRevisionsParams) ([]models.ThemeRevision, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.ThemeRevision{}).
		Select(revisionColumns).
		Where("brand_id = ?", params.BrandID)
	if params.Cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.ThemeRevision
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized-1]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// Prune deletes all but the newest keep revisions of a brand.
func (r *repositoryImpl) Prune(ctx context.Context, brandID string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Exec(`
DELETE FROM theme_revisions
WHERE brand_id = ?
  AND id NOT IN (
    SELECT id FROM theme_revisions
    WHERE brand_id = ?
    ORDER BY created_at DESC, id DESC
    LIMIT ?
  )`, brandID, brandID, keep)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
