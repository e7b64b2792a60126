package repository

import (
	"context"
	"strings"

	"github.com/acadwear/faculty-wear-api/internal/model"
	"gorm.io/gorm"
)

type WearRepository interface {
	// List returns one page of items sorted by display order ascending,
	// plus the total count matching the search filter. An empty search
	// matches everything.
	List(ctx context.Context, search string, limit, offset int) ([]model.FacultyWear, int64, error)
	FindByID(ctx context.Context, id uint64) (*model.FacultyWear, error)
	Create(ctx context.Context, wear *model.FacultyWear) error
	Update(ctx context.Context, wear *model.FacultyWear) error
	// Delete reports how many rows were removed.
	Delete(ctx context.Context, id uint64) (int64, error)
}

type wearRepository struct {
	db *gorm.DB
}

func NewWearRepository(db *gorm.DB) WearRepository {
	return &wearRepository{db: db}
}

func (r *wearRepository) scoped(ctx context.Context, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.FacultyWear{})
	if search = strings.TrimSpace(search); search != "" {
		// LOWER on both sides so matching stays case-insensitive
		// regardless of column collation.
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(badge_text) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return q
}

func (r *wearRepository) List(ctx context.Context, search string, limit, offset int) ([]model.FacultyWear, int64, error) {
	var (
		wears []model.FacultyWear
		total int64
	)
	if err := r.scoped(ctx, search).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.scoped(ctx, search).
		Order("display_order asc").
		Limit(limit).
		Offset(offset).
		Find(&wears).Error; err != nil {
		return nil, 0, err
	}
	return wears, total, nil
}

func (r *wearRepository) FindByID(ctx context.Context, id uint64) (*model.FacultyWear, error) {
	var wear model.FacultyWear
	if err := r.db.WithContext(ctx).First(&wear, id).Error; err != nil {
		return nil, err
	}
	return &wear, nil
}

func (r *wearRepository) Create(ctx context.Context, wear *model.FacultyWear) error {
	return r.db.WithContext(ctx).Create(wear).Error
}

func (r *wearRepository) Update(ctx context.Context, wear *model.FacultyWear) error {
	return r.db.WithContext(ctx).Save(wear).Error
}

func (r *wearRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.FacultyWear{}, id)
	return res.RowsAffected, res.Error
}
