package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelier/backend/internal/domain/recipe"
	"github.com/atelier/backend/internal/domain/shared"
)

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByID finds a recipe revision with its items
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	if err := r.db.WithContext(ctx).Preload("Items").First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindActiveByProduct finds the product's active revision.
// shared.ErrInvalidRecipe when the product has no active recipe.
func (r *GormRecipeRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("product_id = ? AND is_active = ?", productID, true).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrInvalidRecipe
		}
		return nil, err
	}
	return &rec, nil
}

// FindAllByProduct finds every revision of the product, newest first
func (r *GormRecipeRepository) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]recipe.Recipe, error) {
	var recipes []recipe.Recipe
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("product_id = ?", productID).
		Order("revision DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindAll finds recipes matching the filter
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recipe.Recipe, error) {
	var recipes []recipe.Recipe
	query := r.applyFilter(r.db.WithContext(ctx).Model(&recipe.Recipe{}).Preload("Items"), filter)
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Count counts recipes matching the filter
func (r *GormRecipeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&recipe.Recipe{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxRevisionByProduct returns the highest stored revision for the product
func (r *GormRecipeRepository) MaxRevisionByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var revision int
	err := r.db.WithContext(ctx).Model(&recipe.Recipe{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(revision), 0)").
		Scan(&revision).Error
	if err != nil {
		return 0, err
	}
	return revision, nil
}

// Create inserts a new revision together with its items. Two concurrent
// saves read the same max revision and collide on the (product_id,
// revision) unique index; the loser surfaces as a concurrency conflict.
func (r *GormRecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// Save persists the revision's mutable fields
func (r *GormRecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).Omit("Items").Save(rec).Error
}

// DeactivateAllByProduct clears the active flag on every revision of the product
func (r *GormRecipeRepository) DeactivateAllByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&recipe.Recipe{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Update("is_active", false).Error
}

// applyFilter applies filter options including pagination
func (r *GormRecipeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	query = query.Order("created_at " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRecipeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// Ensure GormRecipeRepository implements RecipeRepository
var _ recipe.RecipeRepository = (*GormRecipeRepository)(nil)
