package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "dispend/internal/errors"
	"dispend/internal/logger"
	"dispend/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns all categories ordered by sort order, then name.
func (s *categoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("sort_order ASC, name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryTree assembles the category hierarchy from a fresh read.
func (s *categoryService) GetCategoryTree() ([]*CategoryNode, error) {
	categories, err := s.ListCategories()
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}

// GetCategory retrieves a category by ID.
func (s *categoryService) GetCategory(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// CreateCategory creates a new user category. User categories are never
// system categories.
func (s *categoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	if isBlank(input.Name) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if err := firstError(
		rejectBlank("icon", input.Icon),
		rejectBlank("color", input.Color),
		rejectBlank("parentId", input.ParentID),
	); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := s.getParent(*input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Base:     models.Base{CreatedAt: timestamp()},
		Name:     input.Name,
		Icon:     input.Icon,
		Color:    input.Color,
		ParentID: input.ParentID,
		Type:     input.Type,
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created, err := s.GetCategory(category.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, apperrors.ErrCreationFailed
		}
		return nil, err
	}
	return created, nil
}

// UpdateCategory applies a sparse update. System categories keep their name;
// every other field, including the parent, stays editable.
func (s *categoryService) UpdateCategory(id string, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if category.IsSystem && input.Name.Set && (input.Name.Null || input.Name.Value != category.Name) {
		return nil, apperrors.WithMessage(apperrors.ErrProtectedCategory, "system categories cannot be renamed")
	}

	updates := map[string]any{}
	if err := firstError(
		setIfPresent(updates, "name", input.Name),
		setIfPresent(updates, "sort_order", input.SortOrder),
		setNullable(updates, "icon", input.Icon),
		setNullable(updates, "color", input.Color),
		setNullable(updates, "parent_id", input.ParentID),
	); err != nil {
		return nil, err
	}

	if input.ParentID.HasValue() {
		if err := s.checkReparent(id, input.ParentID.Value); err != nil {
			return nil, err
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	var updated models.Category
	if err := s.db.Where("id = ?", id).First(&updated).Error; err != nil {
		return nil, rereadError(err, apperrors.ErrConsistency)
	}
	return &updated, nil
}

// DeleteCategory deletes a user category. The store's referential actions
// then promote its children to roots, clear the category on its
// transactions and delete its budgets.
func (s *categoryService) DeleteCategory(id string) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return apperrors.WithMessage(apperrors.ErrProtectedCategory, "system categories cannot be deleted")
	}

	var children, budgets int64
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Budget{}).Where("category_id = ?", id).Count(&budgets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Where("id = ?", id).Delete(&models.Category{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("Category deleted",
		"category_id", id,
		"promoted_children", children,
		"deleted_budgets", budgets,
	)
	return nil
}

func (s *categoryService) getParent(parentID string) (*models.Category, error) {
	parent, err := s.GetCategory(parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
		}
		return nil, err
	}
	return parent, nil
}

// checkReparent rejects a new parent that is the category itself, does not
// exist, or sits below the category in the tree.
func (s *categoryService) checkReparent(id, parentID string) error {
	if parentID == id {
		return apperrors.ErrSelfParentCategory
	}
	if _, err := s.getParent(parentID); err != nil {
		return err
	}

	var all []models.Category
	if err := s.db.Select("id", "parent_id").Find(&all).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if wouldCycle(all, id, parentID) {
		return apperrors.ErrCategoryCycle
	}
	return nil
}
