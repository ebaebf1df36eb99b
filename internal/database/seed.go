package database

import (
	_ "embed"
	"fmt"
	"time"

	"dispend/internal/logger"
	"dispend/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed default_categories.yaml
var defaultCategoriesYAML []byte

// SeedCategory is one node of the default category tree.
type SeedCategory struct {
	Name     string              `yaml:"name"`
	Icon     string              `yaml:"icon"`
	Color    string              `yaml:"color"`
	Type     models.CategoryType `yaml:"type"`
	Children []SeedCategory      `yaml:"children"`
}

// DefaultCategories parses the embedded default category tree.
func DefaultCategories() ([]SeedCategory, error) {
	var tree []SeedCategory
	if err := yaml.Unmarshal(defaultCategoriesYAML, &tree); err != nil {
		return nil, fmt.Errorf("parse default categories: %w", err)
	}
	for i, root := range tree {
		switch root.Type {
		case models.CategoryTypeExpense, models.CategoryTypeIncome, models.CategoryTypeTransfer:
		default:
			return nil, fmt.Errorf("default category %q has invalid type %q", root.Name, root.Type)
		}
		if root.Name == "" {
			return nil, fmt.Errorf("default category %d has no name", i)
		}
	}
	return tree, nil
}

// SeedCategories inserts the default category tree as system categories when
// the categories table is empty. The whole tree is written in one
// transaction. It returns the number of categories inserted.
func SeedCategories(db *gorm.DB) (int, error) {
	tree, err := DefaultCategories()
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := models.Timestamp(time.Now())
		for i, root := range tree {
			parent := seedRow(root, root.Type, nil, i, now)
			if err := tx.Create(&parent).Error; err != nil {
				return fmt.Errorf("insert %q: %w", root.Name, err)
			}
			inserted++

			for j, child := range root.Children {
				row := seedRow(child, root.Type, &parent.ID, j, now)
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert %q: %w", child.Name, err)
				}
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}

	if inserted > 0 {
		logger.Get().Infow("Seeded default categories", "count", inserted)
	}
	return inserted, nil
}

func seedRow(c SeedCategory, typ models.CategoryType, parentID *string, sortOrder int, now string) models.Category {
	row := models.Category{
		Base:      models.Base{CreatedAt: now},
		Name:      c.Name,
		ParentID:  parentID,
		Type:      typ,
		IsSystem:  true,
		SortOrder: sortOrder,
	}
	if c.Icon != "" {
		icon := c.Icon
		row.Icon = &icon
	}
	if c.Color != "" {
		color := c.Color
		row.Color = &color
	}
	return row
}
