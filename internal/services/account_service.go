package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "dispend/internal/errors"
	"dispend/internal/logger"
	"dispend/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db              *gorm.DB
	defaultCurrency string
}

// NewAccountService creates a new AccountServicer. New accounts without a
// currency use defaultCurrency.
func NewAccountService(db *gorm.DB, defaultCurrency string) AccountServicer {
	return &accountService{db: db, defaultCurrency: defaultCurrency}
}

// ListAccounts returns all accounts ordered by sort order, then name.
func (s *accountService) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("sort_order ASC, name ASC, id ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccount retrieves an account by ID.
func (s *accountService) GetAccount(id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

// CreateAccount creates a new account and returns the stored row.
func (s *accountService) CreateAccount(input CreateAccountInput) (*models.Account, error) {
	if isBlank(input.Name) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if err := firstError(
		rejectBlank("institution", input.Institution),
		rejectBlank("notes", input.Notes),
		rejectBlank("color", input.Color),
	); err != nil {
		return nil, err
	}

	now := timestamp()
	account := &models.Account{
		Base:        models.Base{CreatedAt: now},
		Name:        input.Name,
		Type:        input.Type,
		Institution: input.Institution,
		Currency:    input.Currency,
		IsActive:    true,
		Notes:       input.Notes,
		Color:       input.Color,
		UpdatedAt:   now,
	}
	if account.Currency == "" {
		account.Currency = s.defaultCurrency
	}
	if input.CurrentBalance != nil {
		account.CurrentBalance = *input.CurrentBalance
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		account.SortOrder = *input.SortOrder
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created, err := s.GetAccount(account.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrCreationFailed
		}
		return nil, err
	}
	return created, nil
}

// UpdateAccount applies a sparse update and returns the stored row.
func (s *accountService) UpdateAccount(id string, input UpdateAccountInput) (*models.Account, error) {
	if _, err := s.GetAccount(id); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": timestamp()}
	if err := firstError(
		setIfPresent(updates, "name", input.Name),
		setIfPresent(updates, "type", input.Type),
		setIfPresent(updates, "currency", input.Currency),
		setIfPresent(updates, "current_balance", input.CurrentBalance),
		setIfPresent(updates, "is_active", input.IsActive),
		setIfPresent(updates, "sort_order", input.SortOrder),
		setNullable(updates, "institution", input.Institution),
		setNullable(updates, "notes", input.Notes),
		setNullable(updates, "color", input.Color),
	); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var updated models.Account
	if err := s.db.Where("id = ?", id).First(&updated).Error; err != nil {
		return nil, rereadError(err, apperrors.ErrConsistency)
	}
	return &updated, nil
}

// DeleteAccount deletes an account. Its transactions are removed by the
// store's ON DELETE CASCADE rule.
func (s *accountService) DeleteAccount(id string) error {
	if _, err := s.GetAccount(id); err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("account_id = ?", id).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Where("id = ?", id).Delete(&models.Account{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("Account deleted", "account_id", id, "cascaded_transactions", txCount)
	return nil
}
