package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "dispend/internal/errors"
	"dispend/internal/logger"
	"dispend/internal/models"
	"dispend/internal/pagination"
)

// Newest first. created_at breaks ties between same-day entries and id
// breaks ties between rows written in the same millisecond.
const transactionOrder = "transactions.date DESC, transactions.created_at DESC, transactions.id DESC"

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// withDisplayNames selects transactions together with the names of their
// account and category.
func withDisplayNames(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Transaction{}).
		Select("transactions.*, accounts.name AS account_name, categories.name AS category_name").
		Joins("LEFT JOIN accounts ON accounts.id = transactions.account_id").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
}

// filterScope returns a GORM scope that ANDs together every predicate set on f.
func filterScope(f TransactionFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.AccountID != nil {
			db = db.Where("transactions.account_id = ?", *f.AccountID)
		}
		if f.CategoryID != nil {
			db = db.Where("transactions.category_id = ?", *f.CategoryID)
		}
		if f.Type != nil {
			db = db.Where("transactions.type = ?", *f.Type)
		}
		if f.Status != nil {
			db = db.Where("transactions.status = ?", *f.Status)
		}
		if f.StartDate != nil {
			db = db.Where("transactions.date >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			db = db.Where("transactions.date <= ?", *f.EndDate)
		}
		if f.Search != nil && *f.Search != "" {
			db = db.Where(`transactions.description LIKE ? ESCAPE '\'`, "%"+escapeLike(*f.Search)+"%")
		}
		if f.MinAmount != nil {
			db = db.Where("transactions.amount >= ?", *f.MinAmount)
		}
		if f.MaxAmount != nil {
			db = db.Where("transactions.amount <= ?", *f.MaxAmount)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListTransactions returns one page of matching transactions together with
// the number of matches before paging. Both queries run in one read
// transaction so the total and the page agree.
func (s *transactionService) ListTransactions(filter TransactionFilter, page pagination.ListRequest) (*pagination.ListResponse[models.Transaction], error) {
	page.Normalize()

	var total int64
	var rows []models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).Scopes(filterScope(filter)).Count(&total).Error; err != nil {
			return err
		}
		return withDisplayNames(tx).
			Scopes(filterScope(filter), pagination.Paginate(page)).
			Order(transactionOrder).
			Find(&rows).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewListResponse(rows, total)
	return &result, nil
}

// GetTransaction retrieves a transaction by ID with its display names.
func (s *transactionService) GetTransaction(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := withDisplayNames(s.db).Where("transactions.id = ?", id).Take(&tx).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrTransactionNotFound)
	}
	return &tx, nil
}

// CreateTransaction records a new transaction and returns the stored row.
func (s *transactionService) CreateTransaction(input CreateTransactionInput) (*models.Transaction, error) {
	if isBlank(input.Description) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if err := firstError(
		rejectBlank("categoryId", input.CategoryID),
		rejectBlank("originalDescription", input.OriginalDescription),
		rejectBlank("notes", input.Notes),
		rejectBlank("recurringId", input.RecurringID),
	); err != nil {
		return nil, err
	}
	if err := checkAmountSign(input.Type, input.Amount); err != nil {
		return nil, err
	}

	account, err := s.getAccount(input.AccountID)
	if err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := timestamp()
	tx := &models.Transaction{
		Base:                models.Base{CreatedAt: now},
		AccountID:           input.AccountID,
		CategoryID:          input.CategoryID,
		Date:                input.Date,
		Amount:              input.Amount,
		Description:         input.Description,
		OriginalDescription: input.OriginalDescription,
		Notes:               input.Notes,
		Type:                input.Type,
		Status:              input.Status,
		Currency:            input.Currency,
		IsRecurring:         input.IsRecurring,
		RecurringID:         input.RecurringID,
		Tags:                models.Tags(input.Tags),
		ExcludeFromBudget:   input.ExcludeFromBudget,
		UpdatedAt:           now,
	}
	if tx.Status == "" {
		tx.Status = models.TransactionStatusCleared
	}
	if tx.Currency == "" {
		tx.Currency = account.Currency
	}
	if tx.Tags == nil {
		tx.Tags = models.Tags{}
	}

	if err := s.db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created, err := s.GetTransaction(tx.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return nil, apperrors.ErrCreationFailed
		}
		return nil, err
	}
	return created, nil
}

// UpdateTransaction applies a sparse update and returns the stored row. The
// sign rule is checked against the merged type and amount.
func (s *transactionService) UpdateTransaction(id string, input UpdateTransactionInput) (*models.Transaction, error) {
	existing, err := s.GetTransaction(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": timestamp()}
	if err := firstError(
		setIfPresent(updates, "account_id", input.AccountID),
		setIfPresent(updates, "date", input.Date),
		setIfPresent(updates, "amount", input.Amount),
		setIfPresent(updates, "description", input.Description),
		setIfPresent(updates, "type", input.Type),
		setIfPresent(updates, "status", input.Status),
		setIfPresent(updates, "exclude_from_budget", input.ExcludeFromBudget),
		setNullable(updates, "category_id", input.CategoryID),
		setNullable(updates, "notes", input.Notes),
	); err != nil {
		return nil, err
	}
	if input.Tags.Set {
		updates["tags"] = models.Tags(input.Tags.Value)
	}

	mergedType, mergedAmount := existing.Type, existing.Amount
	if input.Type.HasValue() {
		mergedType = models.TransactionType(input.Type.Value)
	}
	if input.Amount.HasValue() {
		mergedAmount = input.Amount.Value
	}
	if err := checkAmountSign(mergedType, mergedAmount); err != nil {
		return nil, err
	}

	if input.AccountID.HasValue() {
		if _, err := s.getAccount(input.AccountID.Value); err != nil {
			return nil, err
		}
	}
	if input.CategoryID.HasValue() {
		if err := s.checkCategory(input.CategoryID.Value); err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&models.Transaction{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var updated models.Transaction
	if err := withDisplayNames(s.db).Where("transactions.id = ?", id).Take(&updated).Error; err != nil {
		return nil, rereadError(err, apperrors.ErrConsistency)
	}
	return &updated, nil
}

// DeleteTransaction deletes a single transaction.
func (s *transactionService) DeleteTransaction(id string) error {
	var tx models.Transaction
	if err := s.db.Select("id").Where("id = ?", id).Take(&tx).Error; err != nil {
		return lookupError(err, apperrors.ErrTransactionNotFound)
	}
	if err := s.db.Where("id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// BulkDeleteTransactions deletes every listed transaction in one statement.
// Unknown ids are ignored. An empty list returns without touching the store.
func (s *transactionService) BulkDeleteTransactions(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := s.db.Where("id IN ?", ids).Delete(&models.Transaction{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	logger.Get().Infow("Transactions bulk deleted", "requested", len(ids), "deleted", result.RowsAffected)
	return result.RowsAffected, nil
}

func (s *transactionService) getAccount(id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", id).Take(&account).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

func (s *transactionService) checkCategory(id string) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
