package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "dispend/internal/errors"
	"dispend/internal/models"
	"dispend/internal/patch"

	"gorm.io/gorm"
)

// timestamp returns the current time in the stored timestamp format.
func timestamp() string {
	return models.Timestamp(time.Now())
}

// lookupError maps a failed single-row read to notFound or an internal error.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// rereadError maps a failed read-back after a write. A missing row there
// means the store lost a write it just acknowledged.
func rereadError(err error, missing *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(missing, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// setIfPresent copies a non-nullable patch field into updates. An explicit
// null or a blank string is rejected.
func setIfPresent[T any](updates map[string]any, column string, f patch.Field[T]) error {
	if !f.Set {
		return nil
	}
	if f.Null {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s cannot be null", column))
	}
	if isBlank(f.Value) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s cannot be empty", column))
	}
	updates[column] = f.Value
	return nil
}

// setNullable copies a nullable patch field into updates. Null clears the
// column; a blank string is rejected.
func setNullable[T any](updates map[string]any, column string, f patch.Field[T]) error {
	if !f.Set {
		return nil
	}
	if !f.Null && isBlank(f.Value) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s cannot be empty, send null to clear it", column))
	}
	updates[column] = f.Column()
	return nil
}

// rejectBlank fails when an optional string was supplied but is blank.
func rejectBlank(column string, v *string) error {
	if v != nil && isBlank(*v) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s cannot be empty", column))
	}
	return nil
}

// isBlank reports whether v is a string holding nothing but whitespace.
// Values of other types are never blank.
func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// checkAmountSign enforces that expenses are outflows and income is inflow.
// Transfers may carry either sign.
func checkAmountSign(txType models.TransactionType, amount float64) error {
	switch txType {
	case models.TransactionTypeExpense:
		if amount > 0 {
			return apperrors.ErrAmountSignMismatch
		}
	case models.TransactionTypeIncome:
		if amount < 0 {
			return apperrors.ErrAmountSignMismatch
		}
	}
	return nil
}
