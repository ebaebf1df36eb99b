package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "dispend/internal/errors"
	"dispend/internal/models"
	"dispend/internal/pagination"
	"dispend/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// ListTransactionsQuery holds the query parameters accepted by ListTransactions.
// An empty parameter is treated as absent.
type ListTransactionsQuery struct {
	pagination.ListRequest
	AccountID  string `form:"accountId"`
	CategoryID string `form:"categoryId"`
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	Status     string `form:"status" binding:"omitempty,transaction_status"`
	StartDate  string `form:"startDate" binding:"omitempty,iso_date"`
	EndDate    string `form:"endDate" binding:"omitempty,iso_date"`
	Search     string `form:"search" binding:"omitempty,max=200"`
	MinAmount  string `form:"minAmount" binding:"omitempty,numeric"`
	MaxAmount  string `form:"maxAmount" binding:"omitempty,numeric"`
}

// filter converts the query into a service filter.
func (q ListTransactionsQuery) filter() (services.TransactionFilter, error) {
	f := services.TransactionFilter{
		AccountID:  optional(q.AccountID),
		CategoryID: optional(q.CategoryID),
		StartDate:  optional(q.StartDate),
		EndDate:    optional(q.EndDate),
		Search:     optional(q.Search),
	}
	if q.Type != "" {
		t := models.TransactionType(q.Type)
		f.Type = &t
	}
	if q.Status != "" {
		s := models.TransactionStatus(q.Status)
		f.Status = &s
	}
	var err error
	if f.MinAmount, err = optionalAmount("minAmount", q.MinAmount); err != nil {
		return f, err
	}
	if f.MaxAmount, err = optionalAmount("maxAmount", q.MaxAmount); err != nil {
		return f, err
	}
	return f, nil
}

// optional maps an empty query value to nil.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalAmount(name, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s must be a number", name))
	}
	return &amount, nil
}

// BulkDeleteRequest represents the request payload for deleting many transactions.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,max=1000,dive,required"`
}

// BulkDeleteResponse reports how many transactions were removed.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// ListTransactions handles filtered, paged transaction listing.
// @Summary     List transactions
// @Description Newest first. total counts every match regardless of limit and offset.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       accountId  query string false "Account ID"
// @Param       categoryId query string false "Category ID"
// @Param       type       query string false "expense, income or transfer"
// @Param       status     query string false "cleared, pending or reconciled"
// @Param       startDate  query string false "Earliest date (YYYY-MM-DD, inclusive)"
// @Param       endDate    query string false "Latest date (YYYY-MM-DD, inclusive)"
// @Param       search     query string false "Description substring, case sensitivity per store collation"
// @Param       minAmount  query number false "Minimum signed amount"
// @Param       maxAmount  query number false "Maximum signed amount"
// @Param       limit      query int    false "Page size (default 50, max 500)"
// @Param       offset     query int    false "Rows to skip"
// @Success     200 {object} pagination.ListResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter, err := q.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(filter, q.ListRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving a specific transaction.
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]models.Transaction "Transaction details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// CreateTransaction handles recording a new transaction.
// @Summary     Create transaction
// @Description Expenses carry a zero or negative amount and income a zero or positive amount.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateTransactionInput true "Transaction details"
// @Success     201 {object} map[string]models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or sign mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req services.CreateTransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	tx, err := h.transactionService.CreateTransaction(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// UpdateTransaction handles a partial transaction update.
// @Summary     Update transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                         true "Transaction ID"
// @Param       request body services.UpdateTransactionInput true "Fields to change"
// @Success     200 {object} map[string]models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or sign mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.UpdateTransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	tx, err := h.transactionService.UpdateTransaction(transactionID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles deleting a single transaction.
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditActionDeleteTransaction, "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// BulkDeleteTransactions handles deleting many transactions at once.
// @Summary     Bulk delete transactions
// @Description Unknown ids are ignored. The response counts rows actually removed.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkDeleteRequest true "Transaction IDs"
// @Success     200 {object} BulkDeleteResponse "Rows deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/bulk-delete [post]
func (h *TransactionHandler) BulkDeleteTransactions(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	deleted, err := h.transactionService.BulkDeleteTransactions(req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if deleted > 0 {
		h.auditService.Log(services.AuditActionBulkDelete, "transaction", "", c.ClientIP(),
			map[string]any{"requested": len(req.IDs), "deleted": deleted})
	}

	c.JSON(http.StatusOK, BulkDeleteResponse{Deleted: deleted})
}
