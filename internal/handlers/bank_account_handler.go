package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "dompet/internal/errors"
	"dompet/internal/services"
)

// BankAccountHandler handles bank account requests.
type BankAccountHandler struct {
	bankAccountService services.BankAccountServicer
	auditService       services.AuditServicer
	invalidator        Invalidator
}

// NewBankAccountHandler creates a new BankAccountHandler.
func NewBankAccountHandler(bankAccountService services.BankAccountServicer, auditService services.AuditServicer, invalidator Invalidator) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService, auditService: auditService, invalidator: invalidator}
}

// CreateBankAccountRequest represents the request payload for creating a bank account.
type CreateBankAccountRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	BankName      string          `json:"bank_name" binding:"required,max=100"`
	AccountNumber string          `json:"account_number" binding:"max=50"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string" example:"2500000"`
}

// UpdateBankAccountRequest represents the request payload for updating a bank account.
type UpdateBankAccountRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=100"`
	BankName      *string          `json:"bank_name" binding:"omitempty,max=100"`
	AccountNumber *string          `json:"account_number" binding:"omitempty,max=50"`
	Balance       *decimal.Decimal `json:"balance" swaggertype:"string"`
}

// CreateBankAccount handles the creation of a bank account
// @Summary     Create a bank account
// @Description Register a bank account. Its balance is maintained by the user.
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBankAccountRequest true "Bank account details"
// @Success     201 {object} models.BankAccount "Bank account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank-accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), userID, services.BankAccountInput{
		Name:          req.Name,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Balance:       req.Balance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_BANK_ACCOUNT", "bank_account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": account.Name, "bank_name": account.BankName})
	h.invalidator.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusCreated, gin.H{"bank_account": account})
}

// GetBankAccounts handles listing the user's bank accounts
// @Summary     List bank accounts
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.BankAccount "Bank accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank-accounts [get]
func (h *BankAccountHandler) GetBankAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.bankAccountService.ListBankAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_accounts": accounts})
}

// GetBankAccountByID handles the retrieval of one bank account
// @Summary     Get bank account by ID
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank account ID"
// @Success     200 {object} models.BankAccount "Bank account"
// @Failure     400 {object} ErrorResponse "Invalid bank account ID"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [get]
func (h *BankAccountHandler) GetBankAccountByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.bankAccountService.GetBankAccountByID(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// UpdateBankAccount handles updating a bank account
// @Summary     Update bank account
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Bank account ID"
// @Param       request body UpdateBankAccountRequest true "Fields to update"
// @Success     200 {object} models.BankAccount "Updated bank account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [put]
func (h *BankAccountHandler) UpdateBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.UpdateBankAccount(c.Request.Context(), userID, accountID, services.BankAccountUpdateFields{
		Name:          req.Name,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Balance:       req.Balance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_BANK_ACCOUNT", "bank_account", accountID, c.ClientIP(), nil)
	h.invalidator.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// DeleteBankAccount handles deleting a bank account
// @Summary     Delete bank account
// @Description Permanently delete a bank account. Its transactions are reported under the cash fallback afterwards.
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank account ID"
// @Success     200 {object} map[string]string "Bank account deleted"
// @Failure     400 {object} ErrorResponse "Invalid bank account ID"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [delete]
func (h *BankAccountHandler) DeleteBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bankAccountService.DeleteBankAccount(c.Request.Context(), userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_BANK_ACCOUNT", "bank_account", accountID, c.ClientIP(), nil)
	h.invalidator.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Bank account deleted"})
}
