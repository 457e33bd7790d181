package handler

import (
	"net/http"
	"strconv"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/pagination"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BankHandler struct {
	bankService service.BankService
}

func NewBankHandler(bankService service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

func (h *BankHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/api/bank/accounts")
	{
		accounts.GET("", middleware.RequirePermission("bank.read"), h.ListAccounts)
		accounts.GET("/:id", middleware.RequirePermission("bank.read"), h.GetAccount)
		accounts.POST("", middleware.RequirePermission("bank.write"), h.CreateAccount)
		accounts.PUT("/:id", middleware.RequirePermission("bank.write"), h.UpdateAccount)
		accounts.DELETE("/:id", middleware.RequirePermission("bank.write"), h.DeleteAccount)
	}

	transactions := router.Group("/api/bank/transactions")
	{
		transactions.GET("", middleware.RequirePermission("bank.read"), h.ListTransactions)
		transactions.POST("", middleware.RequirePermission("bank.write"), h.PostTransaction)
	}
}

// ListAccounts handles GET /api/bank/accounts
// @Summary      List bank accounts
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 10)"
// @Param        status  query     string  false  "Filter by status (active, blocked)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/bank/accounts [get]
func (h *BankHandler) ListAccounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	accounts, total, err := h.bankService.ListAccounts(c.Request.Context(), page, limit, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch accounts"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// GetAccount handles GET /api/bank/accounts/:id
// @Summary      Get bank account by ID
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  response.Response{data=service.BankAccountResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bank/accounts/{id} [get]
func (h *BankHandler) GetAccount(c *gin.Context) {
	account, err := h.bankService.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// CreateAccount handles POST /api/bank/accounts
// @Summary      Create bank account
// @Description  Registers a bank account with an opening balance
// @Tags         bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BankAccountRequest  true  "Account Payload"
// @Success      201      {object}  response.Response{data=service.BankAccountResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/bank/accounts [post]
func (h *BankHandler) CreateAccount(c *gin.Context) {
	var req service.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.bankService.CreateAccount(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
}

// UpdateAccount handles PUT /api/bank/accounts/:id
// @Summary      Update bank account
// @Description  Updates account metadata. Balances only move through transactions.
// @Tags         bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Account ID"
// @Param        payload  body      service.BankAccountRequest  true  "Account Payload"
// @Success      200      {object}  response.Response{data=service.BankAccountResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/bank/accounts/{id} [put]
func (h *BankHandler) UpdateAccount(c *gin.Context) {
	var req service.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.bankService.UpdateAccount(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// DeleteAccount handles DELETE /api/bank/accounts/:id
// @Summary      Delete bank account
// @Description  Removes a bank account. Only zero-balance accounts can be deleted.
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/bank/accounts/{id} [delete]
func (h *BankHandler) DeleteAccount(c *gin.Context) {
	if err := h.bankService.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Account deleted"))
}

// ListTransactions handles GET /api/bank/transactions with filters
// @Summary      List bank transactions
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Param        account_id  query     string  false  "Filter by account"
// @Param        kind        query     string  false  "Filter by kind (credit, debit)"
// @Param        from        query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to          query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/bank/transactions [get]
func (h *BankHandler) ListTransactions(c *gin.Context) {
	p := pagination.Parse(c)

	txns, total, err := h.bankService.ListTransactions(c.Request.Context(), p.Page, p.Limit,
		c.Query("account_id"), c.Query("kind"), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch transactions"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"total":        total,
		"page":         p.Page,
		"limit":        p.Limit,
	}))
}

// PostTransaction handles POST /api/bank/transactions
// @Summary      Post bank transaction
// @Description  Posts a credit or debit and adjusts the account balance atomically
// @Tags         bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PostTransactionRequest  true  "Transaction Payload"
// @Success      201      {object}  response.Response{data=service.BankTransactionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/bank/transactions [post]
func (h *BankHandler) PostTransaction(c *gin.Context) {
	var req service.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	txn, err := h.bankService.PostTransaction(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, txn))
}
