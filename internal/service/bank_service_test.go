package service

import (
	"context"
	"testing"

	"gruas-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBankFixture(t *testing.T) (BankService, *fakeAccountRepo, *fakeTxnRepo, model.BankAccount) {
	t.Helper()

	accountRepo := newFakeAccountRepo()
	txnRepo := &fakeTxnRepo{}
	auditRepo := &fakeAuditRepo{}

	account := model.BankAccount{
		ID:             uuid.New(),
		Bank:           "Itaú",
		Branch:         "0001",
		Number:         "12345-6",
		Kind:           model.AccountChecking,
		CurrentBalance: decimal.NewFromInt(500),
		Status:         model.AccountActive,
	}
	accountRepo.accounts[account.ID] = account

	svc := NewBankService(accountRepo, txnRepo, auditRepo, &fakeTxManager{})
	return svc, accountRepo, txnRepo, account
}

func TestPostTransactionCreditAdjustsBalance(t *testing.T) {
	svc, accountRepo, txnRepo, account := newBankFixture(t)

	resp, err := svc.PostTransaction(context.Background(), "", PostTransactionRequest{
		AccountID:   account.ID.String(),
		Kind:        model.TransactionCredit,
		Amount:      "250.50",
		Description: "Medição MED-202603-001",
		Reference:   "MED-202603-001",
		Date:        "2026-03-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "250.50", resp.Amount)
	assert.Equal(t, "2026-03-31", resp.Date)
	require.Len(t, txnRepo.txns, 1)

	balance := accountRepo.accounts[account.ID].CurrentBalance
	assert.Equal(t, "750.5", balance.String())
}

func TestPostTransactionDebitRequiresFunds(t *testing.T) {
	svc, accountRepo, txnRepo, account := newBankFixture(t)
	ctx := context.Background()

	_, err := svc.PostTransaction(ctx, "", PostTransactionRequest{
		AccountID:   account.ID.String(),
		Kind:        model.TransactionDebit,
		Amount:      "600",
		Description: "manutenção",
	})
	require.Error(t, err)
	assert.Empty(t, txnRepo.txns)
	assert.Equal(t, "500", accountRepo.accounts[account.ID].CurrentBalance.String())

	resp, err := svc.PostTransaction(ctx, "", PostTransactionRequest{
		AccountID:   account.ID.String(),
		Kind:        model.TransactionDebit,
		Amount:      "200",
		Description: "manutenção",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionDebit, resp.Kind)
	assert.Equal(t, "300", accountRepo.accounts[account.ID].CurrentBalance.String())
}

func TestPostTransactionValidation(t *testing.T) {
	svc, _, _, account := newBankFixture(t)
	ctx := context.Background()

	_, err := svc.PostTransaction(ctx, "", PostTransactionRequest{
		AccountID:   account.ID.String(),
		Kind:        model.TransactionCredit,
		Amount:      "0",
		Description: "x",
	})
	assert.Error(t, err)

	_, err = svc.PostTransaction(ctx, "", PostTransactionRequest{
		AccountID:   uuid.NewString(),
		Kind:        model.TransactionCredit,
		Amount:      "10",
		Description: "x",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostTransactionRejectsInactiveAccount(t *testing.T) {
	svc, accountRepo, _, account := newBankFixture(t)

	blocked := accountRepo.accounts[account.ID]
	blocked.Status = model.AccountBlocked
	accountRepo.accounts[account.ID] = blocked

	_, err := svc.PostTransaction(context.Background(), "", PostTransactionRequest{
		AccountID:   account.ID.String(),
		Kind:        model.TransactionCredit,
		Amount:      "10",
		Description: "x",
	})
	assert.Error(t, err)
}

func TestDeleteAccountRequiresZeroBalance(t *testing.T) {
	svc, accountRepo, _, account := newBankFixture(t)
	ctx := context.Background()

	err := svc.DeleteAccount(ctx, account.ID.String())
	require.Error(t, err)

	zeroed := accountRepo.accounts[account.ID]
	zeroed.CurrentBalance = decimal.Zero
	accountRepo.accounts[account.ID] = zeroed

	err = svc.DeleteAccount(ctx, account.ID.String())
	assert.NoError(t, err)
}
