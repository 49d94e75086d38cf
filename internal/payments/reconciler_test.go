package payments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/mailer"
	"github.com/nuturl/nuturl/internal/payments"
	"github.com/nuturl/nuturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	payments map[string]*payments.Payment
	err      error
}

func (f *fakeProvider) PaymentByID(_ context.Context, id string) (*payments.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.payments[id], nil
}

func (f *fakeProvider) CreateCheckout(_ context.Context, _ payments.CheckoutRequest) (string, error) {
	return "", errors.New("not implemented")
}

type emailRecorder struct {
	sent []*mailer.EmailRequestedEvent
	err  error
}

func (r *emailRecorder) publish(event *mailer.EmailRequestedEvent) error {
	r.sent = append(r.sent, event)

	return r.err
}

func TestReconciler_Handle(t *testing.T) {
	ctx := context.Background()

	newAccounts := func(t *testing.T) *store.MemoryAccountStore {
		t.Helper()

		accounts := store.NewMemoryAccountStore()
		err := accounts.Create(ctx, &account.Account{
			ID:    "acct-1",
			Email: "payer@example.com",
			Tier:  account.TierFree,
		})
		require.NoError(t, err)

		return accounts
	}

	t.Run("approved payment promotes the referenced account and queues an email", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{payments: map[string]*payments.Payment{
			"pay-1": {ID: "pay-1", Status: payments.StatusApproved, ExternalReference: "acct-1"},
		}}
		emails := &emailRecorder{}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		err := reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"})

		require.NoError(t, err)

		acct, err := accounts.GetByID(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, account.TierPremium, acct.Tier)

		require.Len(t, emails.sent, 1)
		assert.Equal(t, "payer@example.com", emails.sent[0].To)
	})

	t.Run("redelivery of an approved payment sends no second email", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{payments: map[string]*payments.Payment{
			"pay-1": {ID: "pay-1", Status: payments.StatusApproved, ExternalReference: "acct-1"},
		}}
		emails := &emailRecorder{}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		require.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))
		require.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))

		assert.Len(t, emails.sent, 1)
	})

	t.Run("non-approved statuses are ignored", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{payments: map[string]*payments.Payment{
			"pay-1": {ID: "pay-1", Status: "pending", ExternalReference: "acct-1"},
		}}
		emails := &emailRecorder{}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		require.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))

		acct, err := accounts.GetByID(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, account.TierFree, acct.Tier)
		assert.Empty(t, emails.sent)
	})

	t.Run("provider failures drop the event without error", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{err: payments.ErrUpstreamUnavailable}
		emails := &emailRecorder{}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		assert.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))
		assert.Empty(t, emails.sent)
	})

	t.Run("unknown account references are dropped", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{payments: map[string]*payments.Payment{
			"pay-1": {ID: "pay-1", Status: payments.StatusApproved, ExternalReference: "ghost"},
		}}
		emails := &emailRecorder{}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		assert.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))
		assert.Empty(t, emails.sent)
	})

	t.Run("missing external reference is dropped", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{payments: map[string]*payments.Payment{
			"pay-1": {ID: "pay-1", Status: payments.StatusApproved},
		}}
		emails := &emailRecorder{}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		assert.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))
		assert.Empty(t, emails.sent)
	})

	t.Run("email publish failure does not fail the promotion", func(t *testing.T) {
		accounts := newAccounts(t)
		provider := &fakeProvider{payments: map[string]*payments.Payment{
			"pay-1": {ID: "pay-1", Status: payments.StatusApproved, ExternalReference: "acct-1"},
		}}
		emails := &emailRecorder{err: errors.New("broker down")}
		reconciler := payments.NewReconciler(provider, accounts, emails.publish, zap.NewNop())

		require.NoError(t, reconciler.Handle(ctx, &payments.NotificationEvent{PaymentID: "pay-1"}))

		acct, err := accounts.GetByID(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, account.TierPremium, acct.Tier)
	})
}
