package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(NewMemoryKV())

	_, err := store.Get(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)

	u := &model.User{ID: "u1", Name: "Ama", Email: "ama@example.com", CountryCode: "GH", Currency: "GHS"}
	require.NoError(t, store.Save(ctx, u))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestWalletStore_ApplyEntry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	wallets := NewWalletStore(kv)
	txns := NewTransactionStore(kv)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := wallets.Get(ctx, "u1")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, wallets.Create(ctx, &model.Wallet{ID: "w1", UserID: "u1", Currency: "USD", UpdatedAt: now}))

	deposit := &model.Transaction{ID: "t1", UserID: "u1", Amount: 100, Currency: "USD", Type: model.TypeDeposit, Status: model.StatusCompleted, CreatedAt: now, UpdatedAt: now}
	w, err := wallets.ApplyEntry(ctx, deposit, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, w.Balance)
	assert.Equal(t, []string{"t1"}, w.Transactions)

	t.Run("overdraft is rejected without writes", func(t *testing.T) {
		withdrawal := &model.Transaction{ID: "t2", UserID: "u1", Amount: 150, Currency: "USD", Type: model.TypeWithdrawal, CreatedAt: now, UpdatedAt: now}
		_, err := wallets.ApplyEntry(ctx, withdrawal, -150)
		assert.ErrorIs(t, err, model.ErrInsufficientFunds)

		stored, err := wallets.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 100.0, stored.Balance)

		list, err := txns.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("wallet and ledger move together", func(t *testing.T) {
		later := now.Add(time.Minute)
		withdrawal := &model.Transaction{ID: "t3", UserID: "u1", Amount: 40, Currency: "USD", Type: model.TypeWithdrawal, CreatedAt: later, UpdatedAt: later}
		w, err := wallets.ApplyEntry(ctx, withdrawal, -40)
		require.NoError(t, err)
		assert.Equal(t, 60.0, w.Balance)
		assert.Equal(t, later, w.UpdatedAt)

		list, err := txns.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "t3", list[1].ID)
	})

	t.Run("related records share the write", func(t *testing.T) {
		later := now.Add(2 * time.Minute)
		withdrawal := &model.Transaction{ID: "t4", UserID: "u1", Amount: 20, Currency: "USD", Type: model.TypeWithdrawal, CreatedAt: later, UpdatedAt: later}
		payment := &model.Transaction{ID: "t5", UserID: "u1", Amount: 20, Currency: "USD", Type: model.TypePayment, CreatedAt: later, UpdatedAt: later}
		commission := &model.Transaction{ID: "t6", UserID: "u1", Amount: 1, Currency: "USD", Type: model.TypeCommission, CreatedAt: later, UpdatedAt: later}
		w, err := wallets.ApplyEntry(ctx, withdrawal, -20, payment, commission)
		require.NoError(t, err)
		assert.Equal(t, 40.0, w.Balance)
		assert.Equal(t, []string{"t1", "t3", "t4"}, w.Transactions)

		list, err := txns.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, []string{"t4", "t5", "t6"}, []string{list[2].ID, list[3].ID, list[4].ID})

		overdraft := &model.Transaction{ID: "t7", UserID: "u1", Amount: 500, Currency: "USD", Type: model.TypeWithdrawal, CreatedAt: later, UpdatedAt: later}
		orphan := &model.Transaction{ID: "t8", UserID: "u1", Amount: 500, Currency: "USD", Type: model.TypePayment, CreatedAt: later, UpdatedAt: later}
		_, err = wallets.ApplyEntry(ctx, overdraft, -500, orphan)
		assert.ErrorIs(t, err, model.ErrInsufficientFunds)

		list, err = txns.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 5)
	})
}

func TestTransactionStore(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(NewMemoryKV())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fee := 5.0

	payment := &model.Transaction{
		ID: "p1", UserID: "u1", ServiceID: "svc_9", Amount: 100, Currency: "USD",
		Status: model.StatusPending, Type: model.TypePayment, PaymentMethodID: "pm1",
		Description: "Calculus session", PlatformFee: &fee, CreatedAt: now, UpdatedAt: now,
		Sender: "u1", Recipient: "tutor_1", Reference: "TXN-1", CorrelationID: "c1",
	}
	commission := &model.Transaction{ID: "c1x", UserID: "u1", Amount: 5, Currency: "USD", Status: model.StatusCompleted, Type: model.TypeCommission, CorrelationID: "c1", CreatedAt: now, UpdatedAt: now}
	other := &model.Transaction{ID: "o1", UserID: "u2", Amount: 1, Currency: "USD", Type: model.TypeDeposit, CreatedAt: now, UpdatedAt: now}

	require.NoError(t, store.Insert(ctx, payment, commission, other))

	t.Run("all fields round-trip", func(t *testing.T) {
		got, err := store.FindByID(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.Equal(t, payment, got)
	})

	t.Run("lists are namespaced per user", func(t *testing.T) {
		u1, err := store.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, u1, 2)

		u2, err := store.ListByUser(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, u2, 1)

		_, err = store.FindByID(ctx, "u2", "p1")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("status update", func(t *testing.T) {
		updated := *payment
		updated.Status = model.StatusCompleted
		updated.UpdatedAt = now.Add(time.Second)
		require.NoError(t, store.UpdateStatus(ctx, &updated))

		got, err := store.FindByID(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, got.Status)
		assert.Equal(t, now.Add(time.Second), got.UpdatedAt)
		assert.Equal(t, now, got.CreatedAt)
	})

	t.Run("status update of unknown id", func(t *testing.T) {
		err := store.UpdateStatus(ctx, &model.Transaction{ID: "missing", UserID: "u1"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPaymentMethodStore(t *testing.T) {
	ctx := context.Background()
	store := NewPaymentMethodStore(NewMemoryKV())

	empty, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	used := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	methods := []*model.PaymentMethod{
		{ID: "pm1", UserID: "u1", Type: model.RailVisa, Name: "Visa", Details: "**** 4242", IsDefault: true, LastUsedAt: &used, CreatedAt: used},
		{ID: "pm2", UserID: "u1", Type: model.RailMTNMobileMoney, Name: "MoMo", Details: "024 *** 1234", CreatedAt: used},
	}
	require.NoError(t, store.ReplaceAll(ctx, "u1", methods))

	got, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, methods, got)

	require.NoError(t, store.ReplaceAll(ctx, "u1", nil))
	got, err = store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAuditStore(t *testing.T) {
	ctx := context.Background()
	store := NewAuditStore(NewMemoryKV())

	e := &model.AuditEvent{ID: "a1", UserID: "u1", Action: "wallet.currency_changed", Details: map[string]string{"from": "USD", "to": "GHS"}, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Record(ctx, e))

	events, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, e, events[0])
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	v := []byte("abc")
	require.NoError(t, kv.Set(ctx, "ns", "k", v))
	v[0] = 'x'

	got, err := kv.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := kv.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
