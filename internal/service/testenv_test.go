package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anyulbade/payment-wallet-service/internal/catalog"
	"github.com/anyulbade/payment-wallet-service/internal/gateway"
	"github.com/anyulbade/payment-wallet-service/internal/kvstore"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/money"
)

// tickingClock advances one second per reading so records get distinct,
// ordered timestamps.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

var (
	userAma   = &model.User{ID: "user_ama", Name: "Ama Mensah", Email: "ama@example.com", CountryCode: "GH", Currency: "GHS"}
	userSam   = &model.User{ID: "user_sam", Name: "Sam Carter", Email: "sam@example.com", CountryCode: "US", Currency: "USD"}
	userKamau = &model.User{ID: "user_kamau", Name: "Kamau Njoroge", Email: "kamau@example.com", CountryCode: "KE", Currency: "KES"}
)

type testEnv struct {
	users      *kvstore.UserStore
	locks      *UserLocks
	converter  *CurrencyConverter
	methods    *PaymentMethodService
	ledger     *LedgerService
	wallets    *WalletService
	processor  *PaymentProcessor
	statements *StatementService
	payments   *PaymentService
}

func approveAll() gateway.Gateway {
	return gateway.Func(func(_ context.Context, req gateway.Request) gateway.Result {
		return gateway.Result{Approved: true, GatewayRef: "test_" + req.Reference}
	})
}

func newTestEnv(t *testing.T, gw gateway.Gateway) *testEnv {
	t.Helper()

	kv := kvstore.NewMemoryKV()
	clock := newTickingClock()
	locks := NewUserLocks()

	users := kvstore.NewUserStore(kv)
	for _, u := range []*model.User{userAma, userSam, userKamau} {
		require.NoError(t, users.Save(context.Background(), u))
	}

	converter := NewCurrencyConverter(catalog.DefaultCurrencyTable())
	methods := NewPaymentMethodService(kvstore.NewPaymentMethodStore(kv), catalog.DefaultRegionRails(), clock, locks)
	ledger := NewLedgerService(kvstore.NewTransactionStore(kv), clock, locks)
	wallets := NewWalletService(kvstore.NewWalletStore(kv), kvstore.NewAuditStore(kv), converter, ledger, methods, clock, locks)
	processor := NewPaymentProcessor(ledger, methods, wallets, converter, gw, money.DefaultCommissionRate, time.Second, locks)
	statements := NewStatementService(ledger, converter)

	return &testEnv{
		users:      users,
		locks:      locks,
		converter:  converter,
		methods:    methods,
		ledger:     ledger,
		wallets:    wallets,
		processor:  processor,
		statements: statements,
		payments:   NewPaymentService(users, methods, ledger, wallets, processor, statements, converter),
	}
}

func (e *testEnv) addMethod(t *testing.T, user *model.User, rail model.RailType) *model.PaymentMethod {
	t.Helper()
	pm, err := e.methods.Add(context.Background(), user, NewPaymentMethod{Type: rail, Name: string(rail) + " account", Details: "****4242"})
	require.NoError(t, err)
	return pm
}
