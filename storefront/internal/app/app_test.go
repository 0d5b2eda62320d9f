package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/config"
	"github.com/fjod/go_storefront/storefront/internal/orders"
	"github.com/fjod/go_storefront/storefront/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		StateDriver:         config.StateDriverMemory,
		SearchDebounce:      10 * time.Millisecond,
		RequestTimeout:      time.Second,
		MerchantDisplayName: orders.DefaultMerchantDisplayName,
	}
}

func newTestApp(t *testing.T, state storage.StateStore) (*App, *MockIntents, *[]orders.CheckoutState) {
	t.Helper()
	intents := &MockIntents{}
	var states []orders.CheckoutState
	a, err := New(context.Background(), testConfig(), Dependencies{
		State:    state,
		Catalog:  MockCatalog{},
		Identity: MockProvider{},
		Intents:  intents,
		Sheet:    MockSheet{},
		OnState: func(_ int64, s orders.CheckoutState) {
			states = append(states, s)
		},
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, intents, &states
}

func TestNew_RequiresPaymentSheet(t *testing.T) {
	_, err := New(context.Background(), testConfig(), Dependencies{}, logger.Discard())
	assert.Error(t, err)
}

func TestApp_CheckoutFlow(t *testing.T) {
	ctx := context.Background()
	a, intents, states := newTestApp(t, nil)
	require.NoError(t, a.Start(ctx))

	require.NoError(t, a.Catalog.FetchProducts(ctx))
	products := a.Catalog.FilteredProducts()
	require.Len(t, products, 3)

	require.NoError(t, a.Cart.AddItem(ctx, products[0], 1))
	require.NoError(t, a.Favorites.ToggleFavorite(ctx, products[1]))

	_, err := a.Orders.PlaceOrder(ctx)
	assert.ErrorIs(t, err, orders.ErrAuthRequired)

	require.NoError(t, a.Session.Login(ctx, "ann@example.com", "secret1"))
	bundle, err := a.Orders.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "109.95", intents.Prices[0].StringFixed(2))

	require.NoError(t, a.Orders.ConfirmPayment(ctx, bundle))
	assert.Zero(t, a.Cart.TotalItems())
	assert.True(t, a.Favorites.IsFavorite(products[1].ID))

	list, err := a.Orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.PaymentStatusSuccess, list[0].PaymentStatus)
	assert.Contains(t, *states, orders.StatePaymentConfirmed)
}

func TestApp_StartRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	state := storage.NewMemoryStore()

	first, _, _ := newTestApp(t, state)
	require.NoError(t, first.Start(ctx))
	require.NoError(t, first.Session.Login(ctx, "ann@example.com", "secret1"))
	require.NoError(t, first.Cart.AddItem(ctx, testProducts[2], 2))
	require.NoError(t, first.Favorites.AddFavorite(ctx, testProducts[0]))

	second, _, _ := newTestApp(t, state)
	require.NoError(t, second.Start(ctx))

	assert.Equal(t, 2, second.Cart.TotalItems())
	assert.True(t, second.Favorites.IsFavorite(testProducts[0].ID))
	assert.Equal(t, "ann@example.com", second.Session.Email())
}

func TestApp_DebouncedSearch(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t, nil)

	done := make(chan struct{})
	a.Search.Call(ctx, func(ctx context.Context) {
		_ = a.Catalog.SearchProductsRealTime(ctx, "bra")
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search did not run")
	}
	require.Len(t, a.Catalog.FilteredProducts(), 1)
	assert.Equal(t, int64(5), a.Catalog.FilteredProducts()[0].ID)
}
