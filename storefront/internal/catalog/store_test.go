package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/storefront/domain"
)

func newTestStore(m *MockClient) *Store {
	return NewStore(m, logger.Discard())
}

func TestFetchProducts_Ready(t *testing.T) {
	s := newTestStore(&MockClient{products: testProducts})
	assert.Equal(t, StatusIdle, s.Status())

	require.NoError(t, s.FetchProducts(context.Background()))

	assert.Equal(t, StatusReady, s.Status())
	assert.NoError(t, s.Err())
	assert.Equal(t, ids(testProducts), ids(s.FilteredProducts()))
	assert.Len(t, s.Products(), 5)
}

func TestFetchProducts_Error(t *testing.T) {
	boom := errors.New("connection refused")
	s := newTestStore(&MockClient{err: boom})

	err := s.FetchProducts(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, s.Status())
	assert.ErrorIs(t, s.Err(), boom)
}

func TestFetchCategories(t *testing.T) {
	s := newTestStore(&MockClient{categories: []string{"electronics", "jewelery"}})

	require.NoError(t, s.FetchCategories(context.Background()))

	assert.Equal(t, []string{"electronics", "jewelery"}, s.Categories())
}

func TestSetCategory_FetchesServerSide(t *testing.T) {
	m := &MockClient{
		products:   testProducts,
		byCategory: map[string][]domain.Product{"electronics": {testProducts[3], testProducts[4]}},
	}
	s := newTestStore(m)
	ctx := context.Background()
	require.NoError(t, s.FetchProducts(ctx))

	require.NoError(t, s.SetCategory(ctx, "electronics"))

	assert.Equal(t, "electronics", s.SelectedCategory())
	assert.Equal(t, []int64{9, 12}, ids(s.FilteredProducts()))
	assert.Equal(t, []string{"electronics"}, m.categoryCalls)
}

func TestSetCategory_AllRestoresFullListWithoutRequest(t *testing.T) {
	m := &MockClient{products: testProducts, byCategory: map[string][]domain.Product{"jewelery": {testProducts[2]}}}
	s := newTestStore(m)
	ctx := context.Background()
	require.NoError(t, s.FetchProducts(ctx))
	require.NoError(t, s.SetCategory(ctx, "jewelery"))

	require.NoError(t, s.SetCategory(ctx, ""))

	assert.Equal(t, AllCategories, s.SelectedCategory())
	assert.Len(t, s.FilteredProducts(), 5)
	assert.Equal(t, []string{"jewelery"}, m.categoryCalls)
}

func TestSearchProductsRealTime_ShortQueryClearsWithoutRequest(t *testing.T) {
	m := &MockClient{products: testProducts}
	s := newTestStore(m)
	ctx := context.Background()
	require.NoError(t, s.FetchProducts(ctx))
	calls := m.productCalls

	require.NoError(t, s.SearchProductsRealTime(ctx, "dr"))

	assert.Empty(t, s.FilteredProducts())
	assert.Equal(t, calls, m.productCalls)
	assert.Equal(t, StatusReady, s.Status())
}

func TestSearchProductsRealTime_MatchesCaseInsensitive(t *testing.T) {
	m := &MockClient{products: testProducts}
	s := newTestStore(m)

	require.NoError(t, s.SearchProductsRealTime(context.Background(), "DrIvE"))

	assert.Equal(t, []int64{9, 12}, ids(s.FilteredProducts()))
	assert.Equal(t, 1, m.productCalls)
}

func TestSearchProducts_IntersectsSelectedCategory(t *testing.T) {
	m := &MockClient{
		products:   testProducts,
		byCategory: map[string][]domain.Product{"electronics": {testProducts[3], testProducts[4]}},
	}
	s := newTestStore(m)
	ctx := context.Background()
	require.NoError(t, s.FetchProducts(ctx))
	require.NoError(t, s.SetCategory(ctx, "electronics"))

	s.SearchProducts("  gaming ")

	assert.Equal(t, []int64{12}, ids(s.FilteredProducts()))
}

func TestSortProducts_LayersOnActiveFilter(t *testing.T) {
	m := &MockClient{products: testProducts}
	s := newTestStore(m)
	ctx := context.Background()
	require.NoError(t, s.FetchProducts(ctx))

	s.SortProducts(SortPriceAsc)
	assert.Equal(t, []int64{2, 9, 1, 12, 5}, ids(s.FilteredProducts()))

	require.NoError(t, s.SearchProductsRealTime(ctx, "drive"))
	assert.Equal(t, []int64{9, 12}, ids(s.FilteredProducts()))

	s.SortProducts(SortRating)
	assert.Equal(t, []int64{12, 9}, ids(s.FilteredProducts()))

	s.SortProducts("newest")
	assert.Equal(t, SortRating, s.SortKey())
}

func TestGetProduct(t *testing.T) {
	s := newTestStore(&MockClient{products: testProducts})

	p, err := s.GetProduct(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "Dragon Bracelet", p.Title)
	assert.Equal(t, StatusIdle, s.Status())
}
