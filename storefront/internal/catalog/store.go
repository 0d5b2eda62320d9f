package catalog

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fjod/go_storefront/storefront/domain"
)

// MinSearchLength is the shortest query the real-time search sends upstream.
const MinSearchLength = 3

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Store is the browsing state: the full product list, the active filtered
// set, the sort order applied on top of it and the status of the last fetch.
type Store struct {
	mu       sync.RWMutex
	client   Client
	log      *slog.Logger
	products []domain.Product
	base     []domain.Product
	category string
	sortKey  SortKey
	cats     []string
	status   Status
	err      error
}

func NewStore(client Client, log *slog.Logger) *Store {
	return &Store{
		client:   client,
		log:      log,
		category: AllCategories,
	}
}

func (s *Store) FetchProducts(ctx context.Context) error {
	s.begin()
	products, err := s.client.GetProducts(ctx)
	if err != nil {
		return s.fail(ctx, "fetch products", err)
	}

	s.mu.Lock()
	s.products = products
	s.base = products
	s.status = StatusReady
	s.mu.Unlock()
	return nil
}

func (s *Store) FetchCategories(ctx context.Context) error {
	s.begin()
	cats, err := s.client.GetCategories(ctx)
	if err != nil {
		return s.fail(ctx, "fetch categories", err)
	}

	s.mu.Lock()
	s.cats = cats
	s.status = StatusReady
	s.mu.Unlock()
	return nil
}

// SetCategory selects a category. A concrete category is fetched from the
// catalog; the empty string or AllCategories restores the full list.
func (s *Store) SetCategory(ctx context.Context, category string) error {
	if category == "" {
		category = AllCategories
	}

	s.mu.Lock()
	s.category = category
	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()

	if category == AllCategories {
		s.mu.Lock()
		s.base = s.products
		s.status = StatusReady
		s.mu.Unlock()
		return nil
	}

	products, err := s.client.GetProductsByCategory(ctx, category)
	if err != nil {
		return s.fail(ctx, "fetch category", err)
	}

	s.mu.Lock()
	s.base = products
	s.status = StatusReady
	s.mu.Unlock()
	return nil
}

// SearchProductsRealTime replaces the active set with the catalog products
// matching query. Queries shorter than MinSearchLength clear the set without
// a request.
func (s *Store) SearchProductsRealTime(ctx context.Context, query string) error {
	s.begin()

	if utf8.RuneCountInString(query) < MinSearchLength {
		s.mu.Lock()
		s.base = []domain.Product{}
		s.status = StatusReady
		s.mu.Unlock()
		return nil
	}

	all, err := s.client.GetProducts(ctx)
	if err != nil {
		return s.fail(ctx, "search products", err)
	}

	matched := Derive(all, Matches(query), SortNone)
	s.mu.Lock()
	s.base = matched
	s.status = StatusReady
	s.mu.Unlock()
	return nil
}

// SearchProducts filters the already loaded products by query within the
// selected category. It never contacts the catalog.
func (s *Store) SearchProducts(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = Derive(s.products, And(InCategory(s.category), Matches(strings.TrimSpace(query))), SortNone)
}

// SortProducts orders the active set. Unknown keys leave the order unchanged.
func (s *Store) SortProducts(sortBy SortKey) {
	if _, ok := ParseSortKey(string(sortBy)); !ok {
		return
	}
	s.mu.Lock()
	s.sortKey = sortBy
	s.mu.Unlock()
}

// GetProduct fetches a single product without touching the browsing state.
func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.client.GetProduct(ctx, id)
}

// FilteredProducts is the active set in the selected sort order.
func (s *Store) FilteredProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Derive(s.base, nil, s.sortKey)
}

func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cats)
}

func (s *Store) SelectedCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

func (s *Store) SortKey() SortKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortKey
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err is the error of the last failed fetch, cleared when a new one starts.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) begin() {
	s.mu.Lock()
	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "catalog request failed", "op", op, "error", err)
	s.mu.Lock()
	s.status = StatusError
	s.err = err
	s.mu.Unlock()
	return err
}
