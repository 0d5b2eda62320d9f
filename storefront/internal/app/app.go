package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_storefront/storefront/internal/auth"
	"github.com/fjod/go_storefront/storefront/internal/cart"
	"github.com/fjod/go_storefront/storefront/internal/catalog"
	"github.com/fjod/go_storefront/storefront/internal/config"
	"github.com/fjod/go_storefront/storefront/internal/events"
	"github.com/fjod/go_storefront/storefront/internal/favorites"
	"github.com/fjod/go_storefront/storefront/internal/orders"
	"github.com/fjod/go_storefront/storefront/internal/repository"
	"github.com/fjod/go_storefront/storefront/internal/search"
	"github.com/fjod/go_storefront/storefront/internal/storage"
)

// App owns every store and collaborator of the storefront. Screens receive
// the stores they need from it; nothing is held in package state.
type App struct {
	Catalog   *catalog.Store
	Cart      *cart.Store
	Favorites *favorites.Store
	Session   *auth.Session
	Orders    *orders.Coordinator
	Search    *search.Debouncer

	log     *slog.Logger
	closers []func() error
}

// Dependencies lets callers and tests replace the remote collaborators. Nil
// fields are built from the config.
type Dependencies struct {
	State     storage.StateStore
	Catalog   catalog.Client
	Identity  auth.IdentityProvider
	Repo      repository.OrderRepository
	Intents   orders.IntentRequester
	Sheet     orders.PaymentSheet
	Publisher events.Publisher
	OnState   func(orderID int64, state orders.CheckoutState)
}

func New(ctx context.Context, cfg *config.Config, deps Dependencies, log *slog.Logger) (*App, error) {
	if deps.Sheet == nil {
		return nil, errors.New("a payment sheet is required")
	}
	a := &App{log: log}

	var err error
	if deps.State == nil {
		if deps.State, err = a.openState(ctx, cfg); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	if deps.Catalog == nil {
		deps.Catalog = a.catalogClient(ctx, cfg)
	}
	if deps.Identity == nil {
		deps.Identity = auth.NewGoTrueProvider(cfg.AuthURL, cfg.AuthAPIKey, cfg.RequestTimeout)
	}
	if deps.Repo == nil {
		if deps.Repo, err = a.openRepository(cfg); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	if deps.Intents == nil {
		deps.Intents = orders.NewCheckoutClient(cfg.CheckoutAPIURL, cfg.RequestTimeout)
	}
	if deps.Publisher == nil {
		deps.Publisher = a.publisher(cfg)
	}

	a.Catalog = catalog.NewStore(deps.Catalog, log)
	a.Cart = cart.NewStore(deps.State, log)
	a.Favorites = favorites.NewStore(deps.State, log)
	a.Session = auth.NewSession(deps.Identity, deps.State, log)
	a.Orders = orders.NewCoordinator(a.Session, a.Cart, deps.Repo, deps.Intents, deps.Sheet, deps.Publisher, orders.Config{
		MerchantDisplayName: cfg.MerchantDisplayName,
		ReturnURL:           cfg.ReturnURL,
		OnState:             deps.OnState,
	}, log)
	a.Search = search.NewDebouncer(cfg.SearchDebounce)
	a.closers = append(a.closers, func() error {
		a.Search.Close()
		return nil
	})
	return a, nil
}

// Start rehydrates persisted state and restores the signed-in session. A
// session that cannot be restored leaves the shopper signed out.
func (a *App) Start(ctx context.Context) error {
	if err := a.Cart.Load(ctx); err != nil {
		return err
	}
	if err := a.Favorites.Load(ctx); err != nil {
		return err
	}
	if err := a.Session.CheckSession(ctx); err != nil {
		a.log.WarnContext(ctx, "session not restored", "error", err)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openState(ctx context.Context, cfg *config.Config) (storage.StateStore, error) {
	switch cfg.StateDriver {
	case config.StateDriverMongo:
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		store := storage.NewMongoStore(db)
		a.closers = append(a.closers, store.Close)
		if err := store.CreateIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StateDriverMemory:
		return storage.NewMemoryStore(), nil
	default:
		store, err := storage.NewSQLiteStore(cfg.StateDBPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		if err := store.RunMigrations(cfg.StateMigrationsPath); err != nil {
			return nil, err
		}
		return store, nil
	}
}

func (a *App) catalogClient(ctx context.Context, cfg *config.Config) catalog.Client {
	var client catalog.Client = catalog.NewHTTPClient(cfg.CatalogAPIURL, cfg.RequestTimeout)
	if cfg.RedisAddr == "" {
		return client
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		a.log.WarnContext(ctx, "redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return client
	}
	a.closers = append(a.closers, rdb.Close)
	return catalog.NewCachingClient(client, catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL), a.log)
}

func (a *App) openRepository(cfg *config.Config) (repository.OrderRepository, error) {
	if cfg.DBHost == "" {
		a.log.Warn("DB_HOST not set, orders are kept in memory")
		return repository.NewMemoryRepository(), nil
	}

	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	repo, err := repository.NewRepository(creds)
	if err != nil {
		return nil, fmt.Errorf("connect order store: %w", err)
	}
	a.closers = append(a.closers, repo.Close)
	if err := repo.RunMigrations(creds); err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *App) publisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NoopPublisher{}
	}
	p := events.NewKafkaPublisher(a.log, cfg.KafkaBrokers...)
	a.closers = append(a.closers, p.Close)
	return p
}
