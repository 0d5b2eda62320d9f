package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/fjod/go_storefront/storefront/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// CreateOrder inserts the order and returns the stored row with its id and
// creation time.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.UserEmail == "" {
		return nil, ErrMissingOwner
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	status := order.PaymentStatus
	if status == "" {
		status = domain.PaymentStatusPending
	}

	query := `INSERT INTO orders (user_email, items, total_price, payment_status, created_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          RETURNING id, user_email, items, total_price, payment_status, created_at`

	created, err := scanOrder(r.db.QueryRowContext(ctx, query,
		order.UserEmail,
		string(itemsJSON),
		order.TotalPrice,
		status))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return created, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64, owner string) (*domain.Order, error) {
	query := `SELECT id, user_email, items, total_price, payment_status, created_at
	          FROM orders WHERE id = $1 AND user_email = $2`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.Order, error) {
	query := `SELECT id, user_email, items, total_price, payment_status, created_at
	          FROM orders WHERE user_email = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, owner string, status domain.PaymentStatus) (int64, error) {
	if owner == "" {
		return 0, ErrMissingOwner
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $1 WHERE id = $2 AND user_email = $3`,
		status, id, owner)
	if err != nil {
		return 0, fmt.Errorf("update payment status: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repository) DeleteOrder(ctx context.Context, id int64, owner string) (int64, error) {
	if owner == "" {
		return 0, ErrMissingOwner
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1 AND user_email = $2`,
		id, owner)
	if err != nil {
		return 0, fmt.Errorf("delete order: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	if err := row.Scan(
		&order.ID,
		&order.UserEmail,
		&itemsJSON,
		&order.TotalPrice,
		&order.PaymentStatus,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}
