package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var ErrItemNotFound = errors.New("menu item not found")

type Repository interface {
	GetAllItems(ctx context.Context) ([]domain.CatalogItem, error)
	GetItem(ctx context.Context, id int64) (*domain.CatalogItem, error)
	ListReviews(ctx context.Context) ([]domain.Review, error)
	Close() error
}

// SQLiteRepository serves the menu from a SQLite database seeded by the
// embedded migrations.
type SQLiteRepository struct {
	db *sqlx.DB
}

func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations() error {
	driver, err := sqlite.WithInstance(r.db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetAllItems(ctx context.Context) ([]domain.CatalogItem, error) {
	query := `
		SELECT id, name, description, price, emoji, category, rating, popular
		FROM menu_items
		ORDER BY id
	`

	var items []domain.CatalogItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	query := `
		SELECT id, name, description, price, emoji, category, rating, popular
		FROM menu_items
		WHERE id = ?
	`

	var item domain.CatalogItem
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query menu item %d: %w", id, err)
	}
	return &item, nil
}

func (r *SQLiteRepository) ListReviews(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT id, user_name, rating, comment, review_date
		FROM reviews
		ORDER BY review_date DESC, id
	`

	var reviews []domain.Review
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	return reviews, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
