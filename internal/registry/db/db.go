// Package db implements the persistence layer on top of GORM. One
// Repository serves all registry entities; each request's reads and
// writes run inside at most one transaction, and the store is the sole
// point of concurrency control.
package db

import (
	"context"
	"fmt"

	"github.com/gartstein/talent-verify/internal/registry/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// defaultPageSize bounds list endpoints when the caller does not ask
// for a specific page size.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// NewWithDB wraps an already opened gorm handle. Callers are
// responsible for running migrations.
func NewWithDB(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// ListParams paginates list queries.
type ListParams struct {
	Page     int
	PageSize int
}

// Normalize clamps the params to sane bounds.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.PageSize
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
