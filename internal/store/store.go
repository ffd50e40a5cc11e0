package store

import (
	"context"
	"errors"
	"time"

	"merchdesk/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
)

// Repository is the boundary to the managed record store. Both the postgres
// and the in-memory implementation satisfy it; the service layer never talks
// to a database directly.
type Repository interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetProductsBySlugs(ctx context.Context, slugs []string) (map[string]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	CreatePriceHistory(ctx context.Context, entry domain.ProductPriceHistory) error
	ListPriceHistory(ctx context.Context, slug string, limit int) ([]domain.ProductPriceHistory, error)

	ListBundles(ctx context.Context, includeInactive bool) ([]domain.Bundle, error)
	GetBundleByID(ctx context.Context, id string) (*domain.Bundle, error)
	GetBundleBySlug(ctx context.Context, slug string) (*domain.Bundle, error)
	CreateBundle(ctx context.Context, bundle domain.Bundle) (*domain.Bundle, error)
	UpdateBundle(ctx context.Context, bundle domain.Bundle) (*domain.Bundle, error)

	ListDiscounts(ctx context.Context, includePaused bool) ([]domain.Discount, error)
	GetDiscountByID(ctx context.Context, id string) (*domain.Discount, error)
	CreateDiscount(ctx context.Context, discount domain.Discount) (*domain.Discount, error)
	UpdateDiscount(ctx context.Context, discount domain.Discount) (*domain.Discount, error)

	CreatePublishDraft(ctx context.Context, draft domain.PublishDraft) (*domain.PublishDraft, error)
	UpdatePublishDraftStatus(ctx context.Context, id string, status string, at time.Time) (*domain.PublishDraft, error)
	GetPublishDraftByID(ctx context.Context, id string) (*domain.PublishDraft, error)
	ListPublishDrafts(ctx context.Context, limit int) ([]domain.PublishDraft, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
