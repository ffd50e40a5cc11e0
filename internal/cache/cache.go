package cache

import (
	"context"
	"strings"
	"time"

	"merchdesk/backend/internal/domain"
)

// QuoteCache holds resolved price previews keyed by item and coupon code so
// repeated lookups for the same storefront state skip the resolution pass.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*domain.PricePreviewResponse, bool, error)
	Set(ctx context.Context, key string, value *domain.PricePreviewResponse, ttl time.Duration) error
	Invalidate(ctx context.Context) error
	Close() error
}

// NoopQuoteCache is used when no redis address is configured.
type NoopQuoteCache struct{}

func (NoopQuoteCache) Get(ctx context.Context, key string) (*domain.PricePreviewResponse, bool, error) {
	return nil, false, nil
}

func (NoopQuoteCache) Set(ctx context.Context, key string, value *domain.PricePreviewResponse, ttl time.Duration) error {
	return nil
}

func (NoopQuoteCache) Invalidate(ctx context.Context) error { return nil }

func (NoopQuoteCache) Close() error { return nil }

// Key builds the cache key for a preview lookup. The coupon code is folded to
// lower case so equivalent codes share an entry.
func Key(itemKind, slug, couponCode string) string {
	return "quote:" + itemKind + ":" + slug + ":" + strings.ToLower(strings.TrimSpace(couponCode))
}
