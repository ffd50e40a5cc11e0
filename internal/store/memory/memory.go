package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"merchdesk/backend/internal/domain"
	"merchdesk/backend/internal/store"
)

// Store is an in-memory Repository used in dev mode and tests. All reads
// return copies so callers can never alias internal state.
type Store struct {
	mu              sync.RWMutex
	products        map[string]domain.Product
	bundlesByID     map[string]domain.Bundle
	discountsByID   map[string]domain.Discount
	draftsByID      map[string]domain.PublishDraft
	priceHistory    map[string][]domain.ProductPriceHistory
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial user accounts for dev/demo mode. Credentials
// come from SEED_ADMIN_PASSWORD and SEED_EDITOR_PASSWORD; hardcoded dev
// defaults are used with a warning when unset. Production deployments use
// PostgreSQL (DATABASE_URL) and never hit this path.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	editorPwd := envOr("SEED_EDITOR_PASSWORD", "editor123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_EDITOR_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_EDITOR_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"editor", editorPwd, "editor"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()
	products := []domain.Product{
		{Slug: "classic-tee", Name: "Classic Tee", Category: "apparel", PriceCents: 2500, Currency: "USD", Active: true, CreatedAt: now, UpdatedAt: now},
		{Slug: "logo-hoodie", Name: "Logo Hoodie", Category: "apparel", PriceCents: 6500, Currency: "USD", Active: true, CreatedAt: now, UpdatedAt: now},
		{Slug: "enamel-mug", Name: "Enamel Mug", Category: "kitchen", PriceCents: 1800, Currency: "USD", Active: true, CreatedAt: now, UpdatedAt: now},
		{Slug: "tote-bag", Name: "Canvas Tote", Category: "accessories", PriceCents: 2200, Currency: "USD", Active: true, CreatedAt: now, UpdatedAt: now},
		{Slug: "sticker-pack", Name: "Sticker Pack", Category: "accessories", PriceCents: 600, Currency: "USD", Active: true, CreatedAt: now, UpdatedAt: now},
	}

	fixedPrice := int64(9900)
	bundles := []domain.Bundle{
		{
			ID:       "bnd-starter",
			Slug:     "starter-kit",
			Name:     "Starter Kit",
			Category: "apparel",
			Composition: []domain.BundleItem{
				{ProductSlug: "classic-tee", Quantity: 2},
				{ProductSlug: "logo-hoodie", Quantity: 1},
			},
			Pricing:   domain.BundlePricing{Mode: domain.BundleModeFixed, FixedPriceCents: &fixedPrice},
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	discounts := []domain.Discount{
		{
			ID:          "disc-apparel10",
			Name:        "Apparel 10% off",
			Kind:        domain.DiscountKindAuto,
			Value:       domain.DiscountValue{Kind: domain.ValueKindPercent, Percent: 10},
			Eligibility: domain.Eligibility{Categories: []string{"apparel"}},
			Stacking:    domain.Stacking{Priority: 1},
			Status:      domain.DiscountStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "disc-welcome",
			Name:        "Welcome coupon",
			Kind:        domain.DiscountKindCoupon,
			Code:        "WELCOME15",
			Value:       domain.DiscountValue{Kind: domain.ValueKindPercent, Percent: 15},
			Eligibility: domain.Eligibility{All: true},
			Stacking:    domain.Stacking{Exclusive: true, Priority: 10},
			Status:      domain.DiscountStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	s := &Store{
		products:        make(map[string]domain.Product, len(products)),
		bundlesByID:     make(map[string]domain.Bundle, len(bundles)),
		discountsByID:   make(map[string]domain.Discount, len(discounts)),
		draftsByID:      make(map[string]domain.PublishDraft),
		priceHistory:    make(map[string][]domain.ProductPriceHistory),
		usersByUsername: seedUsers(),
	}
	for _, p := range products {
		s.products[p.Slug] = p
	}
	for _, b := range bundles {
		s.bundlesByID[b.ID] = b
	}
	for _, d := range discounts {
		s.discountsByID[d.ID] = d
	}
	return s
}

func (s *Store) ListProducts(_ context.Context, includeInactive bool) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.Active && !includeInactive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category == out[j].Category {
			return out[i].Name < out[j].Name
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) GetProductsBySlugs(_ context.Context, slugs []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Product, len(slugs))
	for _, slug := range slugs {
		if p, ok := s.products[slug]; ok {
			out[slug] = p
		}
	}
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Slug == "" || product.Name == "" || product.PriceCents < 0 {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.Slug]; exists {
		return nil, store.ErrConflict
	}
	s.products[product.Slug] = product
	copied := product
	return &copied, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.Slug]; !exists {
		return nil, store.ErrNotFound
	}
	s.products[product.Slug] = product
	copied := product
	return &copied, nil
}

func (s *Store) CreatePriceHistory(_ context.Context, entry domain.ProductPriceHistory) error {
	if entry.Slug == "" {
		return store.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceHistory[entry.Slug] = append(s.priceHistory[entry.Slug], entry)
	return nil
}

func (s *Store) ListPriceHistory(_ context.Context, slug string, limit int) ([]domain.ProductPriceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.priceHistory[slug]
	out := make([]domain.ProductPriceHistory, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChangedAt.After(out[j].ChangedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListBundles(_ context.Context, includeInactive bool) ([]domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Bundle, 0, len(s.bundlesByID))
	for _, b := range s.bundlesByID {
		if !b.Active && !includeInactive {
			continue
		}
		out = append(out, copyBundle(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *Store) GetBundleByID(_ context.Context, id string) (*domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bundlesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := copyBundle(b)
	return &copied, nil
}

func (s *Store) GetBundleBySlug(_ context.Context, slug string) (*domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bundlesByID {
		if b.Slug == slug {
			copied := copyBundle(b)
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateBundle(_ context.Context, bundle domain.Bundle) (*domain.Bundle, error) {
	if bundle.ID == "" || bundle.Slug == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bundlesByID {
		if existing.Slug == bundle.Slug {
			return nil, store.ErrConflict
		}
	}
	s.bundlesByID[bundle.ID] = copyBundle(bundle)
	copied := copyBundle(bundle)
	return &copied, nil
}

func (s *Store) UpdateBundle(_ context.Context, bundle domain.Bundle) (*domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bundlesByID[bundle.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.bundlesByID[bundle.ID] = copyBundle(bundle)
	copied := copyBundle(bundle)
	return &copied, nil
}

func (s *Store) ListDiscounts(_ context.Context, includePaused bool) ([]domain.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Discount, 0, len(s.discountsByID))
	for _, d := range s.discountsByID {
		if d.Status != domain.DiscountStatusActive && !includePaused {
			continue
		}
		out = append(out, copyDiscount(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stacking.Priority == out[j].Stacking.Priority {
			return out[i].ID < out[j].ID
		}
		return out[i].Stacking.Priority > out[j].Stacking.Priority
	})
	return out, nil
}

func (s *Store) GetDiscountByID(_ context.Context, id string) (*domain.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.discountsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := copyDiscount(d)
	return &copied, nil
}

func (s *Store) CreateDiscount(_ context.Context, discount domain.Discount) (*domain.Discount, error) {
	if discount.ID == "" || discount.Name == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.discountsByID[discount.ID]; exists {
		return nil, store.ErrConflict
	}
	s.discountsByID[discount.ID] = copyDiscount(discount)
	copied := copyDiscount(discount)
	return &copied, nil
}

func (s *Store) UpdateDiscount(_ context.Context, discount domain.Discount) (*domain.Discount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.discountsByID[discount.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.discountsByID[discount.ID] = copyDiscount(discount)
	copied := copyDiscount(discount)
	return &copied, nil
}

func (s *Store) CreatePublishDraft(_ context.Context, draft domain.PublishDraft) (*domain.PublishDraft, error) {
	if draft.ID == "" || draft.EntityID == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draftsByID[draft.ID] = draft
	copied := draft
	return &copied, nil
}

func (s *Store) UpdatePublishDraftStatus(_ context.Context, id string, status string, at time.Time) (*domain.PublishDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.draftsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	draft.Status = status
	draft.UpdatedAt = at
	s.draftsByID[id] = draft
	copied := draft
	return &copied, nil
}

func (s *Store) GetPublishDraftByID(_ context.Context, id string) (*domain.PublishDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.draftsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := draft
	return &copied, nil
}

func (s *Store) ListPublishDrafts(_ context.Context, limit int) ([]domain.PublishDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PublishDraft, 0, len(s.draftsByID))
	for _, draft := range s.draftsByID {
		out = append(out, draft)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AuditLog, 0, limit)
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		entry := s.auditLogs[i]
		if entry.CreatedAt.Before(from) || entry.CreatedAt.After(to) {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByUsername[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func copyBundle(b domain.Bundle) domain.Bundle {
	copied := b
	copied.Composition = append([]domain.BundleItem(nil), b.Composition...)
	if b.Pricing.FixedPriceCents != nil {
		v := *b.Pricing.FixedPriceCents
		copied.Pricing.FixedPriceCents = &v
	}
	if b.Pricing.PercentOff != nil {
		v := *b.Pricing.PercentOff
		copied.Pricing.PercentOff = &v
	}
	if b.Pricing.AmountOffCents != nil {
		v := *b.Pricing.AmountOffCents
		copied.Pricing.AmountOffCents = &v
	}
	if b.Pricing.Bogo != nil {
		v := *b.Pricing.Bogo
		copied.Pricing.Bogo = &v
	}
	return copied
}

func copyDiscount(d domain.Discount) domain.Discount {
	copied := d
	copied.Eligibility.ProductSlugs = append([]string(nil), d.Eligibility.ProductSlugs...)
	copied.Eligibility.BundleIDs = append([]string(nil), d.Eligibility.BundleIDs...)
	copied.Eligibility.Categories = append([]string(nil), d.Eligibility.Categories...)
	if d.StartAt != nil {
		v := *d.StartAt
		copied.StartAt = &v
	}
	if d.EndAt != nil {
		v := *d.EndAt
		copied.EndAt = &v
	}
	return copied
}
