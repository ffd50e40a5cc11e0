package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"merchdesk/backend/internal/cache"
	"merchdesk/backend/internal/domain"
	"merchdesk/backend/internal/pricing"
	"merchdesk/backend/internal/publish"
	"merchdesk/backend/internal/store"
	"merchdesk/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo      store.Repository
	quotes    cache.QuoteCache
	publisher *publish.WebhookClient
	quoteTTL  time.Duration
}

func New(repo store.Repository, quotes cache.QuoteCache, publisher *publish.WebhookClient, quoteTTL time.Duration) *Service {
	if quotes == nil {
		quotes = cache.NoopQuoteCache{}
	}
	if quoteTTL <= 0 {
		quoteTTL = 60 * time.Second
	}

	return &Service{
		repo:      repo,
		quotes:    quotes,
		publisher: publisher,
		quoteTTL:  quoteTTL,
	}
}

func (s *Service) ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, includeInactive)
}

func (s *Service) GetProduct(ctx context.Context, slug string) (domain.Product, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Product{}, store.ErrInvalidInput
	}
	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = "USD"
	}

	if req.Slug == "" || req.Name == "" || req.Category == "" {
		return domain.Product{}, store.ErrInvalidInput
	}
	if req.PriceCents < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	now := time.Now().UTC()
	product := domain.Product{
		Slug:       req.Slug,
		Name:       req.Name,
		Category:   req.Category,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		ImageID:    req.ImageID,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.Slug, fmt.Sprintf("name=%s,price=%d", created.Name, created.PriceCents))
	s.invalidateQuotes(ctx)
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, slug string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Product{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if category == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Category = category
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Currency = currency
	}
	if req.ImageID != nil {
		updated.ImageID = *req.ImageID
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	if existing.PriceCents != saved.PriceCents {
		if err := s.repo.CreatePriceHistory(ctx, domain.ProductPriceHistory{
			ID:            xid.New("ph"),
			Slug:          saved.Slug,
			OldPriceCents: existing.PriceCents,
			NewPriceCents: saved.PriceCents,
			ChangedBy:     actor.Username,
			ChangedAt:     time.Now().UTC(),
		}); err != nil {
			log.Printf("[service] WARN: failed to record price history slug=%s: %v", saved.Slug, err)
		}
	}

	s.logAudit(ctx, "product_update", "product", saved.Slug, fmt.Sprintf("active=%t,price=%d", saved.Active, saved.PriceCents))
	s.invalidateQuotes(ctx)
	return *saved, nil
}

func (s *Service) ListProductPriceHistory(ctx context.Context, slug string, limit int) ([]domain.ProductPriceHistory, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, store.ErrInvalidInput
	}
	if limit < 1 {
		limit = 50
	}
	if _, err := s.repo.GetProductBySlug(ctx, slug); err != nil {
		return nil, err
	}
	return s.repo.ListPriceHistory(ctx, slug, limit)
}

func (s *Service) ListBundles(ctx context.Context, includeInactive bool) ([]domain.BundleView, error) {
	bundles, err := s.repo.ListBundles(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	views := make([]domain.BundleView, 0, len(bundles))
	for _, bundle := range bundles {
		view, err := s.bundleView(ctx, bundle)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) GetBundle(ctx context.Context, id string) (domain.BundleView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.BundleView{}, store.ErrInvalidInput
	}
	bundle, err := s.repo.GetBundleByID(ctx, id)
	if err != nil {
		return domain.BundleView{}, err
	}
	return s.bundleView(ctx, *bundle)
}

func (s *Service) CreateBundle(ctx context.Context, req domain.BundleCreateRequest) (domain.BundleView, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.BundleView{}, fmt.Errorf("admin role required")
	}

	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.Slug == "" || req.Name == "" {
		return domain.BundleView{}, store.ErrInvalidInput
	}
	if err := validateComposition(req.Composition); err != nil {
		return domain.BundleView{}, err
	}
	if err := validatePricingMode(req.Pricing); err != nil {
		return domain.BundleView{}, err
	}

	now := time.Now().UTC()
	bundle := domain.Bundle{
		ID:          xid.New("bnd"),
		Slug:        req.Slug,
		Name:        req.Name,
		Category:    req.Category,
		Composition: req.Composition,
		Pricing:     req.Pricing,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.CreateBundle(ctx, bundle)
	if err != nil {
		return domain.BundleView{}, err
	}

	s.logAudit(ctx, "bundle_create", "bundle", created.ID, fmt.Sprintf("slug=%s,mode=%s,items=%d", created.Slug, created.Pricing.Mode, len(created.Composition)))
	s.invalidateQuotes(ctx)
	return s.bundleView(ctx, *created)
}

func (s *Service) UpdateBundle(ctx context.Context, id string, req domain.BundleUpdateRequest) (domain.BundleView, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.BundleView{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.BundleView{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetBundleByID(ctx, id)
	if err != nil {
		return domain.BundleView{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.BundleView{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Category != nil {
		updated.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Composition != nil {
		if err := validateComposition(*req.Composition); err != nil {
			return domain.BundleView{}, err
		}
		updated.Composition = *req.Composition
	}
	if req.Pricing != nil {
		if err := validatePricingMode(*req.Pricing); err != nil {
			return domain.BundleView{}, err
		}
		updated.Pricing = *req.Pricing
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateBundle(ctx, updated)
	if err != nil {
		return domain.BundleView{}, err
	}

	s.logAudit(ctx, "bundle_update", "bundle", saved.ID, fmt.Sprintf("slug=%s,active=%t,mode=%s", saved.Slug, saved.Active, saved.Pricing.Mode))
	s.invalidateQuotes(ctx)
	return s.bundleView(ctx, *saved)
}

func (s *Service) ListDiscounts(ctx context.Context, includePaused bool) ([]domain.Discount, error) {
	return s.repo.ListDiscounts(ctx, includePaused)
}

func (s *Service) GetDiscount(ctx context.Context, id string) (domain.Discount, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Discount{}, store.ErrInvalidInput
	}
	discount, err := s.repo.GetDiscountByID(ctx, id)
	if err != nil {
		return domain.Discount{}, err
	}
	return *discount, nil
}

func (s *Service) CreateDiscount(ctx context.Context, req domain.DiscountCreateRequest) (domain.Discount, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Discount{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	if req.Name == "" {
		return domain.Discount{}, store.ErrInvalidInput
	}
	if req.Kind != domain.DiscountKindCoupon && req.Kind != domain.DiscountKindAuto {
		return domain.Discount{}, store.ErrInvalidInput
	}
	if req.Kind == domain.DiscountKindCoupon && req.Code == "" {
		return domain.Discount{}, store.ErrInvalidInput
	}
	if err := validateDiscountValue(req.Value); err != nil {
		return domain.Discount{}, err
	}
	if err := validateWindow(req.StartAt, req.EndAt); err != nil {
		return domain.Discount{}, err
	}

	now := time.Now().UTC()
	discount := domain.Discount{
		ID:          xid.New("disc"),
		Name:        req.Name,
		Kind:        req.Kind,
		Code:        req.Code,
		Value:       req.Value,
		Eligibility: req.Eligibility,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Stacking:    req.Stacking,
		Status:      domain.DiscountStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.CreateDiscount(ctx, discount)
	if err != nil {
		return domain.Discount{}, err
	}

	s.logAudit(ctx, "discount_create", "discount", created.ID, fmt.Sprintf("name=%s,kind=%s,priority=%d,exclusive=%t", created.Name, created.Kind, created.Stacking.Priority, created.Stacking.Exclusive))
	s.invalidateQuotes(ctx)
	return *created, nil
}

func (s *Service) UpdateDiscount(ctx context.Context, id string, req domain.DiscountUpdateRequest) (domain.Discount, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Discount{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Discount{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetDiscountByID(ctx, id)
	if err != nil {
		return domain.Discount{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Discount{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if updated.Kind == domain.DiscountKindCoupon && code == "" {
			return domain.Discount{}, store.ErrInvalidInput
		}
		updated.Code = code
	}
	if req.Value != nil {
		if err := validateDiscountValue(*req.Value); err != nil {
			return domain.Discount{}, err
		}
		updated.Value = *req.Value
	}
	if req.Eligibility != nil {
		updated.Eligibility = *req.Eligibility
	}
	if req.StartAt != nil {
		updated.StartAt = req.StartAt
	}
	if req.EndAt != nil {
		updated.EndAt = req.EndAt
	}
	if err := validateWindow(updated.StartAt, updated.EndAt); err != nil {
		return domain.Discount{}, err
	}
	if req.Stacking != nil {
		updated.Stacking = *req.Stacking
	}
	if req.Status != nil {
		if *req.Status != domain.DiscountStatusActive && *req.Status != domain.DiscountStatusPaused {
			return domain.Discount{}, store.ErrInvalidInput
		}
		updated.Status = *req.Status
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateDiscount(ctx, updated)
	if err != nil {
		return domain.Discount{}, err
	}

	s.logAudit(ctx, "discount_update", "discount", saved.ID, fmt.Sprintf("status=%s,priority=%d,exclusive=%t", saved.Status, saved.Stacking.Priority, saved.Stacking.Exclusive))
	s.invalidateQuotes(ctx)
	return *saved, nil
}

// PreviewPrice resolves the effective price of a product or bundle against
// the currently active discounts, optionally honoring a coupon code. Results
// are cached for a short TTL keyed by item and code.
func (s *Service) PreviewPrice(ctx context.Context, req domain.PricePreviewRequest) (domain.PricePreviewResponse, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.CouponCode = strings.TrimSpace(req.CouponCode)
	if req.Slug == "" {
		return domain.PricePreviewResponse{}, store.ErrInvalidInput
	}
	if req.ItemKind != domain.ItemKindProduct && req.ItemKind != domain.ItemKindBundle {
		return domain.PricePreviewResponse{}, store.ErrInvalidInput
	}

	key := cache.Key(req.ItemKind, req.Slug, req.CouponCode)
	if cached, ok, err := s.quotes.Get(ctx, key); err != nil {
		log.Printf("[service] WARN: quote cache read failed key=%s: %v", key, err)
	} else if ok {
		resp := *cached
		resp.Cached = true
		return resp, nil
	}

	item, err := s.buildItem(ctx, req.ItemKind, req.Slug)
	if err != nil {
		return domain.PricePreviewResponse{}, err
	}

	discounts, err := s.repo.ListDiscounts(ctx, false)
	if err != nil {
		return domain.PricePreviewResponse{}, err
	}

	quote := pricing.ResolvePrice(item, discounts, domain.PricingContext{CouponCode: req.CouponCode})

	savings := quote.OriginalCents - quote.FinalCents
	if savings < 0 {
		savings = 0
	}
	resp := domain.PricePreviewResponse{
		Item:          item,
		OriginalCents: quote.OriginalCents,
		FinalCents:    quote.FinalCents,
		Applied:       quote.Applied,
		SavingsCents:  savings,
		Cached:        false,
		PreviewedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.quotes.Set(ctx, key, &resp, s.quoteTTL); err != nil {
		log.Printf("[service] WARN: quote cache write failed key=%s: %v", key, err)
	}
	return resp, nil
}

// SubmitPublishDraft snapshots an entity and hands it to the storefront
// publishing workflow. The draft records the outcome of the handoff.
func (s *Service) SubmitPublishDraft(ctx context.Context, req domain.PublishRequest) (domain.PublishResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.PublishResponse{}, fmt.Errorf("authentication required")
	}

	req.EntityID = strings.TrimSpace(req.EntityID)
	if req.EntityID == "" {
		return domain.PublishResponse{}, store.ErrInvalidInput
	}

	payload, err := s.snapshotEntity(ctx, req.EntityKind, req.EntityID)
	if err != nil {
		return domain.PublishResponse{}, err
	}

	now := time.Now().UTC()
	draft := domain.PublishDraft{
		ID:          xid.New("pub"),
		EntityKind:  req.EntityKind,
		EntityID:    req.EntityID,
		Note:        strings.TrimSpace(req.Note),
		Payload:     payload,
		Status:      domain.DraftStatusSubmitted,
		SubmittedBy: actor.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.CreatePublishDraft(ctx, draft)
	if err != nil {
		return domain.PublishResponse{}, err
	}

	if err := s.publisher.Submit(ctx, publish.Event{
		DraftID:     created.ID,
		EntityKind:  created.EntityKind,
		EntityID:    created.EntityID,
		Payload:     created.Payload,
		SubmittedBy: created.SubmittedBy,
		SubmittedAt: created.CreatedAt,
	}); err != nil {
		log.Printf("[publish] WARN: draft %s delivery failed: %v", created.ID, err)
		failed, markErr := s.repo.UpdatePublishDraftStatus(ctx, created.ID, domain.DraftStatusFailed, time.Now().UTC())
		if markErr != nil {
			return domain.PublishResponse{}, markErr
		}
		created = failed
	}

	s.logAudit(ctx, "publish_submit", created.EntityKind, created.EntityID, fmt.Sprintf("draft=%s,status=%s", created.ID, created.Status))
	return domain.PublishResponse{Draft: *created}, nil
}

func (s *Service) GetPublishDraft(ctx context.Context, id string) (domain.PublishDraft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.PublishDraft{}, store.ErrInvalidInput
	}
	draft, err := s.repo.GetPublishDraftByID(ctx, id)
	if err != nil {
		return domain.PublishDraft{}, err
	}
	return *draft, nil
}

func (s *Service) ListPublishDrafts(ctx context.Context, limit int) ([]domain.PublishDraft, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ListPublishDrafts(ctx, limit)
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, store.ErrInvalidInput
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func (s *Service) bundleView(ctx context.Context, bundle domain.Bundle) (domain.BundleView, error) {
	slugs := make([]string, 0, len(bundle.Composition))
	for _, line := range bundle.Composition {
		slugs = append(slugs, line.ProductSlug)
	}

	products, err := s.repo.GetProductsBySlugs(ctx, slugs)
	if err != nil {
		return domain.BundleView{}, err
	}

	return domain.BundleView{
		Bundle:              bundle,
		BasePriceCents:      pricing.BundleBasePrice(bundle, products),
		EffectivePriceCents: pricing.ComputeBundlePrice(bundle, products),
		SavingsCents:        pricing.ComputeSavings(bundle, products),
	}, nil
}

func (s *Service) buildItem(ctx context.Context, kind string, slug string) (domain.Item, error) {
	switch kind {
	case domain.ItemKindProduct:
		product, err := s.repo.GetProductBySlug(ctx, slug)
		if err != nil {
			return domain.Item{}, err
		}
		return domain.Item{
			ID:         product.Slug,
			Kind:       domain.ItemKindProduct,
			PriceCents: product.PriceCents,
			Currency:   product.Currency,
			Category:   product.Category,
			Slug:       product.Slug,
		}, nil
	case domain.ItemKindBundle:
		bundle, err := s.repo.GetBundleBySlug(ctx, slug)
		if err != nil {
			return domain.Item{}, err
		}
		view, err := s.bundleView(ctx, *bundle)
		if err != nil {
			return domain.Item{}, err
		}
		return domain.Item{
			ID:         bundle.ID,
			Kind:       domain.ItemKindBundle,
			PriceCents: view.EffectivePriceCents,
			Currency:   "USD",
			Category:   bundle.Category,
			Slug:       bundle.Slug,
		}, nil
	default:
		return domain.Item{}, store.ErrInvalidInput
	}
}

func (s *Service) snapshotEntity(ctx context.Context, kind string, id string) (string, error) {
	var entity any
	switch kind {
	case "product":
		product, err := s.repo.GetProductBySlug(ctx, id)
		if err != nil {
			return "", err
		}
		entity = product
	case "bundle":
		bundle, err := s.repo.GetBundleByID(ctx, id)
		if err != nil {
			return "", err
		}
		view, err := s.bundleView(ctx, *bundle)
		if err != nil {
			return "", err
		}
		entity = view
	case "discount":
		discount, err := s.repo.GetDiscountByID(ctx, id)
		if err != nil {
			return "", err
		}
		entity = discount
	default:
		return "", store.ErrInvalidInput
	}

	payload, err := json.Marshal(entity)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (s *Service) invalidateQuotes(ctx context.Context) {
	if err := s.quotes.Invalidate(ctx); err != nil {
		log.Printf("[service] WARN: quote cache invalidation failed: %v", err)
	}
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func validateComposition(items []domain.BundleItem) error {
	if len(items) == 0 {
		return store.ErrInvalidInput
	}
	for _, line := range items {
		if strings.TrimSpace(line.ProductSlug) == "" || line.Quantity < 1 {
			return store.ErrInvalidInput
		}
	}
	return nil
}

func validatePricingMode(pricing domain.BundlePricing) error {
	switch pricing.Mode {
	case domain.BundleModeFixed, domain.BundleModePercentOff, domain.BundleModeAmountOff, domain.BundleModeBogo:
		return nil
	default:
		return store.ErrInvalidInput
	}
}

func validateDiscountValue(value domain.DiscountValue) error {
	switch value.Kind {
	case domain.ValueKindPercent:
		if value.Percent < 0 || value.Percent > 100 {
			return store.ErrInvalidInput
		}
	case domain.ValueKindAmount:
		if value.AmountCents < 0 {
			return store.ErrInvalidInput
		}
	default:
		return store.ErrInvalidInput
	}
	return nil
}

func validateWindow(start *time.Time, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return store.ErrInvalidInput
	}
	return nil
}
