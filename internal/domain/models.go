package domain

import "time"

type Product struct {
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"price_cents"`
	Currency   string    `json:"currency"`
	ImageID    string    `json:"image_id,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ProductCreateRequest struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	ImageID    string `json:"image_id,omitempty"`
}

type ProductUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Category   *string `json:"category,omitempty"`
	PriceCents *int64  `json:"price_cents,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	ImageID    *string `json:"image_id,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

type ProductPriceHistory struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	ChangedBy     string    `json:"changed_by"`
	ChangedAt     time.Time `json:"changed_at"`
}

// DiscountValue is the value variant of a discount: either a percentage of
// the running price or a flat amount in a currency. Kind selects the branch;
// fields of the other branch are ignored.
type DiscountValue struct {
	Kind        string  `json:"kind"`
	Percent     float64 `json:"percent,omitempty"`
	AmountCents int64   `json:"amount_cents,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

// Eligibility restricts which items a discount can apply to. All=true means
// no restriction; otherwise an item matches if its id appears in the
// allow-list for its kind, or its category appears in Categories.
type Eligibility struct {
	All          bool     `json:"all"`
	ProductSlugs []string `json:"product_slugs,omitempty"`
	BundleIDs    []string `json:"bundle_ids,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

type Stacking struct {
	Exclusive bool `json:"exclusive"`
	Priority  int  `json:"priority"`
}

type Discount struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        string        `json:"kind"`
	Code        string        `json:"code,omitempty"`
	Value       DiscountValue `json:"value"`
	Eligibility Eligibility   `json:"eligibility"`
	StartAt     *time.Time    `json:"start_at,omitempty"`
	EndAt       *time.Time    `json:"end_at,omitempty"`
	Stacking    Stacking      `json:"stacking"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type DiscountCreateRequest struct {
	Name        string        `json:"name"`
	Kind        string        `json:"kind"`
	Code        string        `json:"code,omitempty"`
	Value       DiscountValue `json:"value"`
	Eligibility Eligibility   `json:"eligibility"`
	StartAt     *time.Time    `json:"start_at,omitempty"`
	EndAt       *time.Time    `json:"end_at,omitempty"`
	Stacking    Stacking      `json:"stacking"`
}

type DiscountUpdateRequest struct {
	Name        *string        `json:"name,omitempty"`
	Code        *string        `json:"code,omitempty"`
	Value       *DiscountValue `json:"value,omitempty"`
	Eligibility *Eligibility   `json:"eligibility,omitempty"`
	StartAt     *time.Time     `json:"start_at,omitempty"`
	EndAt       *time.Time     `json:"end_at,omitempty"`
	Stacking    *Stacking      `json:"stacking,omitempty"`
	Status      *string        `json:"status,omitempty"`
}

type BundleItem struct {
	ProductSlug string `json:"product_slug"`
	Quantity    int    `json:"quantity"`
	Optional    bool   `json:"optional,omitempty"`
}

type BogoParams struct {
	Buy int `json:"buy"`
	Get int `json:"get"`
}

// BundlePricing is the pricing policy of a bundle. Mode selects which
// parameter applies; a nil parameter for the selected mode means the bundle
// sells at its base (sum of parts) price.
type BundlePricing struct {
	Mode            string      `json:"mode"`
	FixedPriceCents *int64      `json:"fixed_price_cents,omitempty"`
	PercentOff      *float64    `json:"percent_off,omitempty"`
	AmountOffCents  *int64      `json:"amount_off_cents,omitempty"`
	Bogo            *BogoParams `json:"bogo,omitempty"`
}

type Bundle struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Composition []BundleItem  `json:"composition"`
	Pricing     BundlePricing `json:"pricing"`
	Active      bool          `json:"active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type BundleCreateRequest struct {
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Composition []BundleItem  `json:"composition"`
	Pricing     BundlePricing `json:"pricing"`
}

type BundleUpdateRequest struct {
	Name        *string        `json:"name,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Composition *[]BundleItem  `json:"composition,omitempty"`
	Pricing     *BundlePricing `json:"pricing,omitempty"`
	Active      *bool          `json:"active,omitempty"`
}

// BundleView is a bundle enriched with prices computed from the current
// product snapshot, as shown on the bundle list and detail pages.
type BundleView struct {
	Bundle
	BasePriceCents      int64 `json:"base_price_cents"`
	EffectivePriceCents int64 `json:"effective_price_cents"`
	SavingsCents        int64 `json:"savings_cents"`
}

// Item is the transient pricing subject handed to the resolution engine.
// It is built per preview call and never stored.
type Item struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Category   string `json:"category,omitempty"`
	Slug       string `json:"slug"`
}

// PricingContext carries the per-call inputs of a price resolution. A zero
// Now means the current UTC instant.
type PricingContext struct {
	CouponCode string    `json:"coupon_code,omitempty"`
	Now        time.Time `json:"now,omitempty"`
}

type PriceQuote struct {
	OriginalCents int64     `json:"original_cents"`
	FinalCents    int64     `json:"final_cents"`
	Applied       *Discount `json:"applied_discount,omitempty"`
}

type PricePreviewRequest struct {
	ItemKind   string `json:"item_kind"`
	Slug       string `json:"slug"`
	CouponCode string `json:"coupon_code,omitempty"`
}

type PricePreviewResponse struct {
	Item          Item      `json:"item"`
	OriginalCents int64     `json:"original_cents"`
	FinalCents    int64     `json:"final_cents"`
	Applied       *Discount `json:"applied_discount,omitempty"`
	SavingsCents  int64     `json:"savings_cents"`
	Cached        bool      `json:"cached"`
	PreviewedAt   string    `json:"previewed_at"`
}

type PublishRequest struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	Note       string `json:"note,omitempty"`
}

type PublishDraft struct {
	ID          string    `json:"id"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    string    `json:"entity_id"`
	Note        string    `json:"note,omitempty"`
	Payload     string    `json:"payload"`
	Status      string    `json:"status"`
	SubmittedBy string    `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PublishResponse struct {
	Draft PublishDraft `json:"draft"`
}

type AssetUploadResponse struct {
	PublicID    string            `json:"public_id"`
	URL         string            `json:"url"`
	DerivedURLs map[string]string `json:"derived_urls,omitempty"`
	Bytes       int64             `json:"bytes"`
	UploadedAt  string            `json:"uploaded_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

type EditorCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type EditorUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

const (
	DiscountKindCoupon = "coupon"
	DiscountKindAuto   = "auto"
)

const (
	DiscountStatusActive = "active"
	DiscountStatusPaused = "paused"
)

const (
	ValueKindPercent = "percent"
	ValueKindAmount  = "amount"
)

const (
	ItemKindProduct = "product"
	ItemKindBundle  = "bundle"
)

const (
	BundleModeFixed      = "fixed"
	BundleModePercentOff = "percent_off"
	BundleModeAmountOff  = "amount_off"
	BundleModeBogo       = "bogo"
)

const (
	DraftStatusSubmitted = "submitted"
	DraftStatusFailed    = "failed"
)
