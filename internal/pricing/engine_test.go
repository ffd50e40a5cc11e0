package pricing

import (
	"testing"
	"time"

	"merchdesk/backend/internal/domain"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testItem(priceCents int64) domain.Item {
	return domain.Item{
		ID:         "prod-tee",
		Kind:       domain.ItemKindProduct,
		PriceCents: priceCents,
		Currency:   "USD",
		Category:   "apparel",
		Slug:       "prod-tee",
	}
}

func percentDiscount(id string, percent float64, priority int, exclusive bool) domain.Discount {
	return domain.Discount{
		ID:          id,
		Name:        id,
		Kind:        domain.DiscountKindAuto,
		Value:       domain.DiscountValue{Kind: domain.ValueKindPercent, Percent: percent},
		Eligibility: domain.Eligibility{All: true},
		Stacking:    domain.Stacking{Exclusive: exclusive, Priority: priority},
		Status:      domain.DiscountStatusActive,
	}
}

func amountDiscount(id string, amountCents int64, priority int) domain.Discount {
	return domain.Discount{
		ID:          id,
		Name:        id,
		Kind:        domain.DiscountKindAuto,
		Value:       domain.DiscountValue{Kind: domain.ValueKindAmount, AmountCents: amountCents, Currency: "USD"},
		Eligibility: domain.Eligibility{All: true},
		Stacking:    domain.Stacking{Priority: priority},
		Status:      domain.DiscountStatusActive,
	}
}

func TestResolvePriceSingleAutoPercent(t *testing.T) {
	quote := ResolvePrice(testItem(1000), []domain.Discount{
		percentDiscount("spring20", 20, 0, false),
	}, domain.PricingContext{Now: testNow})

	if quote.OriginalCents != 1000 {
		t.Fatalf("expected original 1000, got %d", quote.OriginalCents)
	}
	if quote.FinalCents != 800 {
		t.Fatalf("expected final 800, got %d", quote.FinalCents)
	}
	if quote.Applied == nil || quote.Applied.ID != "spring20" {
		t.Fatalf("expected spring20 to be applied, got %+v", quote.Applied)
	}
}

func TestResolvePriceStacksSequentiallyByPriority(t *testing.T) {
	// 10% first (priority 1): 1000 -> 900, then flat 50: 900 -> 850.
	// Compounding applies to the already-reduced price, not the original.
	quote := ResolvePrice(testItem(1000), []domain.Discount{
		amountDiscount("flat50", 50, 0),
		percentDiscount("ten", 10, 1, false),
	}, domain.PricingContext{Now: testNow})

	if quote.FinalCents != 850 {
		t.Fatalf("expected final 850, got %d", quote.FinalCents)
	}
	if quote.Applied == nil || quote.Applied.ID != "flat50" {
		t.Fatalf("expected last reducing discount flat50, got %+v", quote.Applied)
	}
}

func TestResolvePriceNoDiscounts(t *testing.T) {
	quote := ResolvePrice(testItem(1000), nil, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 || quote.Applied != nil {
		t.Fatalf("expected unmodified price with no applied discount, got %+v", quote)
	}
}

func TestResolvePriceCouponRequiresMatchingCode(t *testing.T) {
	coupon := domain.Discount{
		ID:          "save10",
		Kind:        domain.DiscountKindCoupon,
		Code:        "SAVE10",
		Value:       domain.DiscountValue{Kind: domain.ValueKindPercent, Percent: 10},
		Eligibility: domain.Eligibility{All: true},
		Status:      domain.DiscountStatusActive,
	}

	// No code typed: the coupon is not applied even though it is eligible.
	quote := ResolvePrice(testItem(1000), []domain.Discount{coupon}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 || quote.Applied != nil {
		t.Fatalf("expected coupon to be gated out without a code, got %+v", quote)
	}

	// Matching code, case-insensitive.
	quote = ResolvePrice(testItem(1000), []domain.Discount{coupon}, domain.PricingContext{Now: testNow, CouponCode: "save10"})
	if quote.FinalCents != 900 {
		t.Fatalf("expected 900 with coupon code, got %d", quote.FinalCents)
	}

	// Wrong code: nothing applies.
	quote = ResolvePrice(testItem(1000), []domain.Discount{coupon}, domain.PricingContext{Now: testNow, CouponCode: "OTHER"})
	if quote.FinalCents != 1000 {
		t.Fatalf("expected unmodified price with wrong code, got %d", quote.FinalCents)
	}
}

func TestResolvePriceCouponCodeSuppressesAutoDiscounts(t *testing.T) {
	coupon := domain.Discount{
		ID:          "save10",
		Kind:        domain.DiscountKindCoupon,
		Code:        "SAVE10",
		Value:       domain.DiscountValue{Kind: domain.ValueKindPercent, Percent: 10},
		Eligibility: domain.Eligibility{All: true},
		Status:      domain.DiscountStatusActive,
	}
	auto := percentDiscount("auto20", 20, 5, false)

	quote := ResolvePrice(testItem(1000), []domain.Discount{auto, coupon}, domain.PricingContext{Now: testNow, CouponCode: "SAVE10"})
	if quote.FinalCents != 900 {
		t.Fatalf("expected only the coupon to apply (900), got %d", quote.FinalCents)
	}
	if quote.Applied == nil || quote.Applied.ID != "save10" {
		t.Fatalf("expected save10 applied, got %+v", quote.Applied)
	}
}

func TestResolvePriceWindowFiltering(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	expired := percentDiscount("expired", 50, 0, false)
	expired.EndAt = &past

	upcoming := percentDiscount("upcoming", 50, 0, false)
	upcoming.StartAt = &future

	quote := ResolvePrice(testItem(1000), []domain.Discount{expired, upcoming}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 {
		t.Fatalf("expected out-of-window discounts to be filtered, got %d", quote.FinalCents)
	}

	// Inclusive bounds: startAt == now and endAt == now are both valid.
	edged := percentDiscount("edged", 20, 0, false)
	startAt := testNow
	endAt := testNow
	edged.StartAt = &startAt
	edged.EndAt = &endAt
	quote = ResolvePrice(testItem(1000), []domain.Discount{edged}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 800 {
		t.Fatalf("expected inclusive window bounds to apply, got %d", quote.FinalCents)
	}
}

func TestResolvePricePausedDiscountIgnored(t *testing.T) {
	paused := percentDiscount("paused", 50, 0, false)
	paused.Status = domain.DiscountStatusPaused

	quote := ResolvePrice(testItem(1000), []domain.Discount{paused}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 {
		t.Fatalf("expected paused discount to be ignored, got %d", quote.FinalCents)
	}
}

func TestResolvePriceEligibilityAllowLists(t *testing.T) {
	bySlug := percentDiscount("by-slug", 10, 0, false)
	bySlug.Eligibility = domain.Eligibility{ProductSlugs: []string{"prod-tee"}}

	byCategory := percentDiscount("by-category", 10, 0, false)
	byCategory.Eligibility = domain.Eligibility{Categories: []string{"apparel"}}

	byOther := percentDiscount("by-other", 10, 0, false)
	byOther.Eligibility = domain.Eligibility{ProductSlugs: []string{"prod-mug"}, Categories: []string{"kitchen"}}

	quote := ResolvePrice(testItem(1000), []domain.Discount{bySlug}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 900 {
		t.Fatalf("expected slug allow-list to match, got %d", quote.FinalCents)
	}

	quote = ResolvePrice(testItem(1000), []domain.Discount{byCategory}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 900 {
		t.Fatalf("expected category allow-list to match, got %d", quote.FinalCents)
	}

	quote = ResolvePrice(testItem(1000), []domain.Discount{byOther}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 {
		t.Fatalf("expected non-matching allow-list to filter, got %d", quote.FinalCents)
	}

	// Bundle ids match only bundle items.
	bundleOnly := percentDiscount("bundle-only", 10, 0, false)
	bundleOnly.Eligibility = domain.Eligibility{BundleIDs: []string{"bnd-1"}}
	bundleItem := domain.Item{ID: "bnd-1", Kind: domain.ItemKindBundle, PriceCents: 1000}
	quote = ResolvePrice(bundleItem, []domain.Discount{bundleOnly}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 900 {
		t.Fatalf("expected bundle allow-list to match bundle item, got %d", quote.FinalCents)
	}
	quote = ResolvePrice(testItem(1000), []domain.Discount{bundleOnly}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 {
		t.Fatalf("expected bundle allow-list to skip product item, got %d", quote.FinalCents)
	}
}

func TestResolvePriceExclusiveSuppressesOthers(t *testing.T) {
	exclusive := percentDiscount("vip", 30, 1, true)
	stackable := percentDiscount("extra", 50, 9, false)

	quote := ResolvePrice(testItem(1000), []domain.Discount{stackable, exclusive}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 700 {
		t.Fatalf("expected only the exclusive discount (700), got %d", quote.FinalCents)
	}
	if quote.Applied == nil || quote.Applied.ID != "vip" {
		t.Fatalf("expected exclusive discount applied, got %+v", quote.Applied)
	}
}

func TestResolvePriceHighestPriorityExclusiveWins(t *testing.T) {
	low := percentDiscount("excl-low", 10, 1, true)
	high := percentDiscount("excl-high", 20, 5, true)

	quote := ResolvePrice(testItem(1000), []domain.Discount{low, high}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 800 {
		t.Fatalf("expected highest-priority exclusive (800), got %d", quote.FinalCents)
	}
	if quote.Applied == nil || quote.Applied.ID != "excl-high" {
		t.Fatalf("expected excl-high applied, got %+v", quote.Applied)
	}
}

func TestResolvePriceZeroValueNotRecorded(t *testing.T) {
	zeroPercent := percentDiscount("zero", 0, 0, false)
	quote := ResolvePrice(testItem(1000), []domain.Discount{zeroPercent}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 || quote.Applied != nil {
		t.Fatalf("expected zero-value discount not to apply, got %+v", quote)
	}

	zeroAmount := amountDiscount("zero-amount", 0, 0)
	quote = ResolvePrice(testItem(1000), []domain.Discount{zeroAmount}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 1000 || quote.Applied != nil {
		t.Fatalf("expected zero-amount discount not to apply, got %+v", quote)
	}
}

func TestResolvePriceClampsAtZero(t *testing.T) {
	quote := ResolvePrice(testItem(100), []domain.Discount{
		amountDiscount("huge", 5000, 0),
	}, domain.PricingContext{Now: testNow})
	if quote.FinalCents != 0 {
		t.Fatalf("expected clamp at 0, got %d", quote.FinalCents)
	}
	if quote.Applied == nil || quote.Applied.ID != "huge" {
		t.Fatalf("expected the clamping discount to be recorded, got %+v", quote.Applied)
	}
}

func TestResolvePriceInvariants(t *testing.T) {
	discounts := []domain.Discount{
		percentDiscount("a", 15, 3, false),
		amountDiscount("b", 120, 2),
		percentDiscount("c", 40, 7, true),
		amountDiscount("d", 9999, 1),
	}
	for _, price := range []int64{0, 1, 37, 500, 99999} {
		item := testItem(price)
		quote := ResolvePrice(item, discounts, domain.PricingContext{Now: testNow})
		if quote.FinalCents < 0 {
			t.Fatalf("price %d: final below zero: %d", price, quote.FinalCents)
		}
		if quote.FinalCents > quote.OriginalCents {
			t.Fatalf("price %d: final above original: %+v", price, quote)
		}
		again := ResolvePrice(item, discounts, domain.PricingContext{Now: testNow})
		if again != quote && (again.FinalCents != quote.FinalCents || again.OriginalCents != quote.OriginalCents) {
			t.Fatalf("price %d: resolution not idempotent", price)
		}
		// Exclusivity dominance: discount c is eligible and exclusive, so
		// whatever applies must be c.
		if quote.Applied != nil && quote.Applied.ID != "c" {
			t.Fatalf("price %d: expected exclusive discount c to dominate, got %s", price, quote.Applied.ID)
		}
	}
}

func TestResolvePriceDoesNotMutateInput(t *testing.T) {
	discounts := []domain.Discount{
		amountDiscount("flat50", 50, 0),
		percentDiscount("ten", 10, 1, false),
	}
	ResolvePrice(testItem(1000), discounts, domain.PricingContext{Now: testNow})
	if discounts[0].ID != "flat50" || discounts[1].ID != "ten" {
		t.Fatalf("input slice order mutated: %s, %s", discounts[0].ID, discounts[1].ID)
	}
}

func fixedBundle(composition []domain.BundleItem, pricing domain.BundlePricing) domain.Bundle {
	return domain.Bundle{
		ID:          "bnd-test",
		Slug:        "bnd-test",
		Composition: composition,
		Pricing:     pricing,
		Active:      true,
	}
}

func productMap(prices map[string]int64) map[string]domain.Product {
	out := make(map[string]domain.Product, len(prices))
	for slug, price := range prices {
		out[slug] = domain.Product{Slug: slug, PriceCents: price, Active: true}
	}
	return out
}

func TestComputeBundlePriceFixed(t *testing.T) {
	fixedPrice := int64(350)
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 2}, {ProductSlug: "b", Quantity: 1}},
		domain.BundlePricing{Mode: domain.BundleModeFixed, FixedPriceCents: &fixedPrice},
	)
	products := productMap(map[string]int64{"a": 100, "b": 200})

	if got := ComputeBundlePrice(bundle, products); got != 350 {
		t.Fatalf("expected 350, got %d", got)
	}
	if got := ComputeSavings(bundle, products); got != 50 {
		t.Fatalf("expected savings 50, got %d", got)
	}
}

func TestComputeBundlePriceFixedWithoutPriceFallsBack(t *testing.T) {
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 2}},
		domain.BundlePricing{Mode: domain.BundleModeFixed},
	)
	products := productMap(map[string]int64{"a": 100})
	if got := ComputeBundlePrice(bundle, products); got != 200 {
		t.Fatalf("expected base price fallback 200, got %d", got)
	}
}

func TestComputeBundlePricePercentOff(t *testing.T) {
	percentOff := 25.0
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 4}},
		domain.BundlePricing{Mode: domain.BundleModePercentOff, PercentOff: &percentOff},
	)
	products := productMap(map[string]int64{"a": 100})
	if got := ComputeBundlePrice(bundle, products); got != 300 {
		t.Fatalf("expected 300, got %d", got)
	}

	bundle.Pricing.PercentOff = nil
	if got := ComputeBundlePrice(bundle, products); got != 400 {
		t.Fatalf("expected base fallback 400, got %d", got)
	}
}

func TestComputeBundlePriceAmountOff(t *testing.T) {
	amountOff := int64(150)
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 1}},
		domain.BundlePricing{Mode: domain.BundleModeAmountOff, AmountOffCents: &amountOff},
	)
	products := productMap(map[string]int64{"a": 100})
	if got := ComputeBundlePrice(bundle, products); got != 0 {
		t.Fatalf("expected clamp at 0, got %d", got)
	}

	amountOff = 30
	if got := ComputeBundlePrice(bundle, products); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
}

func TestComputeBundlePriceBogo(t *testing.T) {
	// Buy 2 get 1 across 6 units of a single product at 50:
	// freeUnits = floor(6/3)*1 = 2, discount = 100.
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 6}},
		domain.BundlePricing{Mode: domain.BundleModeBogo, Bogo: &domain.BogoParams{Buy: 2, Get: 1}},
	)
	products := productMap(map[string]int64{"a": 50})

	base := int64(300)
	if got := ComputeBundlePrice(bundle, products); got != base-100 {
		t.Fatalf("expected %d, got %d", base-100, got)
	}
	if got := ComputeSavings(bundle, products); got != 100 {
		t.Fatalf("expected savings 100, got %d", got)
	}
}

func TestComputeBundlePriceBogoUsesCheapestUnit(t *testing.T) {
	bundle := fixedBundle(
		[]domain.BundleItem{
			{ProductSlug: "a", Quantity: 2},
			{ProductSlug: "b", Quantity: 1},
		},
		domain.BundlePricing{Mode: domain.BundleModeBogo, Bogo: &domain.BogoParams{Buy: 2, Get: 1}},
	)
	products := productMap(map[string]int64{"a": 200, "b": 80})

	// base = 480, totalQty = 3, freeUnits = 1, cheapest = 80.
	if got := ComputeBundlePrice(bundle, products); got != 400 {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestComputeBundlePriceBogoMissingParamsFallsBack(t *testing.T) {
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 6}},
		domain.BundlePricing{Mode: domain.BundleModeBogo},
	)
	products := productMap(map[string]int64{"a": 50})
	if got := ComputeBundlePrice(bundle, products); got != 300 {
		t.Fatalf("expected base fallback 300, got %d", got)
	}
}

func TestComputeBundlePriceMissingProductsSkipped(t *testing.T) {
	fixedPrice := int64(90)
	bundle := fixedBundle(
		[]domain.BundleItem{
			{ProductSlug: "gone", Quantity: 3},
			{ProductSlug: "a", Quantity: 1},
		},
		domain.BundlePricing{Mode: domain.BundleModeFixed, FixedPriceCents: &fixedPrice},
	)
	products := productMap(map[string]int64{"a": 100})
	if got := ComputeBundlePrice(bundle, products); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	// Savings against a base of 100 (missing product contributes zero).
	if got := ComputeSavings(bundle, products); got != 10 {
		t.Fatalf("expected savings 10, got %d", got)
	}
}

func TestComputeBundlePriceBogoAllProductsMissing(t *testing.T) {
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "gone", Quantity: 6}},
		domain.BundlePricing{Mode: domain.BundleModeBogo, Bogo: &domain.BogoParams{Buy: 1, Get: 1}},
	)
	if got := ComputeBundlePrice(bundle, map[string]domain.Product{}); got != 0 {
		t.Fatalf("expected base price 0 with all products missing, got %d", got)
	}
}

func TestComputeBundlePriceEmptyComposition(t *testing.T) {
	bundle := fixedBundle(nil, domain.BundlePricing{Mode: domain.BundleModeFixed})
	if got := ComputeBundlePrice(bundle, productMap(map[string]int64{"a": 100})); got != 0 {
		t.Fatalf("expected 0 for empty composition, got %d", got)
	}
}

func TestComputeBundlePriceUnknownModeFallsBack(t *testing.T) {
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 2}},
		domain.BundlePricing{Mode: "clearance"},
	)
	products := productMap(map[string]int64{"a": 100})
	if got := ComputeBundlePrice(bundle, products); got != 200 {
		t.Fatalf("expected base fallback 200, got %d", got)
	}
}

func TestComputeSavingsNeverNegative(t *testing.T) {
	fixedPrice := int64(1000)
	bundle := fixedBundle(
		[]domain.BundleItem{{ProductSlug: "a", Quantity: 1}},
		domain.BundlePricing{Mode: domain.BundleModeFixed, FixedPriceCents: &fixedPrice},
	)
	products := productMap(map[string]int64{"a": 100})
	// Fixed price above base: effective > base, savings clamp to 0.
	if got := ComputeSavings(bundle, products); got != 0 {
		t.Fatalf("expected 0 savings, got %d", got)
	}
}
