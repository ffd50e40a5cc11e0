package pricing

import (
	"math"
	"sort"
	"strings"
	"time"

	"merchdesk/backend/internal/domain"
)

// ResolvePrice determines the displayed price of an item under a snapshot of
// discount definitions. It is a pure function: no I/O, no mutation of its
// inputs, deterministic for a fixed PricingContext.Now. It never fails;
// degenerate inputs resolve to the unmodified price so a preview render can
// always show a number.
func ResolvePrice(item domain.Item, discounts []domain.Discount, ctx domain.PricingContext) domain.PriceQuote {
	now := ctx.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	eligible := make([]domain.Discount, 0, len(discounts))
	for _, d := range discounts {
		if d.Status != domain.DiscountStatusActive {
			continue
		}
		if d.StartAt != nil && d.StartAt.After(now) {
			continue
		}
		if d.EndAt != nil && d.EndAt.Before(now) {
			continue
		}
		if !isEligible(d.Eligibility, item) {
			continue
		}
		eligible = append(eligible, d)
	}

	// A typed coupon code gates resolution to matching coupon discounts only;
	// without a code, only automatic discounts are considered. A coupon never
	// combines with auto discounts in one resolution.
	code := strings.TrimSpace(ctx.CouponCode)
	gated := eligible[:0:0]
	for _, d := range eligible {
		if code != "" {
			if d.Kind == domain.DiscountKindCoupon && strings.EqualFold(d.Code, code) {
				gated = append(gated, d)
			}
			continue
		}
		if d.Kind == domain.DiscountKindAuto {
			gated = append(gated, d)
		}
	}

	if len(gated) == 0 {
		return domain.PriceQuote{OriginalCents: item.PriceCents, FinalCents: item.PriceCents}
	}

	// Higher priority applies first; input order preserved for ties.
	sort.SliceStable(gated, func(i, j int) bool {
		return gated[i].Stacking.Priority > gated[j].Stacking.Priority
	})

	for _, d := range gated {
		if d.Stacking.Exclusive {
			gated = []domain.Discount{d}
			break
		}
	}

	price := item.PriceCents
	var applied *domain.Discount
	for i := range gated {
		reduced := applyValue(price, gated[i].Value)
		if reduced < price {
			price = reduced
			applied = &gated[i]
			if gated[i].Stacking.Exclusive {
				break
			}
		}
	}

	return domain.PriceQuote{
		OriginalCents: item.PriceCents,
		FinalCents:    price,
		Applied:       applied,
	}
}

func isEligible(e domain.Eligibility, item domain.Item) bool {
	if e.All {
		return true
	}
	switch item.Kind {
	case domain.ItemKindProduct:
		for _, slug := range e.ProductSlugs {
			if slug == item.ID || slug == item.Slug {
				return true
			}
		}
	case domain.ItemKindBundle:
		for _, id := range e.BundleIDs {
			if id == item.ID {
				return true
			}
		}
	}
	if item.Category != "" {
		for _, category := range e.Categories {
			if category == item.Category {
				return true
			}
		}
	}
	return false
}

// applyValue subtracts the discount value from price, clamped at zero.
// A zero or malformed value leaves the price unchanged.
func applyValue(price int64, value domain.DiscountValue) int64 {
	var reduction int64
	switch value.Kind {
	case domain.ValueKindPercent:
		if value.Percent <= 0 {
			return price
		}
		reduction = int64(math.Round(float64(price) * value.Percent / 100))
	case domain.ValueKindAmount:
		if value.AmountCents <= 0 {
			return price
		}
		reduction = value.AmountCents
	default:
		return price
	}
	if reduction >= price {
		return 0
	}
	return price - reduction
}

// ComputeBundlePrice computes a bundle's selling price from its composition
// and a caller-supplied product lookup map. Missing products contribute zero
// to the base price; malformed policy parameters fall back to the base price.
// Pure and total, like ResolvePrice.
func ComputeBundlePrice(bundle domain.Bundle, products map[string]domain.Product) int64 {
	if len(bundle.Composition) == 0 {
		return 0
	}

	base := bundleBasePrice(bundle, products)

	switch bundle.Pricing.Mode {
	case domain.BundleModeFixed:
		if bundle.Pricing.FixedPriceCents != nil {
			return *bundle.Pricing.FixedPriceCents
		}
		return base
	case domain.BundleModePercentOff:
		if bundle.Pricing.PercentOff == nil {
			return base
		}
		discounted := int64(math.Round(float64(base) * (1 - *bundle.Pricing.PercentOff/100)))
		if discounted < 0 {
			return 0
		}
		return discounted
	case domain.BundleModeAmountOff:
		if bundle.Pricing.AmountOffCents == nil {
			return base
		}
		discounted := base - *bundle.Pricing.AmountOffCents
		if discounted < 0 {
			return 0
		}
		return discounted
	case domain.BundleModeBogo:
		return bogoPrice(bundle, products, base)
	default:
		return base
	}
}

// ComputeSavings is the customer-facing "you save" figure: base price minus
// effective price, never negative.
func ComputeSavings(bundle domain.Bundle, products map[string]domain.Product) int64 {
	base := bundleBasePrice(bundle, products)
	savings := base - ComputeBundlePrice(bundle, products)
	if savings < 0 {
		return 0
	}
	return savings
}

// BundleBasePrice is the sum-of-parts price of a bundle against the given
// product snapshot. Missing products contribute zero.
func BundleBasePrice(bundle domain.Bundle, products map[string]domain.Product) int64 {
	return bundleBasePrice(bundle, products)
}

func bundleBasePrice(bundle domain.Bundle, products map[string]domain.Product) int64 {
	var base int64
	for _, line := range bundle.Composition {
		product, ok := products[line.ProductSlug]
		if !ok {
			continue
		}
		base += product.PriceCents * int64(line.Quantity)
	}
	return base
}

func bogoPrice(bundle domain.Bundle, products map[string]domain.Product, base int64) int64 {
	params := bundle.Pricing.Bogo
	if params == nil || params.Buy < 1 || params.Get < 1 {
		return base
	}

	cheapest := int64(-1)
	totalQty := 0
	for _, line := range bundle.Composition {
		totalQty += line.Quantity
		product, ok := products[line.ProductSlug]
		if !ok {
			continue
		}
		if cheapest < 0 || product.PriceCents < cheapest {
			cheapest = product.PriceCents
		}
	}
	if cheapest < 0 {
		// No composition product resolved, so there is no unit to give away.
		return base
	}

	freeUnits := totalQty / (params.Buy + params.Get) * params.Get
	discounted := base - int64(freeUnits)*cheapest
	if discounted < 0 {
		return 0
	}
	return discounted
}
