package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownMarketplace is returned for marketplace types without a fee rule.
var ErrUnknownMarketplace = errors.New("unknown marketplace type")

// FeeQuery carries everything a fee rule may depend on.
type FeeQuery struct {
	Price      float64
	SellerType SellerType
	Mode       string
	FullSuper  bool
	WeightKg   float64
}

// FeeResult is the fee configuration a rule derives for one query. Not every
// rule fills every field.
type FeeResult struct {
	CommissionRate  float64 `json:"commission_rate"`
	FixedFee        float64 `json:"fixed_fee"`
	SellerSurcharge float64 `json:"seller_surcharge"`
	PixSubsidyRate  float64 `json:"pix_subsidy_rate"`
	PixSubsidyValue float64 `json:"pix_subsidy_value"`
	ShippingCost    float64 `json:"shipping_cost"`
}

// FeeRule derives a marketplace's fees from price and seller attributes.
// Implementations hold no mutable state.
type FeeRule interface {
	DeriveFees(q FeeQuery) FeeResult
}

// Rule returns the fee rule for marketplace type t.
func (s Schedule) Rule(t MarketplaceType) (FeeRule, error) {
	switch t {
	case MercadoLivre:
		return mercadoLivreRule{sched: s.MercadoLivre, shipping: s.Shipping}, nil
	case Shopee:
		return shopeeRule{sched: s.Shopee}, nil
	}
	if flat, ok := s.Flat[t]; ok {
		return flatRule{sched: flat}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMarketplace, t)
}

// DeriveFees derives the fees of marketplace type t under schedule s.
func DeriveFees(s Schedule, t MarketplaceType, q FeeQuery) (FeeResult, error) {
	rule, err := s.Rule(t)
	if err != nil {
		return FeeResult{}, err
	}
	q.Price = nonNegative(q.Price)
	q.WeightKg = nonNegative(q.WeightKg)
	return rule.DeriveFees(q), nil
}

type mercadoLivreRule struct {
	sched    MercadoLivreSchedule
	shipping ShippingTable
}

func (r mercadoLivreRule) DeriveFees(q FeeQuery) FeeResult {
	return FeeResult{
		CommissionRate: modeValue(r.sched.ModeCommission, q.Mode, r.sched.DefaultMode, 0),
		FixedFee:       r.sched.FixedFee(q.Price, q.FullSuper),
		ShippingCost:   r.shipping.Cost(q.WeightKg, q.Price),
	}
}

// FixedFee returns the Mercado Livre fixed fee for price. With Full Super the
// fee follows the per-unit price bands; otherwise a flat fee applies below the
// free shipping threshold.
func (s MercadoLivreSchedule) FixedFee(price float64, fullSuper bool) float64 {
	if !fullSuper {
		if price < s.FreeShippingThreshold {
			return s.StandardFixedFee
		}
		return 0
	}

	if price <= 0 {
		return 0
	}
	for _, band := range s.FullSuperBands {
		if price < band.Below {
			return band.Fee
		}
	}
	return s.FullSuperAboveFee
}

type shopeeRule struct {
	sched ShopeeSchedule
}

func (r shopeeRule) DeriveFees(q FeeQuery) FeeResult {
	s := r.sched
	price := q.Price
	tier := s.tier(price)

	commission := tier.CommissionRate
	if rate, ok := s.ModeCommission[modeOrDefault(q.Mode, s.DefaultMode)]; ok {
		commission = rate
	}

	fixedFee := s.Taper.apply(price, tier.FixedFee)
	fixedFee = s.Cap.apply(price, commission, fixedFee)

	surcharge := 0.0
	if q.SellerType == SellerCPF {
		surcharge = s.CPFSurcharge
	}

	return FeeResult{
		CommissionRate:  commission,
		FixedFee:        fixedFee + surcharge,
		SellerSurcharge: surcharge,
		PixSubsidyRate:  tier.PixSubsidyRate,
		PixSubsidyValue: s.PixSubsidyBasis.value(price, commission, tier.PixSubsidyRate),
	}
}

// tier returns the first tier whose inclusive upper bound covers price.
func (s ShopeeSchedule) tier(price float64) ShopeeTier {
	for _, t := range s.Tiers {
		if price <= t.UpTo {
			return t
		}
	}
	if len(s.Tiers) == 0 {
		return ShopeeTier{}
	}
	return s.Tiers[len(s.Tiers)-1]
}

func (t TaperRule) apply(price, normalFee float64) float64 {
	switch {
	case price > 0 && price < t.HalfPriceBelow:
		return price / 2
	case price >= t.Start && price < t.End && t.End > t.Start:
		fee := t.StartFee - (price-t.Start)/(t.End-t.Start)*(t.StartFee-t.EndFee)
		return math.Max(fee, normalFee)
	}
	return normalFee
}

func (c FeeCap) apply(price, commissionRate, fixedFee float64) float64 {
	if price <= 0 || price >= c.Below {
		return fixedFee
	}
	maxTotal := price * c.MaxRate / 100
	percentPart := price * commissionRate / 100
	if percentPart+fixedFee > maxTotal {
		return math.Max(0, maxTotal-percentPart)
	}
	return fixedFee
}

func (b SubsidyBasis) value(price, commissionRate, pixRate float64) float64 {
	if price <= 0 {
		return 0
	}
	switch b {
	case SubsidyOfPrice:
		return price * pixRate / 100
	case SubsidyOfCommission:
		return price * (commissionRate * pixRate / 100) / 100
	}
	return 0
}

type flatRule struct {
	sched FlatSchedule
}

func (r flatRule) DeriveFees(q FeeQuery) FeeResult {
	return FeeResult{
		CommissionRate: modeValue(r.sched.ModeCommission, q.Mode, r.sched.DefaultMode, r.sched.CommissionRate),
		FixedFee:       modeValue(r.sched.ModeFixedFee, q.Mode, r.sched.DefaultMode, r.sched.FixedFee),
	}
}

func modeOrDefault(mode, def string) string {
	if mode == "" {
		return def
	}
	return mode
}

func modeValue(values map[string]float64, mode, def string, fallback float64) float64 {
	if v, ok := values[modeOrDefault(mode, def)]; ok {
		return v
	}
	return fallback
}
