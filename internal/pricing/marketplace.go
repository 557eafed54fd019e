package pricing

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownMode is returned when a mode is not offered by a marketplace.
	ErrUnknownMode = errors.New("unknown marketplace mode")
	// ErrInvalidEdit is returned by ApplyEdit for out-of-range values.
	ErrInvalidEdit = errors.New("invalid marketplace edit")
)

// DefaultMarketplaces returns the marketplace slots a new session starts with.
func DefaultMarketplaces() []MarketplaceConfig {
	return []MarketplaceConfig{
		{
			ID:               "ml",
			Type:             MercadoLivre,
			Name:             "Mercado Livre",
			IsEnabled:        true,
			CommissionRate:   12,
			ExtraOption:      "listingType",
			ExtraOptionValue: "classic",
		},
		{
			ID:               "shopee",
			Type:             Shopee,
			Name:             "Shopee",
			IsEnabled:        true,
			CommissionRate:   20,
			FixedFee:         4.00,
			ExtraOption:      "program",
			ExtraOptionValue: "free_shipping",
			SellerType:       SellerCNPJ,
		},
		{
			ID:               "amazon",
			Type:             Amazon,
			Name:             "Amazon",
			IsEnabled:        true,
			CommissionRate:   15,
			FixedFee:         8.50,
			ExtraOption:      "logistics",
			ExtraOptionValue: "fba",
		},
		{
			ID:             "magalu",
			Type:           Magalu,
			Name:           "Magalu",
			IsEnabled:      true,
			CommissionRate: 16,
		},
		{
			ID:             "shein",
			Type:           Shein,
			Name:           "Shein",
			IsEnabled:      true,
			CommissionRate: 16,
		},
		{
			ID:               "tiktok",
			Type:             TikTok,
			Name:             "TikTok",
			IsEnabled:        true,
			CommissionRate:   8,
			ExtraOption:      "type",
			ExtraOptionValue: "standard",
		},
	}
}

// Modes lists the modes marketplace type t offers under s.
func (s Schedule) Modes(t MarketplaceType) []string {
	switch t {
	case MercadoLivre:
		return s.MercadoLivre.Modes
	case Shopee:
		return s.Shopee.Modes
	}
	return s.Flat[t].Modes
}

// ApplyMode switches cfg to mode, rewriting the commission and fixed fee that
// depend on it. Rewritten fields are no longer considered user edited.
func ApplyMode(cfg MarketplaceConfig, mode string, s Schedule) (MarketplaceConfig, error) {
	if !slices.Contains(s.Modes(cfg.Type), mode) {
		return cfg, fmt.Errorf("%w: %q for %s", ErrUnknownMode, mode, cfg.Type)
	}

	out := cfg
	out.ExtraOptionValue = mode

	var commission, fixedFee map[string]float64
	switch cfg.Type {
	case MercadoLivre:
		commission = s.MercadoLivre.ModeCommission
	case Shopee:
		commission = s.Shopee.ModeCommission
	default:
		commission = s.Flat[cfg.Type].ModeCommission
		fixedFee = s.Flat[cfg.Type].ModeFixedFee
	}

	if rate, ok := commission[mode]; ok {
		out.CommissionRate = rate
	}
	if fee, ok := fixedFee[mode]; ok {
		out.FixedFee = fee
		out.UserEdited.FixedFee = false
	}
	return out, nil
}

// Edit is a partial update of a MarketplaceConfig made by the user. Nil
// fields are left unchanged.
type Edit struct {
	Name                   *string     `json:"name,omitempty"`
	IsEnabled              *bool       `json:"is_enabled,omitempty"`
	Mode                   *string     `json:"mode,omitempty"`
	IsFullSuper            *bool       `json:"is_full_super,omitempty"`
	SellerType             *SellerType `json:"seller_type,omitempty"`
	CommissionRate         *float64    `json:"commission_rate,omitempty"`
	FixedFee               *float64    `json:"fixed_fee,omitempty"`
	ShippingCost           *float64    `json:"shipping_cost,omitempty"`
	AnticipationFee        *float64    `json:"anticipation_fee,omitempty"`
	ShippingThreshold      *float64    `json:"shipping_threshold,omitempty"`
	ClearShippingThreshold bool        `json:"clear_shipping_threshold,omitempty"`
}

// ApplyEdit returns cfg with e applied. Setting the fixed fee or the shipping
// cost marks that field as user edited so Sync leaves it alone; toggling Full
// Super hands the fixed fee back to Sync.
func ApplyEdit(cfg MarketplaceConfig, e Edit, s Schedule) (MarketplaceConfig, error) {
	out := cfg
	var err error

	if e.Mode != nil {
		if out, err = ApplyMode(out, *e.Mode, s); err != nil {
			return cfg, err
		}
	}
	if e.Name != nil {
		out.Name = *e.Name
	}
	if e.IsEnabled != nil {
		out.IsEnabled = *e.IsEnabled
	}
	if e.IsFullSuper != nil {
		if cfg.Type != MercadoLivre {
			return cfg, fmt.Errorf("%w: is_full_super only applies to %s", ErrInvalidEdit, MercadoLivre)
		}
		if out.IsFullSuper != *e.IsFullSuper {
			out.UserEdited.FixedFee = false
		}
		out.IsFullSuper = *e.IsFullSuper
	}
	if e.SellerType != nil {
		if *e.SellerType != SellerCNPJ && *e.SellerType != SellerCPF {
			return cfg, fmt.Errorf("%w: seller_type must be %s or %s", ErrInvalidEdit, SellerCNPJ, SellerCPF)
		}
		out.SellerType = *e.SellerType
	}

	fields := []struct {
		name  string
		value *float64
		dst   *float64
	}{
		{"commission_rate", e.CommissionRate, &out.CommissionRate},
		{"fixed_fee", e.FixedFee, &out.FixedFee},
		{"shipping_cost", e.ShippingCost, &out.ShippingCost},
		{"anticipation_fee", e.AnticipationFee, &out.AnticipationFee},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if finite(*f.value) != *f.value || *f.value < 0 {
			return cfg, fmt.Errorf("%w: %s must be a number >= 0", ErrInvalidEdit, f.name)
		}
		*f.dst = *f.value
	}
	if e.FixedFee != nil {
		out.UserEdited.FixedFee = true
	}
	if e.ShippingCost != nil {
		out.UserEdited.ShippingCost = true
	}

	switch {
	case e.ClearShippingThreshold:
		out.ShippingThreshold = nil
	case e.ShippingThreshold != nil:
		if finite(*e.ShippingThreshold) != *e.ShippingThreshold || *e.ShippingThreshold < 0 {
			return cfg, fmt.Errorf("%w: shipping_threshold must be a number >= 0", ErrInvalidEdit)
		}
		threshold := *e.ShippingThreshold
		out.ShippingThreshold = &threshold
	}

	return out, nil
}

// ApplyFees copies a derived fee configuration into cfg, leaving fields the
// user edited by hand untouched.
func ApplyFees(cfg MarketplaceConfig, fees FeeResult) MarketplaceConfig {
	out := cfg
	out.CommissionRate = fees.CommissionRate
	if !cfg.UserEdited.FixedFee {
		out.FixedFee = fees.FixedFee
	}
	if !cfg.UserEdited.ShippingCost && fees.ShippingCost > 0 {
		out.ShippingCost = fees.ShippingCost
	}
	return out
}
