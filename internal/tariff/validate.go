package tariff

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Simplici0/mktcalc/internal/pricing"
)

// Validate checks the semantic constraints of a schedule and reports every
// violation at once.
func Validate(s pricing.Schedule) error {
	var errs []string

	if s.Version == "" {
		errs = append(errs, "version is required")
	}

	// shipping
	if len(s.Shipping.Bands) == 0 {
		errs = append(errs, "shipping.bands must not be empty")
	}
	if !ascending(s.Shipping.PriceColumns) {
		errs = append(errs, "shipping.price_columns must be strictly ascending")
	}
	prevKg := math.Inf(-1)
	for i, band := range s.Shipping.Bands {
		if band.MaxKg <= prevKg {
			errs = append(errs, fmt.Sprintf("shipping.bands[%d].max_kg must be greater than the previous band", i))
		}
		prevKg = band.MaxKg
		if len(band.Costs) != len(s.Shipping.PriceColumns)+1 {
			errs = append(errs, fmt.Sprintf("shipping.bands[%d] has %d costs, want %d", i, len(band.Costs), len(s.Shipping.PriceColumns)+1))
		}
		if anyNegative(band.Costs...) {
			errs = append(errs, fmt.Sprintf("shipping.bands[%d] has a negative cost", i))
		}
	}

	// mercadolivre
	ml := s.MercadoLivre
	errs = append(errs, checkModes("mercadolivre", ml.Modes, ml.DefaultMode, ml.ModeCommission)...)
	if anyNegative(ml.FreeShippingThreshold, ml.StandardFixedFee, ml.SubsidizedShipping, ml.FullSuperAboveFee) {
		errs = append(errs, "mercadolivre fees and thresholds must be >= 0")
	}
	prevBelow := math.Inf(-1)
	for i, band := range ml.FullSuperBands {
		if band.Below <= prevBelow {
			errs = append(errs, fmt.Sprintf("mercadolivre.full_super_bands[%d].below must be greater than the previous band", i))
		}
		prevBelow = band.Below
		if band.Fee < 0 {
			errs = append(errs, fmt.Sprintf("mercadolivre.full_super_bands[%d].fee must be >= 0", i))
		}
	}

	// shopee
	sh := s.Shopee
	errs = append(errs, checkModes("shopee", sh.Modes, sh.DefaultMode, sh.ModeCommission)...)
	if len(sh.Tiers) == 0 {
		errs = append(errs, "shopee.tiers must not be empty")
	}
	prevUpTo := math.Inf(-1)
	for i, tier := range sh.Tiers {
		if tier.UpTo <= prevUpTo {
			errs = append(errs, fmt.Sprintf("shopee.tiers[%d].up_to must be greater than the previous tier", i))
		}
		prevUpTo = tier.UpTo
		if anyNegative(tier.CommissionRate, tier.FixedFee, tier.PixSubsidyRate) {
			errs = append(errs, fmt.Sprintf("shopee.tiers[%d] has a negative rate or fee", i))
		}
	}
	if len(sh.Tiers) > 0 && !math.IsInf(sh.Tiers[len(sh.Tiers)-1].UpTo, 1) {
		errs = append(errs, "shopee.tiers must end with an open tier (up_to: .inf)")
	}
	if t := sh.Taper; t.End < t.Start || anyNegative(t.HalfPriceBelow, t.Start, t.StartFee, t.EndFee) {
		errs = append(errs, "shopee.taper must have 0 <= start <= end and fees >= 0")
	}
	if anyNegative(sh.Cap.Below, sh.Cap.MaxRate, sh.CPFSurcharge) {
		errs = append(errs, "shopee.cap and shopee.cpf_surcharge must be >= 0")
	}
	switch sh.PixSubsidyBasis {
	case pricing.SubsidyOfPrice, pricing.SubsidyOfCommission:
	default:
		errs = append(errs, fmt.Sprintf("shopee.pix_subsidy_basis %q must be %q or %q", sh.PixSubsidyBasis, pricing.SubsidyOfPrice, pricing.SubsidyOfCommission))
	}

	// flat
	for t, flat := range s.Flat {
		if !t.Valid() || t == pricing.MercadoLivre || t == pricing.Shopee {
			errs = append(errs, fmt.Sprintf("flat.%s is not a flat-rate marketplace", t))
			continue
		}
		errs = append(errs, checkModes("flat."+string(t), flat.Modes, flat.DefaultMode, flat.ModeCommission)...)
		if anyNegative(flat.CommissionRate, flat.FixedFee) || anyNegativeValue(flat.ModeFixedFee) {
			errs = append(errs, fmt.Sprintf("flat.%s fees must be >= 0", t))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("fee table validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func checkModes(section string, modes []string, def string, commission map[string]float64) []string {
	var errs []string
	if def != "" && !slices.Contains(modes, def) {
		errs = append(errs, fmt.Sprintf("%s.default_mode %q is not one of its modes", section, def))
	}
	for mode, rate := range commission {
		if !slices.Contains(modes, mode) {
			errs = append(errs, fmt.Sprintf("%s.mode_commission has unknown mode %q", section, mode))
		}
		if rate < 0 {
			errs = append(errs, fmt.Sprintf("%s.mode_commission.%s must be >= 0", section, mode))
		}
	}
	return errs
}

func ascending(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

func anyNegative(values ...float64) bool {
	for _, v := range values {
		if v < 0 || math.IsNaN(v) {
			return true
		}
	}
	return false
}

func anyNegativeValue(values map[string]float64) bool {
	for _, v := range values {
		if v < 0 || math.IsNaN(v) {
			return true
		}
	}
	return false
}
