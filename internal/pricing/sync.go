package pricing

// Sync keeps a Mercado Livre slot's auto-managed fields in line with the
// selling price and reports whether cfg changed. Other marketplace types are
// returned as is.
//
// The fixed fee follows the Full Super bands or the flat fee below the free
// shipping threshold. At or above the threshold a shipping cost still at zero
// is set to the subsidized value once. Fields the user edited are never
// rewritten, and running Sync again with the same price changes nothing.
func Sync(cfg MarketplaceConfig, price float64, s MercadoLivreSchedule) (MarketplaceConfig, bool) {
	if cfg.Type != MercadoLivre {
		return cfg, false
	}

	price = nonNegative(price)
	out := cfg
	changed := false

	if !cfg.UserEdited.FixedFee {
		if fee := s.FixedFee(price, cfg.IsFullSuper); cfg.FixedFee != fee {
			out.FixedFee = fee
			changed = true
		}
	}

	if !cfg.UserEdited.ShippingCost && price >= s.FreeShippingThreshold && cfg.ShippingCost == 0 && s.SubsidizedShipping != 0 {
		out.ShippingCost = s.SubsidizedShipping
		changed = true
	}

	return out, changed
}

// SyncAll applies Sync to every config and reports whether any changed. The
// input slice is not modified.
func SyncAll(configs []MarketplaceConfig, price float64, s MercadoLivreSchedule) ([]MarketplaceConfig, bool) {
	out := make([]MarketplaceConfig, len(configs))
	changed := false
	for i, cfg := range configs {
		var c bool
		out[i], c = Sync(cfg, price, s)
		changed = changed || c
	}
	return out, changed
}
