package pricing

import (
	"errors"
	"testing"
)

func shopeeFees(t *testing.T, s Schedule, q FeeQuery) FeeResult {
	t.Helper()
	fees, err := DeriveFees(s, Shopee, q)
	if err != nil {
		t.Fatalf("DeriveFees: %v", err)
	}
	return fees
}

func TestDeriveFees_ShopeeTiers(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		price          float64
		wantCommission float64
		wantFixed      float64
		wantPixRate    float64
		wantPixValue   float64
	}{
		{price: 12, wantCommission: 20, wantFixed: 4},
		{price: 50, wantCommission: 20, wantFixed: 4},
		{price: 79.99, wantCommission: 20, wantFixed: 4},
		{price: 80, wantCommission: 14, wantFixed: 16, wantPixRate: 5, wantPixValue: 0.56},
		{price: 100, wantCommission: 14, wantFixed: 20, wantPixRate: 5, wantPixValue: 0.70},
		{price: 199.99, wantCommission: 14, wantFixed: 20, wantPixRate: 5, wantPixValue: 199.99 * 0.007},
		{price: 300, wantCommission: 14, wantFixed: 26, wantPixRate: 5, wantPixValue: 2.10},
		{price: 600, wantCommission: 14, wantFixed: 26, wantPixRate: 8, wantPixValue: 6.72},
	}

	for _, tc := range tests {
		fees := shopeeFees(t, s, FeeQuery{Price: tc.price, SellerType: SellerCNPJ})
		nearlyEqual(t, "commissionRate", fees.CommissionRate, tc.wantCommission)
		nearlyEqual(t, "fixedFee", fees.FixedFee, tc.wantFixed)
		nearlyEqual(t, "pixSubsidyRate", fees.PixSubsidyRate, tc.wantPixRate)
		nearlyEqual(t, "pixSubsidyValue", fees.PixSubsidyValue, tc.wantPixValue)
	}
}

func TestDeriveFees_ShopeeRegressiveTaperWithoutCap(t *testing.T) {
	s := DefaultSchedule()
	s.Shopee.Cap = FeeCap{}

	nearlyEqual(t, "fixedFee at 6", shopeeFees(t, s, FeeQuery{Price: 6}).FixedFee, 3.00)
	nearlyEqual(t, "fixedFee at 8", shopeeFees(t, s, FeeQuery{Price: 8}).FixedFee, 6.50)
	nearlyEqual(t, "fixedFee at 10", shopeeFees(t, s, FeeQuery{Price: 10}).FixedFee, 5.25)

	at9 := shopeeFees(t, s, FeeQuery{Price: 9}).FixedFee
	if at9 <= 4 || at9 >= 6.50 {
		t.Fatalf("fixedFee at 9 = %v, want strictly between 4 and 6.50", at9)
	}
	nearlyEqual(t, "fixedFee at 9", at9, 5.875)
}

func TestDeriveFees_ShopeeSmallItemCap(t *testing.T) {
	s := DefaultSchedule()

	// 20% commission already uses the whole 20% allowance below R$12.
	for _, price := range []float64{6, 9, 11.99} {
		fees := shopeeFees(t, s, FeeQuery{Price: price})
		nearlyEqual(t, "capped fixedFee", fees.FixedFee, 0)
	}

	s.Shopee.ModeCommission = map[string]float64{"standard": 14, "free_shipping": 20}
	fees := shopeeFees(t, s, FeeQuery{Price: 9, Mode: "standard"})
	nearlyEqual(t, "commission", fees.CommissionRate, 14)
	nearlyEqual(t, "fixedFee under cap", fees.FixedFee, 9*0.20-9*0.14)
}

func TestDeriveFees_ShopeeCPFSurchargeAfterCap(t *testing.T) {
	s := DefaultSchedule()

	cheap := shopeeFees(t, s, FeeQuery{Price: 6, SellerType: SellerCPF})
	nearlyEqual(t, "cheap fixedFee", cheap.FixedFee, 3)
	nearlyEqual(t, "cheap surcharge", cheap.SellerSurcharge, 3)

	regular := shopeeFees(t, s, FeeQuery{Price: 50, SellerType: SellerCPF})
	nearlyEqual(t, "regular fixedFee", regular.FixedFee, 7)
}

func TestDeriveFees_ShopeeZeroPrice(t *testing.T) {
	fees := shopeeFees(t, DefaultSchedule(), FeeQuery{Price: 0})
	nearlyEqual(t, "fixedFee", fees.FixedFee, 4)
	nearlyEqual(t, "pixSubsidyValue", fees.PixSubsidyValue, 0)
}

func TestDeriveFees_ShopeePixSubsidyBasis(t *testing.T) {
	s := DefaultSchedule()

	ofCommission := shopeeFees(t, s, FeeQuery{Price: 200})
	nearlyEqual(t, "of commission", ofCommission.PixSubsidyValue, 1.40)

	s.Shopee.PixSubsidyBasis = SubsidyOfPrice
	ofPrice := shopeeFees(t, s, FeeQuery{Price: 200})
	nearlyEqual(t, "of price", ofPrice.PixSubsidyValue, 10)
}

func TestDeriveFees_MercadoLivre(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		name           string
		q              FeeQuery
		wantCommission float64
		wantFixed      float64
		wantShipping   float64
	}{
		{name: "classic below threshold", q: FeeQuery{Price: 50, WeightKg: 0.3}, wantCommission: 12, wantFixed: 6.50, wantShipping: 7.75},
		{name: "premium above threshold", q: FeeQuery{Price: 120, Mode: "premium", WeightKg: 1}, wantCommission: 17, wantFixed: 0, wantShipping: 18.45},
		{name: "full super band", q: FeeQuery{Price: 45, FullSuper: true}, wantCommission: 12, wantFixed: 2},
		{name: "full super above bands", q: FeeQuery{Price: 250, FullSuper: true}, wantCommission: 12, wantFixed: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fees, err := DeriveFees(s, MercadoLivre, tc.q)
			if err != nil {
				t.Fatalf("DeriveFees: %v", err)
			}
			nearlyEqual(t, "commissionRate", fees.CommissionRate, tc.wantCommission)
			nearlyEqual(t, "fixedFee", fees.FixedFee, tc.wantFixed)
			nearlyEqual(t, "shippingCost", fees.ShippingCost, tc.wantShipping)
		})
	}
}

func TestDeriveFees_FlatMarketplaces(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		mt             MarketplaceType
		mode           string
		wantCommission float64
		wantFixed      float64
	}{
		{mt: Amazon, mode: "", wantCommission: 15, wantFixed: 8.50},
		{mt: Amazon, mode: "dba", wantCommission: 15, wantFixed: 5.50},
		{mt: Amazon, mode: "none", wantCommission: 15, wantFixed: 0},
		{mt: Magalu, wantCommission: 16},
		{mt: Shein, wantCommission: 16},
		{mt: TikTok, mode: "standard", wantCommission: 8},
		{mt: TikTok, mode: "affiliate", wantCommission: 13},
	}

	for _, tc := range tests {
		fees, err := DeriveFees(s, tc.mt, FeeQuery{Price: 100, Mode: tc.mode})
		if err != nil {
			t.Fatalf("DeriveFees(%s): %v", tc.mt, err)
		}
		nearlyEqual(t, string(tc.mt)+" commissionRate", fees.CommissionRate, tc.wantCommission)
		nearlyEqual(t, string(tc.mt)+" fixedFee", fees.FixedFee, tc.wantFixed)
	}
}

func TestDeriveFees_UnknownMarketplace(t *testing.T) {
	if _, err := DeriveFees(DefaultSchedule(), "etsy", FeeQuery{Price: 10}); !errors.Is(err, ErrUnknownMarketplace) {
		t.Fatalf("err = %v, want ErrUnknownMarketplace", err)
	}
}

func TestMercadoLivreSchedule_FullSuperBands(t *testing.T) {
	s := DefaultSchedule().MercadoLivre

	tests := []struct {
		price float64
		want  float64
	}{
		{0, 0},
		{10, 1},
		{29.99, 1},
		{30, 2},
		{49.99, 2},
		{50, 4},
		{99.99, 4},
		{100, 6},
		{198.99, 6},
		{199, 0},
	}
	for _, tc := range tests {
		nearlyEqual(t, "fullSuper fixedFee", s.FixedFee(tc.price, true), tc.want)
	}
}
