package pricing

import "math"

// SubsidyBasis selects what the Shopee Pix subsidy rate is applied to.
type SubsidyBasis string

const (
	// SubsidyOfPrice credits price × pix%.
	SubsidyOfPrice SubsidyBasis = "price"
	// SubsidyOfCommission credits price × commission% × pix%.
	SubsidyOfCommission SubsidyBasis = "commission"
)

// Schedule is one version of every marketplace's tariff. All literal fee
// values used by the fee rules and the synchronizer come from here.
type Schedule struct {
	Version      string                           `yaml:"version" json:"version"`
	Shipping     ShippingTable                    `yaml:"shipping" json:"shipping"`
	MercadoLivre MercadoLivreSchedule             `yaml:"mercadolivre" json:"mercadolivre"`
	Shopee       ShopeeSchedule                   `yaml:"shopee" json:"shopee"`
	Flat         map[MarketplaceType]FlatSchedule `yaml:"flat" json:"flat"`
}

// PriceBand charges Fee for prices strictly below Below.
type PriceBand struct {
	Below float64 `yaml:"below" json:"below"`
	Fee   float64 `yaml:"fee" json:"fee"`
}

// MercadoLivreSchedule holds the listing-type commissions and the
// price-dependent fixed fee regimes.
type MercadoLivreSchedule struct {
	Modes                 []string           `yaml:"modes" json:"modes"`
	DefaultMode           string             `yaml:"default_mode" json:"default_mode"`
	ModeCommission        map[string]float64 `yaml:"mode_commission" json:"mode_commission"`
	FreeShippingThreshold float64            `yaml:"free_shipping_threshold" json:"free_shipping_threshold"`
	StandardFixedFee      float64            `yaml:"standard_fixed_fee" json:"standard_fixed_fee"`
	SubsidizedShipping    float64            `yaml:"subsidized_shipping" json:"subsidized_shipping"`
	FullSuperBands        []PriceBand        `yaml:"full_super_bands" json:"full_super_bands"`
	FullSuperAboveFee     float64            `yaml:"full_super_above_fee" json:"full_super_above_fee"`
}

// ShopeeTier applies to prices up to and including UpTo.
type ShopeeTier struct {
	UpTo           float64 `yaml:"up_to" json:"up_to"`
	CommissionRate float64 `yaml:"commission_rate" json:"commission_rate"`
	FixedFee       float64 `yaml:"fixed_fee" json:"fixed_fee"`
	PixSubsidyRate float64 `yaml:"pix_subsidy_rate" json:"pix_subsidy_rate"`
}

// TaperRule lowers the fixed fee of cheap items: below HalfPriceBelow the fee
// is half the price; from Start up to End it falls linearly from StartFee
// towards EndFee, never below the tier's own fixed fee.
type TaperRule struct {
	HalfPriceBelow float64 `yaml:"half_price_below" json:"half_price_below"`
	Start          float64 `yaml:"start" json:"start"`
	End            float64 `yaml:"end" json:"end"`
	StartFee       float64 `yaml:"start_fee" json:"start_fee"`
	EndFee         float64 `yaml:"end_fee" json:"end_fee"`
}

// FeeCap limits commission plus fixed fee to MaxRate percent of the price for
// prices below Below. A zero Below disables the cap. The cap runs after the
// taper and overrides it: with the default Shopee table every price below 12
// ends with a zero fixed fee.
type FeeCap struct {
	Below   float64 `yaml:"below" json:"below"`
	MaxRate float64 `yaml:"max_rate" json:"max_rate"`
}

// ShopeeSchedule is the tiered Shopee tariff.
type ShopeeSchedule struct {
	Modes           []string           `yaml:"modes" json:"modes"`
	DefaultMode     string             `yaml:"default_mode" json:"default_mode"`
	ModeCommission  map[string]float64 `yaml:"mode_commission,omitempty" json:"mode_commission,omitempty"`
	Tiers           []ShopeeTier       `yaml:"tiers" json:"tiers"`
	Taper           TaperRule          `yaml:"taper" json:"taper"`
	Cap             FeeCap             `yaml:"cap" json:"cap"`
	CPFSurcharge    float64            `yaml:"cpf_surcharge" json:"cpf_surcharge"`
	PixSubsidyBasis SubsidyBasis       `yaml:"pix_subsidy_basis" json:"pix_subsidy_basis"`
}

// FlatSchedule covers marketplaces whose fees only depend on the mode.
type FlatSchedule struct {
	Modes          []string           `yaml:"modes,omitempty" json:"modes,omitempty"`
	DefaultMode    string             `yaml:"default_mode,omitempty" json:"default_mode,omitempty"`
	CommissionRate float64            `yaml:"commission_rate" json:"commission_rate"`
	FixedFee       float64            `yaml:"fixed_fee" json:"fixed_fee"`
	ModeCommission map[string]float64 `yaml:"mode_commission,omitempty" json:"mode_commission,omitempty"`
	ModeFixedFee   map[string]float64 `yaml:"mode_fixed_fee,omitempty" json:"mode_fixed_fee,omitempty"`
}

// DefaultScheduleVersion names the tariff returned by DefaultSchedule.
const DefaultScheduleVersion = "2026-03"

var defaultSchedule = newDefaultSchedule()

// DefaultSchedule returns a copy of the canonical tariff.
func DefaultSchedule() Schedule {
	return newDefaultSchedule()
}

func newDefaultSchedule() Schedule {
	return Schedule{
		Version: DefaultScheduleVersion,
		Shipping: ShippingTable{
			PriceColumns:      []float64{19, 49, 79, 100, 120, 150, 200},
			HalfPriceCapBelow: 19,
			Bands: []WeightBand{
				{MaxKg: 0.3, Costs: []float64{5.65, 6.55, 7.75, 12.35, 14.35, 16.45, 18.45, 20.95}},
				{MaxKg: 0.5, Costs: []float64{5.95, 6.65, 7.85, 13.25, 15.45, 17.65, 19.85, 22.55}},
				{MaxKg: 1, Costs: []float64{6.05, 6.75, 7.95, 13.85, 16.15, 18.45, 20.75, 23.65}},
				{MaxKg: 1.5, Costs: []float64{6.15, 6.85, 8.05, 14.15, 16.45, 18.85, 21.15, 24.65}},
				{MaxKg: 2, Costs: []float64{6.25, 6.95, 8.15, 14.45, 16.85, 19.25, 21.65, 24.65}},
				{MaxKg: 3, Costs: []float64{6.35, 7.95, 8.55, 15.75, 18.35, 21.05, 23.65, 26.25}},
				{MaxKg: 4, Costs: []float64{6.45, 8.15, 8.95, 17.05, 19.85, 22.65, 25.55, 28.35}},
				{MaxKg: 5, Costs: []float64{6.55, 8.35, 9.75, 18.45, 21.55, 24.65, 27.75, 30.75}},
				{MaxKg: 6, Costs: []float64{6.65, 8.55, 9.95, 25.45, 28.55, 32.65, 35.75, 39.75}},
				{MaxKg: 7, Costs: []float64{6.75, 8.75, 10.15, 27.05, 31.05, 36.05, 40.05, 44.05}},
				{MaxKg: 8, Costs: []float64{6.85, 8.95, 10.35, 28.85, 33.65, 38.45, 43.25, 48.05}},
				{MaxKg: 9, Costs: []float64{6.95, 9.15, 10.55, 29.65, 34.55, 39.55, 44.45, 49.35}},
				{MaxKg: 11, Costs: []float64{7.05, 9.55, 10.95, 41.25, 48.05, 54.95, 61.75, 68.65}},
				{MaxKg: 13, Costs: []float64{7.15, 9.95, 11.35, 42.15, 49.25, 56.25, 63.25, 70.25}},
				{MaxKg: 15, Costs: []float64{7.25, 10.15, 11.55, 45.05, 52.45, 59.95, 67.45, 74.95}},
				{MaxKg: 17, Costs: []float64{7.35, 10.35, 11.75, 48.55, 56.05, 63.55, 70.75, 78.85}},
				{MaxKg: 20, Costs: []float64{7.45, 10.55, 11.95, 54.75, 63.85, 72.95, 82.05, 91.15}},
				{MaxKg: 25, Costs: []float64{7.65, 10.95, 12.15, 64.05, 75.05, 84.75, 95.35, 105.95}},
				{MaxKg: 30, Costs: []float64{7.75, 11.15, 12.35, 65.95, 75.45, 85.55, 96.25, 106.95}},
				{MaxKg: 40, Costs: []float64{7.85, 11.35, 12.55, 67.75, 78.95, 88.95, 99.15, 107.05}},
				{MaxKg: 50, Costs: []float64{7.95, 11.55, 12.75, 70.25, 81.05, 92.05, 102.55, 110.75}},
				{MaxKg: 60, Costs: []float64{8.05, 11.75, 12.95, 74.95, 86.45, 98.15, 109.35, 118.15}},
				{MaxKg: 70, Costs: []float64{8.15, 11.95, 13.15, 80.25, 92.95, 105.05, 117.15, 126.55}},
				{MaxKg: 80, Costs: []float64{8.25, 12.15, 13.35, 83.95, 97.05, 109.85, 122.45, 132.25}},
				{MaxKg: 90, Costs: []float64{8.35, 12.35, 13.55, 93.25, 107.45, 122.05, 136.05, 146.95}},
				{MaxKg: 100, Costs: []float64{8.45, 12.55, 13.75, 106.55, 123.95, 139.55, 155.55, 167.95}},
				{MaxKg: 125, Costs: []float64{8.55, 12.75, 13.95, 119.25, 138.05, 156.05, 173.95, 187.95}},
				{MaxKg: 150, Costs: []float64{8.65, 12.75, 14.15, 126.55, 146.15, 165.65, 184.65, 199.45}},
				{MaxKg: math.Inf(1), Costs: []float64{8.75, 12.95, 14.35, 166.15, 192.45, 217.55, 242.55, 261.95}},
			},
		},
		MercadoLivre: MercadoLivreSchedule{
			Modes:                 []string{"classic", "premium"},
			DefaultMode:           "classic",
			ModeCommission:        map[string]float64{"classic": 12, "premium": 17},
			FreeShippingThreshold: 79,
			StandardFixedFee:      6.50,
			SubsidizedShipping:    22.50,
			FullSuperBands: []PriceBand{
				{Below: 30, Fee: 1.00},
				{Below: 50, Fee: 2.00},
				{Below: 100, Fee: 4.00},
				{Below: 199, Fee: 6.00},
			},
			FullSuperAboveFee: 0,
		},
		Shopee: ShopeeSchedule{
			Modes:       []string{"standard", "free_shipping"},
			DefaultMode: "free_shipping",
			Tiers: []ShopeeTier{
				{UpTo: 79.99, CommissionRate: 20, FixedFee: 4, PixSubsidyRate: 0},
				{UpTo: 99.99, CommissionRate: 14, FixedFee: 16, PixSubsidyRate: 5},
				{UpTo: 199.99, CommissionRate: 14, FixedFee: 20, PixSubsidyRate: 5},
				{UpTo: 499.99, CommissionRate: 14, FixedFee: 26, PixSubsidyRate: 5},
				{UpTo: math.Inf(1), CommissionRate: 14, FixedFee: 26, PixSubsidyRate: 8},
			},
			Taper: TaperRule{
				HalfPriceBelow: 8,
				Start:          8,
				End:            12,
				StartFee:       6.50,
				EndFee:         4.00,
			},
			Cap:             FeeCap{Below: 12, MaxRate: 20},
			CPFSurcharge:    3,
			PixSubsidyBasis: SubsidyOfCommission,
		},
		Flat: map[MarketplaceType]FlatSchedule{
			Amazon: {
				Modes:          []string{"none", "dba", "fba"},
				DefaultMode:    "fba",
				CommissionRate: 15,
				FixedFee:       8.50,
				ModeFixedFee:   map[string]float64{"none": 0, "dba": 5.50, "fba": 8.50},
			},
			Magalu: {CommissionRate: 16},
			Shein:  {CommissionRate: 16},
			TikTok: {
				Modes:          []string{"standard", "affiliate"},
				DefaultMode:    "standard",
				CommissionRate: 8,
				ModeCommission: map[string]float64{"standard": 8, "affiliate": 13},
			},
		},
	}
}
