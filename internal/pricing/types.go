package pricing

// MarketplaceType identifies a marketplace fee regime. It is fixed when a
// marketplace slot is created.
type MarketplaceType string

const (
	MercadoLivre MarketplaceType = "mercadolivre"
	Shopee       MarketplaceType = "shopee"
	Amazon       MarketplaceType = "amazon"
	Magalu       MarketplaceType = "magalu"
	Shein        MarketplaceType = "shein"
	TikTok       MarketplaceType = "tiktok"
)

// MarketplaceTypes lists every supported marketplace type in display order.
var MarketplaceTypes = []MarketplaceType{MercadoLivre, Shopee, Amazon, Magalu, Shein, TikTok}

// Valid reports whether t is a known marketplace type.
func (t MarketplaceType) Valid() bool {
	for _, known := range MarketplaceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ProfitType selects how GlobalInputs.DesiredProfit is read.
type ProfitType string

const (
	ProfitPercentage ProfitType = "percentage"
	ProfitCurrency   ProfitType = "currency"
)

// SellerType is the seller's legal registration, used by Shopee's surcharge.
type SellerType string

const (
	SellerCNPJ SellerType = "cnpj"
	SellerCPF  SellerType = "cpf"
)

// GlobalInputs is the product-level snapshot shared by every marketplace in a
// calculation session.
type GlobalInputs struct {
	ProductName       string     `json:"product_name"`
	ProductionCost    float64    `json:"production_cost"`
	PackagingCost     float64    `json:"packaging_cost"`
	Quantity          int        `json:"quantity"`
	TaxRate           float64    `json:"tax_rate"`
	SellingPrice      float64    `json:"selling_price"`
	DesiredProfit     float64    `json:"desired_profit"`
	DesiredProfitType ProfitType `json:"desired_profit_type"`
	EnableRoas        bool       `json:"enable_roas"`
	RoasValue         float64    `json:"roas_value"`
	ProductWeight     float64    `json:"product_weight"`
}

// EditedFields records which auto-managed fields the user changed by hand.
type EditedFields struct {
	FixedFee     bool `json:"fixed_fee"`
	ShippingCost bool `json:"shipping_cost"`
}

// MarketplaceConfig is one marketplace slot's fee configuration.
type MarketplaceConfig struct {
	ID                string          `json:"id"`
	Type              MarketplaceType `json:"type"`
	Name              string          `json:"name"`
	IsEnabled         bool            `json:"is_enabled"`
	CommissionRate    float64         `json:"commission_rate"`
	FixedFee          float64         `json:"fixed_fee"`
	ShippingCost      float64         `json:"shipping_cost"`
	AnticipationFee   float64         `json:"anticipation_fee"`
	ShippingThreshold *float64        `json:"shipping_threshold,omitempty"`
	ExtraOption       string          `json:"extra_option,omitempty"`
	ExtraOptionValue  string          `json:"extra_option_value,omitempty"`
	IsFullSuper       bool            `json:"is_full_super,omitempty"`
	SellerType        SellerType      `json:"seller_type,omitempty"`
	UserEdited        EditedFields    `json:"user_edited"`
}

// GoalStatus is the outcome of comparing a result against the desired profit.
type GoalStatus string

const (
	GoalNone       GoalStatus = "no_goal"
	GoalReached    GoalStatus = "reached"
	GoalNotReached GoalStatus = "not_reached"
)

// Breakdown holds the line items that add up to a CalculationResult.
// Currency amounts are totals for the whole quantity unless noted.
type Breakdown struct {
	Revenue          float64 `json:"revenue"`
	BaseCost         float64 `json:"base_cost"`
	Tax              float64 `json:"tax"`
	Commission       float64 `json:"commission"`
	FixedFee         float64 `json:"fixed_fee"`
	Shipping         float64 `json:"shipping"`
	Anticipation     float64 `json:"anticipation"`
	UnitMarketing    float64 `json:"unit_marketing"`
	Marketing        float64 `json:"marketing"`
	MarketingPercent float64 `json:"marketing_percent"`
}

// CalculationResult is derived from one (GlobalInputs, MarketplaceConfig)
// pair and never stored.
type CalculationResult struct {
	TotalMarketplaceFees float64    `json:"total_marketplace_fees"`
	NetReceivable        float64    `json:"net_receivable"`
	TotalCost            float64    `json:"total_cost"`
	MarketingCost        float64    `json:"marketing_cost"`
	RealProfit           float64    `json:"real_profit"`
	ProfitMargin         float64    `json:"profit_margin"`
	ROI                  float64    `json:"roi"`
	Markup               float64    `json:"markup"`
	GoalReached          bool       `json:"goal_reached"`
	Goal                 GoalStatus `json:"goal_status"`
	Breakdown            Breakdown  `json:"breakdown"`
}
