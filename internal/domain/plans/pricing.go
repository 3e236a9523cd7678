package plans

// Plan cadence values accepted at checkout.
const (
	CadenceMonthly = "monthly"
	CadenceYearly  = "yearly"
)

func IsValidCadence(s string) bool {
	return s == CadenceMonthly || s == CadenceYearly
}

type price struct {
	Monthly float64
	Yearly  float64
}

// Base prices in USD. The settlement amount is converted at order time.
var pricesUSD = map[string]price{
	TierStarter:  {Monthly: 0.10, Yearly: 20},
	TierPro:      {Monthly: 6, Yearly: 60},
	TierBusiness: {Monthly: 15, Yearly: 150},
}

// PriceUSD returns the base price for a paid tier and cadence.
// The free tier is not purchasable and reports ok=false.
func PriceUSD(plan, cadence string) (float64, bool) {
	p, ok := pricesUSD[plan]
	if !ok {
		return 0, false
	}
	switch cadence {
	case CadenceMonthly:
		return p.Monthly, true
	case CadenceYearly:
		return p.Yearly, true
	}
	return 0, false
}
