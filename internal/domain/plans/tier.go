package plans

// Tier constants (single source of truth)
const (
	TierFree     = "free"
	TierStarter  = "Starter"
	TierPro      = "Pro"
	TierBusiness = "Business"
)

var tierRank = map[string]int{
	TierFree:     0,
	TierStarter:  1,
	TierPro:      2,
	TierBusiness: 3,
}

// Rank returns the position of a tier in the upgrade order,
// or -1 for an unknown tier.
func Rank(name string) int {
	r, ok := tierRank[name]
	if !ok {
		return -1
	}
	return r
}

func IsKnown(name string) bool {
	_, ok := tierRank[name]
	return ok
}
