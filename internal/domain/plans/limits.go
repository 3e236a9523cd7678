package plans

// Unlimited marks a dimension with no ceiling (Business tier).
const Unlimited = -1

type Limit struct {
	MaxForms            int
	MaxResponsesPerForm int
}

var limits = map[string]Limit{
	TierFree:     {MaxForms: 1, MaxResponsesPerForm: 50},
	TierStarter:  {MaxForms: 3, MaxResponsesPerForm: 200},
	TierPro:      {MaxForms: 10, MaxResponsesPerForm: 1000},
	TierBusiness: {MaxForms: Unlimited, MaxResponsesPerForm: Unlimited},
}

// LimitsFor returns the capacity pair for a tier. Unknown tiers fall back
// to the free limits so a bad plan name can never widen access.
func LimitsFor(name string) Limit {
	if l, ok := limits[name]; ok {
		return l
	}
	return limits[TierFree]
}

func (l Limit) AllowsForms(existing int) bool {
	return l.MaxForms == Unlimited || existing < l.MaxForms
}

func (l Limit) AllowsResponses(existing int) bool {
	return l.MaxResponsesPerForm == Unlimited || existing < l.MaxResponsesPerForm
}
