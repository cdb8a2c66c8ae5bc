package domain

const (
	DefaultSubscription = "basic"
	DefaultPackageLimit = 5
)

type Tier struct {
	Name            string
	DisplayName     string
	PriceMinorUnits int64
	EmployeeLimit   int
}

// TierCatalog is an immutable tier lookup injected at construction time.
type TierCatalog struct {
	tiers map[string]Tier
}

func NewTierCatalog(tiers ...Tier) TierCatalog {
	m := make(map[string]Tier, len(tiers))
	for _, t := range tiers {
		m[t.Name] = t
	}
	return TierCatalog{tiers: m}
}

func DefaultTierCatalog() TierCatalog {
	return NewTierCatalog(
		Tier{Name: "basic", DisplayName: "Basic (5 employees)", PriceMinorUnits: 500, EmployeeLimit: 5},
		Tier{Name: "premium", DisplayName: "Premium (10 employees)", PriceMinorUnits: 800, EmployeeLimit: 10},
		Tier{Name: "enterprise", DisplayName: "Enterprise (20 employees)", PriceMinorUnits: 1500, EmployeeLimit: 20},
	)
}

func (c TierCatalog) Lookup(name string) (Tier, bool) {
	t, ok := c.tiers[name]
	return t, ok
}
