package lending

import (
	"librarian/config"
	"librarian/member"
)

// TierPolicy is the borrowing policy applied to one account tier.
type TierPolicy struct {
	BorrowLimit int
	LoanDays    int
}

// Rules holds the lending policy table the coordinator applies.
type Rules struct {
	LateFeePerDay float64
	RenewalDays   int
	Tiers         map[member.Tier]TierPolicy
}

// defaultPolicy applies when a tier is missing from the table.
var defaultPolicy = TierPolicy{BorrowLimit: 5, LoanDays: 14}

// RulesFromConfig builds the policy table from configuration.
func RulesFromConfig(cfg config.LendingConfig) Rules {
	tiers := make(map[member.Tier]TierPolicy, len(cfg.Tiers))
	for name, t := range cfg.Tiers {
		tiers[member.Tier(name)] = TierPolicy{BorrowLimit: t.BorrowLimit, LoanDays: t.LoanDays}
	}
	return Rules{
		LateFeePerDay: cfg.LateFeePerDay,
		RenewalDays:   cfg.RenewalDays,
		Tiers:         tiers,
	}
}

// PolicyFor returns the policy for the tier, falling back to the
// standard policy for unknown tiers.
func (r Rules) PolicyFor(tier member.Tier) TierPolicy {
	if p, ok := r.Tiers[tier]; ok {
		return p
	}
	return defaultPolicy
}
