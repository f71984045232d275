package config

// Config is the top-level application configuration.
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Lending LendingConfig `mapstructure:"lending"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LibraryConfig holds catalog and membership capacities.
type LibraryConfig struct {
	Name        string `mapstructure:"name"`
	LedgerPath  string `mapstructure:"ledger_path"`
	MaxBooks    int    `mapstructure:"max_books"`
	MaxMembers  int    `mapstructure:"max_members"`
	MaxAttempts int    `mapstructure:"max_login_attempts"`
}

// TierPolicy is the per-tier borrowing policy.
type TierPolicy struct {
	BorrowLimit int `mapstructure:"borrow_limit"`
	LoanDays    int `mapstructure:"loan_days"`
}

// LendingConfig holds the lending rules: the tier table, the flat
// per-day late fee and how many days a renewal adds to the due date.
type LendingConfig struct {
	LateFeePerDay float64               `mapstructure:"late_fee_per_day"`
	RenewalDays   int                   `mapstructure:"renewal_days"`
	Tiers         map[string]TierPolicy `mapstructure:"tiers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
