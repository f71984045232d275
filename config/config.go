package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. An empty path searches the
// standard locations; a missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".librarian"))
		}
		v.AddConfigPath("/etc/librarian/")

		if err := v.ReadInConfig(); err != nil {
			// Defaults are a complete configuration on their own.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. The lending defaults
// mirror the library's long-standing policy table.
func setDefaults(v *viper.Viper) {
	v.SetDefault("library.name", "City Central Library")
	v.SetDefault("library.ledger_path", ":memory:")
	v.SetDefault("library.max_books", 10000)
	v.SetDefault("library.max_members", 1000)
	v.SetDefault("library.max_login_attempts", 3)

	v.SetDefault("lending.late_fee_per_day", 0.50)
	v.SetDefault("lending.renewal_days", 7)
	v.SetDefault("lending.tiers", map[string]map[string]int{
		"standard": {"borrow_limit": 5, "loan_days": 14},
		"premium":  {"borrow_limit": 10, "loan_days": 21},
		"student":  {"borrow_limit": 5, "loan_days": 14},
		"faculty":  {"borrow_limit": 10, "loan_days": 14},
		"staff":    {"borrow_limit": 8, "loan_days": 14},
		"guest":    {"borrow_limit": 2, "loan_days": 14},
	})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid.
func validate(cfg *Config) error {
	if cfg.Library.MaxBooks <= 0 {
		return fmt.Errorf("library.max_books must be positive")
	}
	if cfg.Library.MaxMembers <= 0 {
		return fmt.Errorf("library.max_members must be positive")
	}
	if cfg.Library.MaxAttempts <= 0 {
		return fmt.Errorf("library.max_login_attempts must be positive")
	}

	if cfg.Lending.LateFeePerDay < 0 {
		return fmt.Errorf("lending.late_fee_per_day cannot be negative")
	}
	if cfg.Lending.RenewalDays <= 0 {
		return fmt.Errorf("lending.renewal_days must be positive")
	}
	if len(cfg.Lending.Tiers) == 0 {
		return fmt.Errorf("lending.tiers must define at least one tier")
	}
	for name, tier := range cfg.Lending.Tiers {
		if tier.BorrowLimit <= 0 {
			return fmt.Errorf("lending.tiers.%s.borrow_limit must be positive", name)
		}
		if tier.LoanDays <= 0 {
			return fmt.Errorf("lending.tiers.%s.loan_days must be positive", name)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
