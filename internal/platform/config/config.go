package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/finacct/posting_engine/internal/core/domain"
)

// Config holds the posting engine tunables.
type Config struct {
	// BalanceTolerance is the absolute drift allowed between total debits and
	// credits; it absorbs per-line FX rounding, not genuine imbalance.
	BalanceTolerance decimal.Decimal

	// ApprovalThreshold is the base-currency total above which a validated
	// posting is flagged RequiresApproval. Zero disables the flag.
	ApprovalThreshold decimal.Decimal

	// DefaultBaseCurrency is used when the posting context omits one.
	DefaultBaseCurrency string

	// StrictPartyCurrency rejects payments whose customer/supplier/bank-account
	// records carry a currency differing from the payment currency.
	StrictPartyCurrency bool

	// PostingRoles is the allow-list of roles permitted to post documents.
	PostingRoles []domain.UserRole
}

// Default returns the engine defaults without consulting the environment.
// Library embedders that configure programmatically start from here.
func Default() *Config {
	return &Config{
		BalanceTolerance:    decimal.NewFromFloat(0.01),
		ApprovalThreshold:   decimal.NewFromInt(10000),
		DefaultBaseCurrency: "MYR",
		StrictPartyCurrency: true,
		PostingRoles:        []domain.UserRole{domain.RoleAdmin, domain.RoleAccountant, domain.RoleMember},
	}
}

// LoadConfig loads configuration from environment variables and a .env file if
// present. Invalid values fall back to defaults with a warning rather than
// failing startup.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("APPROVAL_THRESHOLD", "10000")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "MYR")
	viper.SetDefault("STRICT_PARTY_CURRENCY", true)
	viper.SetDefault("POSTING_ROLES", "ADMIN,ACCOUNTANT,MEMBER")

	viper.AutomaticEnv()

	cfg := Default()

	if tol, err := decimal.NewFromString(viper.GetString("BALANCE_TOLERANCE")); err != nil || !tol.IsPositive() {
		log.Printf("Warning: invalid BALANCE_TOLERANCE (%q). Defaulting to %s.\n", viper.GetString("BALANCE_TOLERANCE"), cfg.BalanceTolerance)
	} else {
		cfg.BalanceTolerance = tol
	}

	if threshold, err := decimal.NewFromString(viper.GetString("APPROVAL_THRESHOLD")); err != nil || threshold.IsNegative() {
		log.Printf("Warning: invalid APPROVAL_THRESHOLD (%q). Defaulting to %s.\n", viper.GetString("APPROVAL_THRESHOLD"), cfg.ApprovalThreshold)
	} else {
		cfg.ApprovalThreshold = threshold
	}

	if base := strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_BASE_CURRENCY"))); len(base) == 3 {
		cfg.DefaultBaseCurrency = base
	} else {
		log.Printf("Warning: DEFAULT_BASE_CURRENCY must be a 3-letter code. Defaulting to %s.\n", cfg.DefaultBaseCurrency)
	}

	cfg.StrictPartyCurrency = viper.GetBool("STRICT_PARTY_CURRENCY")

	if rolesRaw := viper.GetString("POSTING_ROLES"); rolesRaw != "" {
		roles := make([]domain.UserRole, 0, 4)
		for _, role := range strings.Split(rolesRaw, ",") {
			role = strings.ToUpper(strings.TrimSpace(role))
			if role == "" {
				continue
			}
			roles = append(roles, domain.UserRole(role))
		}
		if len(roles) > 0 {
			cfg.PostingRoles = roles
		}
	}

	return cfg, nil
}
