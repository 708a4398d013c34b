package satstack

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// TaxConfiguration holds the user's settings for computing capital gains.
type TaxConfiguration struct {
	CostBasisMethod CostBasisMethod `json:"costBasisMethod"`
	IncludeFees     bool            `json:"includeFees"`   // add buy fees to cost, deduct sell fees from gains.
	ShortTermRate   Percent         `json:"shortTermRate"` // tax rate for gains held 365 days or less.
	LongTermRate    Percent         `json:"longTermRate"`  // tax rate for gains held more than 365 days.
}

// DefaultTaxConfiguration returns the settings used until the user changes them.
func DefaultTaxConfiguration() TaxConfiguration {
	return TaxConfiguration{
		CostBasisMethod: FIFO,
		IncludeFees:     true,
		ShortTermRate:   Pct(25),
		LongTermRate:    Pct(15),
	}
}

// Validate checks that the method is known and the rates are in [0, 100].
func (c TaxConfiguration) Validate() error {
	var errs []error
	switch c.CostBasisMethod {
	case FIFO, LIFO, HIFO:
	default:
		errs = append(errs, fmt.Errorf("unknown cost basis method %d", c.CostBasisMethod))
	}
	hundred := Pct(100)
	if c.ShortTermRate.IsNegative() || c.ShortTermRate.GreaterThan(hundred) {
		errs = append(errs, fmt.Errorf("short term rate must be between 0 and 100, got %s", c.ShortTermRate))
	}
	if c.LongTermRate.IsNegative() || c.LongTermRate.GreaterThan(hundred) {
		errs = append(errs, fmt.Errorf("long term rate must be between 0 and 100, got %s", c.LongTermRate))
	}
	return errors.Join(errs...)
}

// LoadTaxConfiguration reads the settings file at path. A missing file yields
// the default configuration.
func LoadTaxConfiguration(path string) (TaxConfiguration, error) {
	cfg := DefaultTaxConfiguration()
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("cannot read tax settings: %w", err)
	}
	// fields missing in the file keep their default value.
	if err := json.Unmarshal(content, &cfg); err != nil {
		return DefaultTaxConfiguration(), fmt.Errorf("invalid tax settings in %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultTaxConfiguration(), fmt.Errorf("invalid tax settings in %q: %w", path, err)
	}
	return cfg, nil
}

// SaveTaxConfiguration writes the settings file at path.
func SaveTaxConfiguration(path string, cfg TaxConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(content, '\n'), 0644)
}
