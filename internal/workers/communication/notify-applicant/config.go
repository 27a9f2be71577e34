// internal/workers/communication/notify-applicant/config.go
package notifyapplicant

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxJobsActive   int           `mapstructure:"max_jobs_active"`
	Timeout         time.Duration `mapstructure:"timeout"`
	EmailEnabled    bool          `mapstructure:"email_enabled"`
	SMSEnabled      bool          `mapstructure:"sms_enabled"`
	InstitutionName string        `mapstructure:"institution_name"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         30 * time.Second,
		EmailEnabled:    true,
		InstitutionName: "Limkokwing University of Creative Technology",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.InstitutionName == "" {
		return fmt.Errorf("institution_name is required")
	}
	return nil
}
