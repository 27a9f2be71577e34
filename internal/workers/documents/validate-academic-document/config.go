// internal/workers/documents/validate-academic-document/config.go
package validateacademicdocument

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled                  bool          `mapstructure:"enabled"`
	MaxJobsActive            int           `mapstructure:"max_jobs_active"`
	Timeout                  time.Duration `mapstructure:"timeout"`
	AcceptedCertificateTypes []string      `mapstructure:"accepted_certificate_types"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:                  true,
		MaxJobsActive:            10,
		Timeout:                  15 * time.Second,
		AcceptedCertificateTypes: []string{"LGCSE", "IGCSE", "Edexcel IGCSE"},
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if len(c.AcceptedCertificateTypes) == 0 {
		return fmt.Errorf("accepted_certificate_types must not be empty")
	}
	return nil
}
