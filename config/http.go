package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the dashboard and API listener.
type HTTPConfig struct {
	Addr           string `json:"addr"`
	ReadTimeoutMS  int    `json:"read_timeout_ms"`
	WriteTimeoutMS int    `json:"write_timeout_ms"`
	// ExportRateLimit is the number of export downloads allowed per client IP
	// and minute.
	ExportRateLimit int `json:"export_rate_limit"`
	// MaxUploadMB bounds the size of an uploaded fleet dataset.
	MaxUploadMB int `json:"max_upload_mb"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutMS == 0 {
		c.ReadTimeoutMS = 15000
	}
	if c.WriteTimeoutMS == 0 {
		c.WriteTimeoutMS = 30000
	}
	if c.ExportRateLimit == 0 {
		c.ExportRateLimit = 30
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 10
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.ReadTimeoutMS < 0 || c.WriteTimeoutMS < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.ExportRateLimit < 0 {
		return fmt.Errorf("export_rate_limit must not be negative")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must not be negative")
	}
	return nil
}

func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

func (c HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c HTTPConfig) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }
