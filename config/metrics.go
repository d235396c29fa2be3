package config

import "fmt"

// MetricsConfig controls the optional result sinks. Prometheus serves batch
// progress for long runs; InfluxDB persists per-scenario verdicts.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`

	InfluxEnabled bool   `json:"influx_enabled"`
	InfluxURL     string `json:"influx_url"`
	InfluxToken   string `json:"influx_token"`
	InfluxOrg     string `json:"influx_org"`
	InfluxBucket  string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}

// Validate checks that enabled sinks are fully specified.
func (c MetricsConfig) Validate() error {
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("metrics: influx_url is required when influx is enabled")
	}
	return nil
}
