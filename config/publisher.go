package config

import "fmt"

// PublisherConfig controls the optional MQTT result publisher used to feed
// verdicts into fleet monitoring.
type PublisherConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	Username string `json:"username"`
	Password string `json:"password"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *PublisherConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "occucheck"
	}
	if c.Topic == "" {
		c.Topic = "occucheck/results"
	}
}

// Validate checks that an enabled publisher has a broker.
func (c PublisherConfig) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("publisher: broker is required when enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("publisher: qos must be 0, 1 or 2")
	}
	return nil
}
