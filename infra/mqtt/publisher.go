// Package mqtt publishes check verdicts to an MQTT broker so fleet
// monitoring can consume them alongside live vehicle data.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/reachset/occucheck/config"
	"github.com/reachset/occucheck/core/report"
	"github.com/reachset/occucheck/infra/logger"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher sends results to a single topic as JSON.
type Publisher struct {
	cli   paho.Client
	topic string
	qos   byte
	log   logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) paho.Client {
	return paho.NewClient(opts)
}

// NewPublisher connects to the broker from the configuration.
func NewPublisher(cfg config.PublisherConfig) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(connectTimeout)
	cli := newMQTTClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &Publisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: logger.New("mqtt-publisher")}, nil
}

// RecordResult publishes the verdict for one source.
func (p *Publisher) RecordResult(r report.Result) error {
	return p.publish(p.topic, r)
}

// RecordSummary publishes the batch aggregate on a sibling topic.
func (p *Publisher) RecordSummary(sum report.Summary) error {
	return p.publish(p.topic+"/summary", sum)
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	tok := p.cli.Publish(topic, p.qos, false, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish timeout on %s", topic)
	}
	return tok.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.cli.Disconnect(uint(250))
}
