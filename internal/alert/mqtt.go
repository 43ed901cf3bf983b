package alert

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher publishes a payload to an MQTT topic
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTConfig holds the broker connection settings
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// MQTTClient is a connected paho client
type MQTTClient struct {
	client mqtt.Client
}

// NewMQTTClient connects to the broker
func NewMQTTClient(cfg MQTTConfig) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTClient{client: client}, nil
}

// Publish implements Publisher
func (c *MQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Disconnect closes the connection
func (c *MQTTClient) Disconnect() {
	c.client.Disconnect(250) // ms
}

// MQTTDispatcher publishes alerts as JSON to <prefix>/<severity>
type MQTTDispatcher struct {
	publisher Publisher
	prefix    string
}

// NewMQTTDispatcher creates an MQTT dispatcher
func NewMQTTDispatcher(publisher Publisher, prefix string) *MQTTDispatcher {
	return &MQTTDispatcher{publisher: publisher, prefix: prefix}
}

// Topic returns the topic an alert of the given severity is published to
func (d *MQTTDispatcher) Topic(severity string) string {
	return d.prefix + "/" + severity
}

// Dispatch implements Dispatcher
func (d *MQTTDispatcher) Dispatch(_ context.Context, a Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}
	return d.publisher.Publish(d.Topic(a.Severity), 1, false, payload)
}
