// Package mqtt publishes moderation events to an MQTT broker.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// forwardBuffer is how many events may queue while the broker is slow
const forwardBuffer = 64

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator. The connection is
// retried in the background, so a broker that is down at startup does not
// block the bot.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{clientID: clientID}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Connected to MQTT broker as %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
	} else {
		logger.Warn("MQTT client was not connected, nothing to close.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a JSON payload to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return mc.publishRaw(topic, jsonData)
}

func (mc *MqttCommunicator) publishRaw(topic string, payload []byte) error {
	token := mc.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// ForwardModLog publishes every event on bus under base/<guildID>/<type>
// until the returned stop func is called.
func (mc *MqttCommunicator) ForwardModLog(bus *modlog.Bus, base string) (stop func()) {
	events, cancel := bus.Subscribe(forwardBuffer)
	done := make(chan struct{})

	go func() {
		defer close(done)
		forward(events, base, mc.publishRaw)
	}()

	logger.Info("Forwarding moderation events to "+base, "MQTT")
	return func() {
		cancel()
		<-done
	}
}

// forward drains events until the channel is closed
func forward(events <-chan modlog.Event, base string, publish func(topic string, payload []byte) error) {
	for e := range events {
		data, err := e.Encode()
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to encode %s event: %v", e.Type, err), "MQTT")
			continue
		}
		topic := EventTopic(base, e)
		if err := publish(topic, data); err != nil {
			logger.Warn(fmt.Sprintf("Failed to publish to %s: %v", topic, err), "MQTT")
		}
	}
}

// EventTopic returns the topic an event is published on
func EventTopic(base string, e modlog.Event) string {
	guild := e.GuildID
	if guild == "" {
		guild = "global"
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), guild, e.Type)
}
