package telemetry

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"sarlink/internal/config"
	"sarlink/internal/events"
	"sarlink/internal/logger"
)

// mqttPublisher is the subset of mqtt.Client the publisher needs.
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher mirrors fleet state and journal entries to an MQTT broker:
// <prefix>/fleet/<robot id> (retained) and <prefix>/log.
type MQTTPublisher struct {
	client  mqttPublisher
	conn    mqtt.Client
	prefix  string
	qos     byte
	sampler sampler
	subs    []events.SubscriberID
	bus     *events.Bus
}

const connectTimeout = 10 * time.Second

// waitConnect fails when the connect token errors or does not complete in time.
func waitConnect(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("failed to connect to MQTT broker: timed out after %s", timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	return nil
}

// DialMQTT connects to the configured broker.
func DialMQTT(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(1 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(10 * time.Second).
		SetCleanSession(true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Log.Printf("[Telemetry] MQTT connected to %s", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Log.Printf("[Telemetry] MQTT connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if err := waitConnect(client.Connect(), connectTimeout); err != nil {
		return nil, err
	}
	p := NewMQTTPublisher(client, cfg)
	p.conn = client
	return p, nil
}

func NewMQTTPublisher(client mqttPublisher, cfg config.MQTTConfig) *MQTTPublisher {
	prefix := strings.Trim(cfg.TopicPrefix, "/")
	if prefix == "" {
		prefix = "sarlink"
	}
	return &MQTTPublisher{client: client, prefix: prefix, qos: cfg.QoS, sampler: sampler{n: uint64(max(cfg.Every, 0))}}
}

func (p *MQTTPublisher) FleetTopic(robotID string) string {
	return p.prefix + "/fleet/" + robotID
}

func (p *MQTTPublisher) LogTopic() string {
	return p.prefix + "/log"
}

// Attach subscribes the publisher to bus.
func (p *MQTTPublisher) Attach(bus *events.Bus) {
	p.bus = bus
	p.subs = append(p.subs,
		bus.SubscribeTypes(p.onFleet, events.EventFleetTicked),
		bus.SubscribeTypes(p.onLog, events.EventLogAppended),
	)
}

func (p *MQTTPublisher) onFleet(evt events.Event) {
	ev, ok := evt.Payload.(events.FleetTickedEvent)
	if !ok || !p.sampler.keep(ev.Tick) {
		return
	}
	for _, r := range ev.Fleet {
		data, err := encode(evt, robotState{Tick: ev.Tick, Robot: r})
		if err != nil {
			logger.Log.Printf("[Telemetry] encode %s: %v", r.ID, err)
			continue
		}
		p.publish(p.FleetTopic(r.ID), true, data)
	}
}

func (p *MQTTPublisher) onLog(evt events.Event) {
	e, ok := logPayload(evt)
	if !ok {
		return
	}
	data, err := encode(evt, e)
	if err != nil {
		logger.Log.Printf("[Telemetry] encode log: %v", err)
		return
	}
	p.publish(p.LogTopic(), false, data)
}

// publish does not wait on the token; the bus handler runs on the tick goroutine.
func (p *MQTTPublisher) publish(topic string, retained bool, data []byte) {
	token := p.client.Publish(topic, p.qos, retained, data)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			logger.Log.Printf("[Telemetry] MQTT publish %s: %v", topic, token.Error())
		}
	}()
}

func (p *MQTTPublisher) Close() {
	if p.bus != nil {
		for _, id := range p.subs {
			p.bus.Unsubscribe(id)
		}
		p.subs = nil
	}
	if p.conn != nil {
		p.conn.Disconnect(250)
	}
}
