// Package mqttpub publishes decoder change events to an MQTT broker,
// adapting the connect/publish shape the rest of the pack uses for its
// paho MQTT clients to a per-event rather than per-tick publication model.
package mqttpub

import (
	"encoding/json"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hovalvent/hovalventd/internal/discovery"
	"github.com/hovalvent/hovalventd/internal/store"
)

// Config holds the connection and topic settings for a Publisher.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
}

// Publisher publishes datapoint change events to MQTT, emitting a
// retained Home Assistant discovery payload the first time each
// datapoint is seen.
type Publisher struct {
	cfg    Config
	client mqtt.Client

	mu   sync.Mutex
	seen map[string]bool
}

// NewPublisher returns a Publisher configured against cfg. Connect must
// be called before Publish.
func NewPublisher(cfg Config) *Publisher {
	return &Publisher{cfg: cfg, seen: make(map[string]bool)}
}

// Connect opens the MQTT connection, with auto-reconnect enabled so a
// broker restart doesn't require restarting the daemon.
func (p *Publisher) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.cfg.Broker)
	opts.SetClientID(p.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Println("mqttpub: connected to broker")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("mqttpub: connection lost: %v", err)
	})

	p.client = mqtt.NewClient(opts)
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Disconnect closes the MQTT connection.
func (p *Publisher) Disconnect() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// Publish sends ev to <TopicPrefix>/<ev.Name>, publishing a retained
// discovery payload first if this is the first time ev.Name is seen.
func (p *Publisher) Publish(ev store.Event) {
	if !p.client.IsConnected() {
		log.Printf("mqttpub: not connected, dropping event for %s", ev.Name)
		return
	}

	topic := p.cfg.TopicPrefix + "/" + ev.Name
	p.publishDiscoveryOnce(ev.Name, ev.Unit, topic)

	token := p.client.Publish(topic, 0, false, formatValue(ev.Value))
	if token.Wait() && token.Error() != nil {
		log.Printf("mqttpub: publish %s failed: %v", topic, token.Error())
	}
}

func (p *Publisher) publishDiscoveryOnce(name, unit, stateTopic string) {
	p.mu.Lock()
	if p.seen[name] {
		p.mu.Unlock()
		return
	}
	p.seen[name] = true
	p.mu.Unlock()

	payload := discovery.Build(name, unit, stateTopic)
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("mqttpub: marshal discovery payload for %s: %v", name, err)
		return
	}

	topic := discovery.DiscoveryTopic(name)
	token := p.client.Publish(topic, 0, true, data)
	if token.Wait() && token.Error() != nil {
		log.Printf("mqttpub: publish discovery %s failed: %v", topic, token.Error())
	}
}
