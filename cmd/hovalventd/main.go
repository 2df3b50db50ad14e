// Command hovalventd connects to a Hoval HomeVent residential ventilation
// controller over TCP, decodes its telemetry stream, and republishes every
// datapoint change to MQTT.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hovalvent/hovalventd/internal/catalog"
	"github.com/hovalvent/hovalventd/internal/config"
	"github.com/hovalvent/hovalventd/internal/decoder"
	"github.com/hovalvent/hovalventd/internal/mqttpub"
	"github.com/hovalvent/hovalventd/internal/persist"
	"github.com/hovalvent/hovalventd/internal/transport"
)

const defaultConfigPath = "hovalventd.yml"

var configPath = flag.String("config", defaultConfigPath, "path to the YAML configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cat, err := catalog.LoadFile(cfg.CSVPath, cfg.UnitID, cfg.IgnoreKeywords)
	if err != nil {
		log.Printf("catalog: %v, starting with %d datapoints", err, cat.Len())
	} else {
		log.Printf("catalog: loaded %d datapoints from %s", cat.Len(), cfg.CSVPath)
	}

	snapshotStore, err := persist.Open(cfg.PersistPath)
	if err != nil {
		log.Fatalf("persist: %v", err)
	}
	defer snapshotStore.Close()

	dec := decoder.New(cat)

	if prior, err := snapshotStore.LoadAll(); err != nil {
		log.Printf("persist: failed to load prior snapshot: %v", err)
	} else {
		dec.Seed(prior)
		log.Printf("persist: restored %d prior values", len(prior))
	}

	pub := mqttpub.NewPublisher(mqttpub.Config{
		Broker:      cfg.MQTTBroker,
		ClientID:    "hovalventd",
		TopicPrefix: cfg.MQTTTopicPrefix,
	})
	if err := pub.Connect(); err != nil {
		log.Fatalf("mqttpub: %v", err)
	}
	defer pub.Disconnect()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := dec.Subscribe()
	defer unsubscribe()

	go func() {
		for ev := range events {
			pub.Publish(ev)
			if err := snapshotStore.Save(ev); err != nil {
				log.Printf("persist: failed to save %s: %v", ev.Name, err)
			}
		}
	}()

	sup := &transport.Supervisor{
		Host: cfg.Host,
		Port: cfg.Port,
		Sink: dec.Push,
	}

	go func() {
		if err := sup.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("transport: %v", err)
		}
	}()

	log.Printf("hovalventd: running, connecting to %s:%d", cfg.Host, cfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("hovalventd: shutting down")
}
