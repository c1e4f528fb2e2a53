package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	esv8 "github.com/elastic/go-elasticsearch/v8"
	kafka "github.com/segmentio/kafka-go"

	conf "feedback-service/internal/conf"
	kconfig "github.com/go-kratos/kratos/v2/config"
	kfile "github.com/go-kratos/kratos/v2/config/file"
)

// feedback-task tails the change-event topic and keeps the businesses
// search index in sync for the admin search.

type businessEvent struct {
	Op      string          `json:"op"`
	Payload *businessRecord `json:"payload"`
	Ts      int64           `json:"ts"`
}

type businessRecord struct {
	ID              int64  `json:"id"`
	BusinessName    string `json:"business_name"`
	Slug            string `json:"slug"`
	Niche           string `json:"niche"`
	GoogleReviewURL string `json:"google_review_url"`
	MoodCount       int    `json:"mood_count"`
}

func main() {
	var confPath string
	flag.StringVar(&confPath, "conf", "./configs", "config path, file or directory")
	flag.Parse()

	// Load config via kratos config
	c := kconfig.New(kconfig.WithSource(kfile.NewSource(confPath)))
	defer c.Close()
	if err := c.Load(); err != nil {
		log.Fatalf("config load: %v", err)
	}
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		log.Fatalf("config scan: %v", err)
	}

	// Setup Elasticsearch client
	es, err := esv8.NewClient(esv8.Config{
		Addresses: bc.Data.Elasticsearch.Addresses,
		Username:  bc.Data.Elasticsearch.Username,
		Password:  bc.Data.Elasticsearch.Password,
	})
	if err != nil {
		log.Fatalf("new es client: %v", err)
	}
	indexName := bc.Data.Elasticsearch.Index
	if indexName == "" {
		indexName = "businesses"
	}

	// Setup Kafka reader
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  bc.Data.Kafka.Brokers,
		GroupID:  "feedback-task",
		Topic:    bc.Data.Kafka.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("feedback-task started: topic=%s, es_index=%s", bc.Data.Kafka.Topic, indexName)
	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("context done: %v", ctx.Err())
				return
			}
			log.Printf("read message error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		// template events share the topic; only business events are indexed
		if string(m.Key) != "business" {
			continue
		}
		var evt businessEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			log.Printf("unmarshal event: %v", err)
			continue
		}
		if evt.Payload == nil {
			continue
		}
		// index or delete
		switch evt.Op {
		case "create", "update":
			body, _ := json.Marshal(map[string]any{
				"id":                evt.Payload.ID,
				"business_name":     evt.Payload.BusinessName,
				"slug":              evt.Payload.Slug,
				"niche":             evt.Payload.Niche,
				"google_review_url": evt.Payload.GoogleReviewURL,
				"mood_count":        evt.Payload.MoodCount,
				"ts":                evt.Ts,
			})
			res, err := es.Index(indexName, bytesReader(body), es.Index.WithDocumentID(idStr(evt.Payload.ID)))
			if err != nil {
				log.Printf("es index error: %v", err)
				continue
			}
			res.Body.Close()
		case "delete":
			res, err := es.Delete(indexName, idStr(evt.Payload.ID))
			if err != nil {
				log.Printf("es delete error: %v", err)
				continue
			}
			res.Body.Close()
		}
	}
}

func idStr(id int64) string { return fmt.Sprintf("%d", id) }

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
