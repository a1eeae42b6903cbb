package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// CatalogEventMessage is the wire form of a catalog mutation published to
// Pub/Sub. OldObj/NewObj mirror the outbox record's snapshots.
type CatalogEventMessage struct {
	ID            int       `json:"id"`
	ReferenceId   int       `json:"reference_id"`
	ReferenceType string    `json:"reference_type"`
	Action        string    `json:"action"`
	OldObj        []byte    `json:"old_obj"`
	NewObj        []byte    `json:"new_obj"`
	CorrelationId string    `json:"correlation_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		// Application Default Credentials (Cloud Run service account or
		// GOOGLE_APPLICATION_CREDENTIALS).
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}
	pubsubClient = c
	return pubsubClient, nil
}

// PublishCatalogEvent publishes one message and waits for the server ack.
func PublishCatalogEvent(ctx context.Context, topicID string, msg CatalogEventMessage) error {
	if topicID == "" {
		return errors.New("pubsub topic not configured")
	}
	client, err := getPubSubClient(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := client.Topic(topicID)
	result := topic.Publish(ctx, &pubsub.Message{Data: data})
	_, err = result.Get(ctx)
	return err
}
