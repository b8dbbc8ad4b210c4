package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Broadcaster pushes ticket events to an external webhook. It replaces
// an in-process socket broadcast: events go out as JSON POSTs so any
// consumer (or none) can subscribe without the API holding connections.
type Broadcaster struct {
	client *resty.Client
	url    string
}

var broadcaster *Broadcaster

// InitBroadcaster configures the process-wide broadcaster. An empty URL
// leaves broadcasting disabled; Publish then becomes a no-op instead of
// failing on first use.
func InitBroadcaster(webhookURL string) {
	if webhookURL == "" {
		broadcaster = nil
		return
	}
	broadcaster = &Broadcaster{
		client: resty.New().SetTimeout(5 * time.Second),
		url:    webhookURL,
	}
	log.Printf("Event broadcaster initialized: %s", webhookURL)
}

// Publish sends an event after the primary transaction has committed.
// Failures are logged and never surfaced to the caller.
func Publish(event string, data interface{}) {
	if broadcaster == nil {
		return
	}
	go func() {
		_, err := broadcaster.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"event": event,
				"data":  data,
			}).
			Post(broadcaster.url)
		if err != nil {
			log.Printf("Failed to publish %s event: %v", event, err)
		}
	}()
}
