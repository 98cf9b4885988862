package services

import (
	"encoding/json"
	"log"
)

// EventExchange is the AMQP exchange all marketplace events are published to.
const EventExchange = "marketplace.events"

// EventPublisher publishes marketplace events for the notification fan-out.
// *rabbitmq.Client satisfies this; tests substitute a mock.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// publishEvent marshals and publishes an event, best-effort. A failed publish
// is logged and swallowed: notifications must never fail a committed
// transition.
func publishEvent(events EventPublisher, routingKey string, payload map[string]interface{}) {
	if events == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event to JSON: %v", routingKey, err)
		return
	}
	if err := events.Publish(EventExchange, routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}
