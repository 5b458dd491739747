package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher records entries by publishing them as persistent JSON
// messages to the audit.log queue.  Each publish dials a fresh
// connection; the audit path is low-volume and a dropped broker must
// never hold resources hostage in the request path.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the given AMQP URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Record implements Recorder.  Any error is logged and swallowed so the
// primary operation never fails because of the audit channel.
func (p *Publisher) Record(ctx context.Context, e Entry) {
	if err := p.publish(ctx, e); err != nil {
		log.Printf("audit: publish failed (entry dropped): %v", err)
	}
}

func (p *Publisher) publish(ctx context.Context, e Entry) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so entries survive broker restarts.
	if _, err := ch.QueueDeclare(auditQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	return ch.PublishWithContext(ctx,
		"",             // default exchange
		auditQueueName, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	)
}
