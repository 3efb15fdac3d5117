package nats

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JobHandler processes one raw job payload. Returning an error requests
// redelivery; returning nil acknowledges the job.
type JobHandler func(ctx context.Context, data []byte) error

// Worker pulls jobs from the JetStream task queue and dispatches them to
// handlers. Each subject gets its own durable consumer, so redeployments
// resume where the previous process stopped.
type Worker struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewWorker connects a worker to the task queue.
func NewWorker(url string) (*Worker, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Worker{nc: nc, js: js}, nil
}

// Subscribe registers a handler for one job type under a durable consumer.
func (w *Worker) Subscribe(jobType string, durableName string, handler JobHandler) error {
	ctx := context.Background()
	subject := SubjectFor(jobType)

	consumer, err := w.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	_, err = consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(context.Background(), msg.Data()); err != nil {
			log.Printf("[ERROR] Handler failed for job %s: %v", msg.Subject(), err)
			msg.Nak() // Retry
			return
		}
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("[INFO] Subscribed to %s with durable %s", subject, durableName)
	return nil
}

// Close closes the connection.
func (w *Worker) Close() {
	if w.nc != nil {
		w.nc.Close()
	}
}
