package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-assistant-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "TASKS"
	subjectPrefix = "tasks"
)

// SubjectFor maps a job type code onto its queue subject.
func SubjectFor(jobType string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, jobType)
}

// Queue publishes background jobs onto a JetStream work queue. Delivery is
// at-least-once, so every consumer must be idempotent.
type Queue struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewQueue connects to NATS and ensures the task stream exists.
func NewQueue(url string) (*Queue, error) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjectPrefix + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		log.Printf("[WARN] Failed to ensure stream %q: %v", streamName, err)
		// Don't fail hard here, maybe it already exists or NATS isn't ready
	}

	return &Queue{nc: nc, js: js}, nil
}

// Enqueue publishes a job onto the queue.
func (q *Queue) Enqueue(ctx context.Context, job events.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}

	subject := SubjectFor(job.JobType())

	_, err = q.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish job to subject %s: %w", subject, err)
	}

	return nil
}

// Close closes the NATS connection.
func (q *Queue) Close() {
	if q.nc != nil {
		q.nc.Close()
	}
}
