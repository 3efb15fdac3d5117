package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/ai/facts"
	"ai-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GraphWriter receives extracted facts from the background consumers.
type GraphWriter interface {
	MergeUser(ctx context.Context, userId string) error
	MergeFacts(ctx context.Context, graph facts.FactGraph) error
}

// PrefetchedInfoWriter stores prefetched context for a session.
type PrefetchedInfoWriter interface {
	SetPrefetchedInfo(ctx context.Context, sessionId, info string) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process topics: per-turn fact extraction
// and destination prefetch.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	extractor  *facts.Extractor
	graph      GraphWriter
	factsCache *memory.FactsCache
	generator  Generator
	stateStore PrefetchedInfoWriter
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	extractor *facts.Extractor,
	graph GraphWriter,
	factsCache *memory.FactsCache,
	generator Generator,
	stateStore PrefetchedInfoWriter,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		extractor:  extractor,
		graph:      graph,
		factsCache: factsCache,
		generator:  generator,
		stateStore: stateStore,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	factMessages, err := cs.pubSub.Subscribe(ctx, constant.TopicFactExtraction)
	if err != nil {
		return err
	}
	prefetchMessages, err := cs.pubSub.Subscribe(ctx, constant.TopicPrefetchInfo)
	if err != nil {
		return err
	}

	go func() {
		for msg := range factMessages {
			cs.processFactExtraction(ctx, msg)
		}
	}()
	go func() {
		for msg := range prefetchMessages {
			cs.processPrefetch(ctx, msg)
		}
	}()

	return nil
}

// processFactExtraction runs the extractor over a single exchange and
// merges the result into the graph.
func (cs *consumerService) processFactExtraction(ctx context.Context, msg *message.Message) {
	var job events.ExtractFactsJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		log.Printf("[ERROR] Failed to unmarshal fact extraction job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Extracting facts for user %s", job.UserId)

	exchange := fmt.Sprintf("%s: %s\n%s: %s",
		entity.SenderUser, job.UserMessage,
		entity.SenderAssistant, job.AssistantMessage,
	)
	graph := cs.extractor.Extract(ctx, job.UserId, exchange)
	if graph.IsEmpty() {
		msg.Ack()
		return
	}

	if err := cs.graph.MergeUser(ctx, job.UserId); err != nil {
		log.Printf("[ERROR] Failed to merge user node %s: %v", job.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if err := cs.graph.MergeFacts(ctx, graph); err != nil {
		log.Printf("[ERROR] Failed to merge facts for user %s: %v", job.UserId, err)
		msg.Nack()
		return
	}

	// New facts invalidate the cached rendering.
	cs.factsCache.Invalidate(job.UserId)

	log.Printf("[SUCCESS] Merged %d entities, %d relationships for user %s",
		len(graph.Entities), len(graph.Relationships), job.UserId)
	msg.Ack()
}

// processPrefetch generates a destination briefing ahead of the user's
// next turn and caches it against the session.
func (cs *consumerService) processPrefetch(ctx context.Context, msg *message.Message) {
	var job events.PrefetchJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		log.Printf("[ERROR] Failed to unmarshal prefetch job: %v", err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Prefetching destination info for %q (session %s)", job.Destination, job.SessionId)

	prompt := fmt.Sprintf(constant.PrefetchPromptTemplate, job.Destination)
	info, err := cs.generator.Generate(ctx, prompt)
	if err != nil {
		// A provider outage is transient; redeliver and try again.
		log.Printf("[ERROR] Prefetch generation failed for session %s: %v", job.SessionId, err)
		msg.Nack()
		return
	}

	if err := cs.stateStore.SetPrefetchedInfo(ctx, job.SessionId, info); err != nil {
		log.Printf("[ERROR] Failed to store prefetched info for session %s: %v", job.SessionId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
