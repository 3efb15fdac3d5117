package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Generator is the slice of the provider gateway the chat path needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error)
}

// GraphReader exposes the knowledge-graph operations used on the hot path.
type GraphReader interface {
	MergeUser(ctx context.Context, userId string) error
	GetFactsForUser(ctx context.Context, userId string) (string, error)
}

// SessionStateStore tracks the conversational state label and prefetched
// context per session.
type SessionStateStore interface {
	GetSessionState(ctx context.Context, sessionId string) string
	SetSessionState(ctx context.Context, sessionId, label string) error
	GetPrefetchedInfo(ctx context.Context, sessionId string) (string, bool)
}

// IChatService defines the live chat operations.
type IChatService interface {
	StartChat(ctx context.Context, userId uuid.UUID, request *dto.NewChatRequest) (*dto.NewChatResponse, error)
	ContinueChat(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.ContinueChatRequest) (*dto.ContinueChatResponse, error)
}

// Trip-planning phrases that flip the session into the planning state and
// trigger a background destination prefetch.
var tripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:plan|organize|book|take)\s+(?:a\s+)?(?:trip|vacation|journey)\s+to\s+([\w\s]+)`),
	regexp.MustCompile(`(?i)(?:go|travel)\s+to\s+([\w\s]+)`),
	regexp.MustCompile(`(?i)let'?s\s+go\s+to\s+([\w\s]+)`),
}

type chatService struct {
	sessionRepo contract.SessionRepository
	summaryRepo contract.SessionSummaryRepository
	graph       GraphReader
	factsCache  *memory.FactsCache
	stateStore  SessionStateStore
	embedder    embedding.EmbeddingProvider
	generator   Generator
	publisher   IPublisherService
}

func NewChatService(
	sessionRepo contract.SessionRepository,
	summaryRepo contract.SessionSummaryRepository,
	graph GraphReader,
	factsCache *memory.FactsCache,
	stateStore SessionStateStore,
	embedder embedding.EmbeddingProvider,
	generator Generator,
	publisher IPublisherService,
) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		summaryRepo: summaryRepo,
		graph:       graph,
		factsCache:  factsCache,
		stateStore:  stateStore,
		embedder:    embedder,
		generator:   generator,
		publisher:   publisher,
	}
}

// StartChat opens a new session: ensures the user's graph node exists,
// gathers long- and mid-term memory, generates the first reply, and
// persists the opening exchange.
func (cs *chatService) StartChat(ctx context.Context, userId uuid.UUID, request *dto.NewChatRequest) (*dto.NewChatResponse, error) {
	// The graph node is a prerequisite for fact merges, but a graph outage
	// must not block the conversation.
	if err := cs.graph.MergeUser(ctx, userId.String()); err != nil {
		log.Printf("[WARN] ChatService: failed to ensure graph node for user %s: %v", userId, err)
	}

	summaryContext := cs.recallSummary(ctx, request.Message)
	graphFacts := cs.recallFacts(ctx, userId)

	responseText := cs.generate(ctx, request.Message, graphFacts, summaryContext, constant.StateInitialGreeting, nil)

	session := &entity.Session{
		Id:     uuid.New(),
		UserId: userId,
		Title:  truncateTitle(request.Message),
		Messages: []entity.Message{
			{Sender: entity.SenderUser, Text: request.Message},
			{Sender: entity.SenderAssistant, Text: responseText},
		},
		CreatedAt:     time.Now(),
		LastUpdatedAt: time.Now(),
	}
	if err := cs.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := cs.stateStore.SetSessionState(ctx, session.Id.String(), constant.StateGeneralConversation); err != nil {
		log.Printf("[WARN] ChatService: failed to set session state for %s: %v", session.Id, err)
	}

	cs.dispatchFactExtraction(ctx, userId, request.Message, responseText)

	return &dto.NewChatResponse{
		SessionId:    session.Id,
		ResponseText: responseText,
	}, nil
}

// ContinueChat handles a follow-up turn with the full memory stack: recent
// history, session state, prefetched context, semantic recall, and graph
// facts.
func (cs *chatService) ContinueChat(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.ContinueChatRequest) (*dto.ContinueChatResponse, error) {
	session, err := cs.sessionRepo.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	currentState := cs.stateStore.GetSessionState(ctx, sessionId.String())

	history := session.Messages
	if len(history) > constant.RecentHistoryLimit {
		history = history[len(history)-constant.RecentHistoryLimit:]
	}

	summaryContext := cs.recallSummary(ctx, request.Message)
	if summaryContext == "" && currentState == constant.StatePlanningTrip {
		if info, ok := cs.stateStore.GetPrefetchedInfo(ctx, sessionId.String()); ok {
			summaryContext = "Here is some relevant information: " + info
		}
	}
	graphFacts := cs.recallFacts(ctx, userId)

	responseText := cs.generate(ctx, request.Message, graphFacts, summaryContext, currentState, history)

	nextState := currentState
	if destination, ok := detectTripIntent(request.Message); ok {
		nextState = constant.StatePlanningTrip
		cs.dispatchPrefetch(ctx, sessionId, destination)
	}
	if err := cs.stateStore.SetSessionState(ctx, sessionId.String(), nextState); err != nil {
		log.Printf("[WARN] ChatService: failed to set session state for %s: %v", sessionId, err)
	}

	turn := []entity.Message{
		{Sender: entity.SenderUser, Text: request.Message},
		{Sender: entity.SenderAssistant, Text: responseText},
	}
	if err := cs.sessionRepo.AppendMessages(ctx, sessionId, turn); err != nil {
		return nil, fmt.Errorf("failed to append messages: %w", err)
	}

	cs.dispatchFactExtraction(ctx, userId, request.Message, responseText)

	return &dto.ContinueChatResponse{ResponseText: responseText}, nil
}

// generate assembles the master prompt from the three memory layers and
// calls the gateway. When every provider is down, the user still gets a
// reply and the turn is still persisted.
func (cs *chatService) generate(ctx context.Context, message, graphFacts, summaryContext, state string, history []entity.Message) string {
	if graphFacts == "" {
		graphFacts = constant.NoGraphFactsPlaceholder
	}
	if summaryContext == "" {
		summaryContext = constant.NoSummaryContextPlaceholder
	}

	prompt := fmt.Sprintf(constant.MasterSystemPrompt,
		graphFacts,
		summaryContext,
		state,
		renderHistory(history),
		message,
	)

	responseText, err := cs.generator.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrAllProvidersUnavailable) {
			log.Printf("[ERROR] ChatService: all providers unavailable: %v", err)
		} else {
			log.Printf("[ERROR] ChatService: generation failed: %v", err)
		}
		return constant.AllProvidersDownMessage
	}
	return responseText
}

// recallSummary embeds the incoming message and looks up the single most
// similar archived-conversation summary. Anything below the similarity
// threshold is treated as no match.
func (cs *chatService) recallSummary(ctx context.Context, message string) string {
	res, err := cs.embedder.Generate(message, embedding.TaskRetrievalQuery)
	if err != nil {
		log.Printf("[WARN] ChatService: query embedding failed, skipping semantic recall: %v", err)
		return ""
	}

	matches, err := cs.summaryRepo.QueryNearest(ctx, res.Values, 1)
	if err != nil {
		log.Printf("[WARN] ChatService: summary lookup failed: %v", err)
		return ""
	}
	if len(matches) == 0 || matches[0].Score <= constant.SummaryScoreThreshold {
		return ""
	}
	return matches[0].Summary
}

// recallFacts returns the rendered graph facts for the user, served from
// the short-lived cache when warm.
func (cs *chatService) recallFacts(ctx context.Context, userId uuid.UUID) string {
	if cached, ok := cs.factsCache.Get(userId.String()); ok {
		return cached
	}

	factsText, err := cs.graph.GetFactsForUser(ctx, userId.String())
	if err != nil {
		log.Printf("[WARN] ChatService: graph facts lookup failed for user %s: %v", userId, err)
		return ""
	}
	cs.factsCache.Set(userId.String(), factsText)
	return factsText
}

func (cs *chatService) dispatchFactExtraction(ctx context.Context, userId uuid.UUID, userMessage, assistantMessage string) {
	job := events.ExtractFactsJob{
		UserId:           userId.String(),
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		log.Printf("[ERROR] ChatService: failed to marshal fact extraction job: %v", err)
		return
	}
	if err := cs.publisher.Publish(ctx, constant.TopicFactExtraction, payload); err != nil {
		log.Printf("[ERROR] ChatService: failed to publish fact extraction job: %v", err)
	}
}

func (cs *chatService) dispatchPrefetch(ctx context.Context, sessionId uuid.UUID, destination string) {
	job := events.PrefetchJob{
		SessionId:   sessionId.String(),
		Destination: destination,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		log.Printf("[ERROR] ChatService: failed to marshal prefetch job: %v", err)
		return
	}
	if err := cs.publisher.Publish(ctx, constant.TopicPrefetchInfo, payload); err != nil {
		log.Printf("[ERROR] ChatService: failed to publish prefetch job: %v", err)
	}
}

// detectTripIntent runs the rule-based intent patterns and extracts the
// destination when one matches.
func detectTripIntent(message string) (string, bool) {
	for _, pattern := range tripPatterns {
		if match := pattern.FindStringSubmatch(message); match != nil {
			destination := strings.TrimSpace(match[1])
			if destination != "" {
				return destination, true
			}
		}
	}
	return "", false
}

func renderHistory(history []entity.Message) string {
	if len(history) == 0 {
		return constant.NoHistoryPlaceholder
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, msg.Sender+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= constant.SessionTitleMaxLength {
		return message
	}
	return string(runes[:constant.SessionTitleMaxLength])
}
