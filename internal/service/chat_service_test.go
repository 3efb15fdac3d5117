package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatSessionRepo struct {
	created  []*entity.Session
	found    *entity.Session
	appended map[uuid.UUID][]entity.Message
}

func newChatSessionRepo() *chatSessionRepo {
	return &chatSessionRepo{appended: make(map[uuid.UUID][]entity.Message)}
}

func (r *chatSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.created = append(r.created, session)
	return nil
}

func (r *chatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	return r.found, nil
}

func (r *chatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	return nil, nil
}

func (r *chatSessionRepo) AppendMessages(ctx context.Context, id uuid.UUID, messages []entity.Message) error {
	r.appended[id] = append(r.appended[id], messages...)
	return nil
}

func (r *chatSessionRepo) SetArchived(ctx context.Context, id uuid.UUID) error { return nil }

func (r *chatSessionRepo) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeSummaryRepo struct {
	matches []*entity.SummaryMatch
}

func (r *fakeSummaryRepo) Upsert(ctx context.Context, sessionId uuid.UUID, embedding []float32, summary string) error {
	return nil
}

func (r *fakeSummaryRepo) QueryNearest(ctx context.Context, embedding []float32, topK int) ([]*entity.SummaryMatch, error) {
	return r.matches, nil
}

type fakeGraphReader struct {
	mergedUsers []string
	facts       string
	factsCalls  int
}

func (g *fakeGraphReader) MergeUser(ctx context.Context, userId string) error {
	g.mergedUsers = append(g.mergedUsers, userId)
	return nil
}

func (g *fakeGraphReader) GetFactsForUser(ctx context.Context, userId string) (string, error) {
	g.factsCalls++
	return g.facts, nil
}

type fakeStateStore struct {
	states     map[string]string
	prefetched map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{
		states:     make(map[string]string),
		prefetched: make(map[string]string),
	}
}

func (s *fakeStateStore) GetSessionState(ctx context.Context, sessionId string) string {
	if state, ok := s.states[sessionId]; ok {
		return state
	}
	return constant.StateGeneralConversation
}

func (s *fakeStateStore) SetSessionState(ctx context.Context, sessionId, label string) error {
	s.states[sessionId] = label
	return nil
}

func (s *fakeStateStore) GetPrefetchedInfo(ctx context.Context, sessionId string) (string, bool) {
	info, ok := s.prefetched[sessionId]
	return info, ok
}

type fakeEmbeddingProvider struct{}

func (f *fakeEmbeddingProvider) Name() string { return "fake" }

func (f *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{Values: []float32{0.5, 0.5}}, nil
}

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type fakePublisher struct {
	published map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[string][][]byte)}
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.published[topic] = append(p.published[topic], payload)
	return nil
}

type chatFixture struct {
	sessionRepo *chatSessionRepo
	summaryRepo *fakeSummaryRepo
	graph       *fakeGraphReader
	stateStore  *fakeStateStore
	generator   *fakeGenerator
	publisher   *fakePublisher
	service     IChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		sessionRepo: newChatSessionRepo(),
		summaryRepo: &fakeSummaryRepo{},
		graph:       &fakeGraphReader{},
		stateStore:  newFakeStateStore(),
		generator:   &fakeGenerator{reply: "Hello there!"},
		publisher:   newFakePublisher(),
	}
	f.service = NewChatService(
		f.sessionRepo,
		f.summaryRepo,
		f.graph,
		memory.NewFactsCache(),
		f.stateStore,
		&fakeEmbeddingProvider{},
		f.generator,
		f.publisher,
	)
	return f
}

func TestStartChatPersistsOpeningExchange(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()

	res, err := f.service.StartChat(context.Background(), userId, &dto.NewChatRequest{Message: "hi, I'm Alex"})

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", res.ResponseText)

	require.Len(t, f.sessionRepo.created, 1)
	session := f.sessionRepo.created[0]
	assert.Equal(t, userId, session.UserId)
	assert.Equal(t, "hi, I'm Alex", session.Title)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, entity.SenderUser, session.Messages[0].Sender)
	assert.Equal(t, entity.SenderAssistant, session.Messages[1].Sender)

	assert.Equal(t, []string{userId.String()}, f.graph.mergedUsers)
	assert.Equal(t, constant.StateGeneralConversation, f.stateStore.states[session.Id.String()])
}

func TestStartChatDispatchesFactExtraction(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()

	_, err := f.service.StartChat(context.Background(), userId, &dto.NewChatRequest{Message: "hi"})

	require.NoError(t, err)
	require.Len(t, f.publisher.published[constant.TopicFactExtraction], 1)

	var job events.ExtractFactsJob
	require.NoError(t, json.Unmarshal(f.publisher.published[constant.TopicFactExtraction][0], &job))
	assert.Equal(t, userId.String(), job.UserId)
	assert.Equal(t, "hi", job.UserMessage)
	assert.Equal(t, "Hello there!", job.AssistantMessage)
}

func TestStartChatTruncatesLongTitle(t *testing.T) {
	f := newChatFixture()
	long := strings.Repeat("a", 80)

	_, err := f.service.StartChat(context.Background(), uuid.New(), &dto.NewChatRequest{Message: long})

	require.NoError(t, err)
	require.Len(t, f.sessionRepo.created, 1)
	assert.Len(t, f.sessionRepo.created[0].Title, constant.SessionTitleMaxLength)
}

func TestStartChatAllProvidersDownStillPersists(t *testing.T) {
	f := newChatFixture()
	f.generator.err = llm.ErrAllProvidersUnavailable

	res, err := f.service.StartChat(context.Background(), uuid.New(), &dto.NewChatRequest{Message: "hi"})

	require.NoError(t, err)
	assert.Equal(t, constant.AllProvidersDownMessage, res.ResponseText)
	require.Len(t, f.sessionRepo.created, 1)
	assert.Equal(t, constant.AllProvidersDownMessage, f.sessionRepo.created[0].Messages[1].Text)
}

func existingSession(userId uuid.UUID, turns int) *entity.Session {
	session := &entity.Session{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         "trip talk",
		CreatedAt:     time.Now(),
		LastUpdatedAt: time.Now(),
	}
	for i := 0; i < turns; i++ {
		session.Messages = append(session.Messages,
			entity.Message{Sender: entity.SenderUser, Text: "question"},
			entity.Message{Sender: entity.SenderAssistant, Text: "answer"},
		)
	}
	return session
}

func TestContinueChatAppendsTurn(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session

	res, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "tell me more"})

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", res.ResponseText)

	appended := f.sessionRepo.appended[session.Id]
	require.Len(t, appended, 2)
	assert.Equal(t, "tell me more", appended[0].Text)
	assert.Equal(t, "Hello there!", appended[1].Text)
}

func TestContinueChatUnknownSession(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.ContinueChat(context.Background(), uuid.New(), uuid.New(), &dto.ContinueChatRequest{Message: "hi"})

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestContinueChatTripIntentSwitchesStateAndPrefetches(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session

	_, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "let's plan a trip to Kyoto"})

	require.NoError(t, err)
	assert.Equal(t, constant.StatePlanningTrip, f.stateStore.states[session.Id.String()])

	require.Len(t, f.publisher.published[constant.TopicPrefetchInfo], 1)
	var job events.PrefetchJob
	require.NoError(t, json.Unmarshal(f.publisher.published[constant.TopicPrefetchInfo][0], &job))
	assert.Equal(t, "Kyoto", job.Destination)
	assert.Equal(t, session.Id.String(), job.SessionId)
}

func TestContinueChatUsesPrefetchedInfoWhilePlanning(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session
	f.stateStore.states[session.Id.String()] = constant.StatePlanningTrip
	f.stateStore.prefetched[session.Id.String()] = "Kyoto is lovely in autumn."

	_, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "what should I see?"})

	require.NoError(t, err)
	assert.Contains(t, f.generator.lastPrompt, "Kyoto is lovely in autumn.")
}

func TestContinueChatHistoryWindow(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()
	session := existingSession(userId, 20) // 40 messages, well past the window
	f.sessionRepo.found = session

	_, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "hi"})

	require.NoError(t, err)
	// Prompt carries at most the last 10 messages.
	assert.Equal(t, constant.RecentHistoryLimit, strings.Count(f.generator.lastPrompt, "question")+strings.Count(f.generator.lastPrompt, "answer"))
}

func TestContinueChatInjectsRelevantSummary(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session
	f.summaryRepo.matches = []*entity.SummaryMatch{
		{SessionId: uuid.New(), Summary: "Previously discussed a Kyoto itinerary.", Score: 0.9},
	}

	_, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "back to the trip"})

	require.NoError(t, err)
	assert.Contains(t, f.generator.lastPrompt, "Previously discussed a Kyoto itinerary.")
}

func TestContinueChatIgnoresLowScoreSummary(t *testing.T) {
	f := newChatFixture()
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session
	f.summaryRepo.matches = []*entity.SummaryMatch{
		{SessionId: uuid.New(), Summary: "Barely related chatter.", Score: 0.4},
	}

	_, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "hello"})

	require.NoError(t, err)
	assert.NotContains(t, f.generator.lastPrompt, "Barely related chatter.")
	assert.Contains(t, f.generator.lastPrompt, constant.NoSummaryContextPlaceholder)
}

func TestDetectTripIntent(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		destination string
		matched     bool
	}{
		{"plan a trip", "I want to plan a trip to Paris", "Paris", true},
		{"travel to", "we could travel to New Zealand", "New Zealand", true},
		{"lets go", "let's go to Bali", "Bali", true},
		{"no intent", "what's the weather like", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			destination, ok := detectTripIntent(tt.message)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.destination, destination)
		})
	}
}

func TestGraphFactsAreCachedAcrossTurns(t *testing.T) {
	f := newChatFixture()
	f.graph.facts = "(User_x)-[IS_NAMED]->(Alex)"
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session

	_, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "one"})
	require.NoError(t, err)
	_, err = f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "two"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.graph.factsCalls, "second turn should hit the cache")
	assert.Contains(t, f.generator.lastPrompt, "(User_x)-[IS_NAMED]->(Alex)")
}

func TestGenerateFailureIsNotFatal(t *testing.T) {
	f := newChatFixture()
	f.generator.err = errors.New("unexpected provider error")
	userId := uuid.New()
	session := existingSession(userId, 1)
	f.sessionRepo.found = session

	res, err := f.service.ContinueChat(context.Background(), userId, session.Id, &dto.ContinueChatRequest{Message: "hi"})

	require.NoError(t, err)
	assert.Equal(t, constant.AllProvidersDownMessage, res.ResponseText)
}
