package pipeline

import (
	"context"
	"errors"
	"testing"

	"ai-assistant-be/pkg/ai/facts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	sessions   map[string]*Session
	fetchErr   error
	archiveErr error
	archived   map[string]int
}

func newFakeSessionStore(sessions ...*Session) *fakeSessionStore {
	s := &fakeSessionStore{
		sessions: make(map[string]*Session),
		archived: make(map[string]int),
	}
	for _, sess := range sessions {
		s.sessions[sess.Id] = sess
	}
	return s
}

func (s *fakeSessionStore) FindById(ctx context.Context, id string) (*Session, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.sessions[id], nil
}

func (s *fakeSessionStore) SetArchived(ctx context.Context, id string) error {
	if s.archiveErr != nil {
		return s.archiveErr
	}
	s.archived[id]++
	if sess, ok := s.sessions[id]; ok {
		sess.IsArchived = true
	}
	return nil
}

type fakeVectorStore struct {
	summaries map[string]string
	err       error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{summaries: make(map[string]string)}
}

func (v *fakeVectorStore) UpsertSummary(ctx context.Context, sessionId string, embedding []float32, summary string) error {
	if v.err != nil {
		return v.err
	}
	v.summaries[sessionId] = summary
	return nil
}

type fakeGraphStore struct {
	users     map[string]bool
	entities  map[string]bool
	relations map[string]bool
	userErr   error
	mergeErr  error
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{
		users:     make(map[string]bool),
		entities:  make(map[string]bool),
		relations: make(map[string]bool),
	}
}

func (g *fakeGraphStore) MergeUser(ctx context.Context, userId string) error {
	if g.userErr != nil {
		return g.userErr
	}
	g.users[userId] = true
	return nil
}

func (g *fakeGraphStore) MergeFacts(ctx context.Context, graph facts.FactGraph) error {
	if g.mergeErr != nil {
		return g.mergeErr
	}
	for _, e := range graph.Entities {
		g.entities[e.Name+"/"+e.Label] = true
	}
	for _, r := range graph.Relationships {
		g.relations[r.Source+"-"+r.Type+"->"+r.Target] = true
	}
	return nil
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) Embed(text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *fakeSummarizer) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

type fakeExtractor struct {
	graph facts.FactGraph
}

func (e *fakeExtractor) Extract(ctx context.Context, userId string, transcript string) facts.FactGraph {
	return e.graph
}

func alexGraph() facts.FactGraph {
	return facts.FactGraph{
		Entities: []facts.Entity{
			{Name: "Alex", Label: "PERSON"},
			{Name: "User_u1", Label: "User"},
		},
		Relationships: []facts.Relationship{
			{Source: "User_u1", Target: "Alex", Type: "IS_NAMED"},
		},
	}
}

func newPipeline(sessions *fakeSessionStore, vectors *fakeVectorStore, graphs *fakeGraphStore, embedder *fakeEmbedder, gen *fakeSummarizer, ext *fakeExtractor) *Consolidation {
	return NewConsolidation(sessions, vectors, graphs, embedder, gen, ext)
}

func TestRunHappyPath(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: my name is Alex"})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	gen := &fakeSummarizer{summary: "Alex introduced themselves."}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{}, gen, &fakeExtractor{graph: alexGraph()})

	err := p.Run(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, "Alex introduced themselves.", vectors.summaries["s1"])
	assert.True(t, graphs.users["u1"])
	assert.True(t, graphs.relations["User_u1-IS_NAMED->Alex"])
	assert.Equal(t, 1, sessions.archived["s1"])
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: my name is Alex"})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	gen := &fakeSummarizer{summary: "Alex introduced themselves."}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{}, gen, &fakeExtractor{graph: alexGraph()})

	require.NoError(t, p.Run(context.Background(), "s1"))
	firstVectors := len(vectors.summaries)
	firstEntities := len(graphs.entities)
	firstRelations := len(graphs.relations)

	// Simulate at-least-once redelivery.
	require.NoError(t, p.Run(context.Background(), "s1"))

	assert.Equal(t, firstVectors, len(vectors.summaries))
	assert.Equal(t, firstEntities, len(graphs.entities))
	assert.Equal(t, firstRelations, len(graphs.relations))
	assert.Equal(t, "Alex introduced themselves.", vectors.summaries["s1"])
	assert.Equal(t, 1, gen.calls, "redelivery of an archived session does no provider work")
}

func TestRunArchivedSessionSkipsAllWork(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: hello", IsArchived: true})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	gen := &fakeSummarizer{summary: "should not be called"}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{}, gen, &fakeExtractor{graph: alexGraph()})

	err := p.Run(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls, "archived session must not be re-summarized")
	assert.Empty(t, vectors.summaries)
	assert.Empty(t, graphs.users)
	assert.Empty(t, sessions.archived, "no second archive write")
}

func TestRunEmptyTranscriptStillArchives(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: ""})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	gen := &fakeSummarizer{summary: "should not be called"}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{}, gen, &fakeExtractor{})

	err := p.Run(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls, "empty transcript skips summarization")
	assert.Empty(t, graphs.users, "empty transcript skips extraction")
	assert.Equal(t, SummaryNoContent, vectors.summaries["s1"])
	assert.Equal(t, 1, sessions.archived["s1"])
}

func TestRunSummarizationFailureStillArchives(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: hello"})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	gen := &fakeSummarizer{err: errors.New("all providers down")}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{}, gen, &fakeExtractor{})

	err := p.Run(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, SummaryUnavailable, vectors.summaries["s1"])
	assert.Equal(t, 1, sessions.archived["s1"], "archival must not depend on summarization")
}

func TestRunEmbeddingFailureSkipsVectorWrite(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: hello"})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	gen := &fakeSummarizer{summary: "ok"}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{err: errors.New("embed down")}, gen, &fakeExtractor{})

	err := p.Run(context.Background(), "s1")

	require.NoError(t, err)
	assert.Empty(t, vectors.summaries, "vector write skipped when embedding fails")
	assert.Equal(t, 1, sessions.archived["s1"])
}

func TestRunGraphFailureStillArchives(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: hello"})
	vectors := newFakeVectorStore()
	graphs := newFakeGraphStore()
	graphs.userErr = errors.New("neo4j down")
	gen := &fakeSummarizer{summary: "ok"}
	p := newPipeline(sessions, vectors, graphs, &fakeEmbedder{}, gen, &fakeExtractor{graph: alexGraph()})

	err := p.Run(context.Background(), "s1")

	require.NoError(t, err)
	assert.Empty(t, graphs.relations)
	assert.Equal(t, "ok", vectors.summaries["s1"], "later independent steps still run")
	assert.Equal(t, 1, sessions.archived["s1"])
}

func TestRunMissingSessionAborts(t *testing.T) {
	sessions := newFakeSessionStore()
	vectors := newFakeVectorStore()
	gen := &fakeSummarizer{summary: "ok"}
	p := newPipeline(sessions, vectors, newFakeGraphStore(), &fakeEmbedder{}, gen, &fakeExtractor{})

	err := p.Run(context.Background(), "ghost")

	require.NoError(t, err, "missing session is not retryable")
	assert.Empty(t, vectors.summaries)
	assert.Empty(t, sessions.archived)
}

func TestRunFetchStoreErrorIsRetryable(t *testing.T) {
	sessions := newFakeSessionStore()
	sessions.fetchErr = errors.New("connection refused")
	p := newPipeline(sessions, newFakeVectorStore(), newFakeGraphStore(), &fakeEmbedder{}, &fakeSummarizer{}, &fakeExtractor{})

	err := p.Run(context.Background(), "s1")

	assert.Error(t, err, "store-level fetch failure must surface for redelivery")
}

func TestRunArchiveFailureDoesNotError(t *testing.T) {
	sessions := newFakeSessionStore(&Session{Id: "s1", UserId: "u1", Transcript: "user: hello"})
	sessions.archiveErr = errors.New("write conflict")
	gen := &fakeSummarizer{summary: "ok"}
	p := newPipeline(sessions, newFakeVectorStore(), newFakeGraphStore(), &fakeEmbedder{}, gen, &fakeExtractor{})

	err := p.Run(context.Background(), "s1")

	// The next inactivity scan re-selects the session; no immediate retry.
	require.NoError(t, err)
}
