package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/pkg/assistant/faq"
	"ai-support-chat-be/pkg/assistant/sanitize"
	"ai-support-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake collaborators ---

type fakeEmbedder struct {
	mu     sync.Mutex
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.vector, f.err
}

type fakeRetriever struct {
	mu    sync.Mutex
	hits  []Hit
	err   error
	calls int
}

func (f *fakeRetriever) Search(ctx context.Context, vector []float32, topK int) ([]Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.hits, f.err
}

type fakeHistory struct {
	mu       sync.Mutex
	turns    map[string][]Turn
	fetchErr error
	appendErr error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{turns: make(map[string][]Turn)}
}

func (f *fakeHistory) Fetch(ctx context.Context, sessionID string, maxTurns int) ([]Turn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.turns[sessionID], nil
}

func (f *fakeHistory) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.turns[sessionID] = append(f.turns[sessionID], turns...)
	return nil
}

type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	lastMsgs []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsgs = history
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

// --- Helpers ---

type pipelineDeps struct {
	matcher   *faq.Matcher
	embedder  *fakeEmbedder
	retriever *fakeRetriever
	history   *fakeHistory
	model     *fakeLLM
}

func newTestPipeline(t *testing.T, deps pipelineDeps) *Pipeline {
	t.Helper()
	if deps.matcher == nil {
		deps.matcher = faq.NewMatcher(nil, faq.DefaultThreshold)
	}
	if deps.embedder == nil {
		deps.embedder = &fakeEmbedder{vector: []float32{0.1, 0.2}}
	}
	if deps.retriever == nil {
		deps.retriever = &fakeRetriever{}
	}
	var history HistoryStore
	if deps.history != nil {
		history = deps.history
	}
	if deps.model == nil {
		deps.model = &fakeLLM{response: "respuesta generada"}
	}
	return NewPipeline(
		deps.matcher,
		deps.embedder,
		deps.retriever,
		history,
		deps.model,
		sanitize.New(sanitize.PolicyStrip),
		logger.NopLogger{},
		Config{},
	)
}

func docHits() []Hit {
	return []Hit{
		{ID: "1", Score: 0.92, Payload: map[string]any{"source_id": "doc-1", "text": "Abre MiAdminXML y ve a Licencia."}},
	}
}

// --- Tests ---

func TestGenerateResponsePriorityShortCircuit(t *testing.T) {
	matcher := faq.NewMatcher([]faq.Entry{
		{Question: "hola", Answer: "**¡Hola!** ¿En qué puedo ayudarte?"},
	}, faq.DefaultThreshold)
	embedder := &fakeEmbedder{}
	model := &fakeLLM{}
	history := newFakeHistory()

	p := newTestPipeline(t, pipelineDeps{matcher: matcher, embedder: embedder, model: model, history: history})
	res := p.GenerateResponse(context.Background(), "  HOLA  ", "s1")

	// Curated answers are sanitized before returning.
	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", res.Answer)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, PrioritySourceID, res.Sources[0].SourceID)
	require.NotNil(t, res.Sources[0].Score)
	assert.Equal(t, 1.0, *res.Sources[0].Score)

	// No embedding or generation happened.
	assert.Zero(t, embedder.calls)
	assert.Zero(t, model.calls)

	// The exchange was still persisted.
	turns, _ := history.Fetch(context.Background(), "s1", 10)
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, res.Answer, turns[1].Content)
}

func TestGenerateResponseFullPath(t *testing.T) {
	retriever := &fakeRetriever{hits: docHits()}
	model := &fakeLLM{response: "Para activar, abre **MiAdminXML**."}
	history := newFakeHistory()

	p := newTestPipeline(t, pipelineDeps{retriever: retriever, model: model, history: history})
	res := p.GenerateResponse(context.Background(), "¿Cómo activo la licencia?", "s1")

	assert.Equal(t, "Para activar, abre MiAdminXML.", res.Answer)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "doc-1", res.Sources[0].SourceID)

	// Prompt carries the question and the retrieved document.
	require.Len(t, model.lastMsgs, 1)
	assert.Equal(t, "system", model.lastMsgs[0].Role)
	assert.Contains(t, model.lastMsgs[0].Content, "¿Cómo activo la licencia?")
	assert.Contains(t, model.lastMsgs[0].Content, "Fuente ID: doc-1")

	turns, _ := history.Fetch(context.Background(), "s1", 10)
	assert.Len(t, turns, 2)
}

func TestGenerateResponseNoContextFallback(t *testing.T) {
	model := &fakeLLM{}
	history := newFakeHistory()

	p := newTestPipeline(t, pipelineDeps{model: model, history: history})
	res := p.GenerateResponse(context.Background(), "pregunta sin datos", "s1")

	assert.Equal(t, NoContextAnswer, res.Answer)
	assert.Empty(t, res.Sources)
	// The generative model is never invoked on this path.
	assert.Zero(t, model.calls)

	// Fallback answers are persisted too.
	turns, _ := history.Fetch(context.Background(), "s1", 10)
	require.Len(t, turns, 2)
	assert.Equal(t, NoContextAnswer, turns[1].Content)
}

func TestGenerateResponseHistoryEnablesGeneration(t *testing.T) {
	// No documents, but previous turns exist: generation proceeds with
	// the history placeholder-free prompt.
	model := &fakeLLM{response: "seguimos con lo anterior"}
	history := newFakeHistory()
	require.NoError(t, history.Append(context.Background(), "s1",
		Turn{Role: RoleUser, Content: "primera pregunta"},
		Turn{Role: RoleAssistant, Content: "primera respuesta"},
	))

	p := newTestPipeline(t, pipelineDeps{model: model, history: history})
	res := p.GenerateResponse(context.Background(), "¿y luego?", "s1")

	assert.Equal(t, "seguimos con lo anterior", res.Answer)
	assert.Equal(t, 1, model.calls)
	assert.Contains(t, model.lastMsgs[0].Content, "Usuario: primera pregunta")
	assert.Contains(t, model.lastMsgs[0].Content, noDocumentsPlaceholder)
}

func TestGenerateResponseEmbeddingFailureIsFatal(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("model unavailable")}
	retriever := &fakeRetriever{hits: docHits()}
	model := &fakeLLM{}
	history := newFakeHistory()

	p := newTestPipeline(t, pipelineDeps{embedder: embedder, retriever: retriever, model: model, history: history})
	res := p.GenerateResponse(context.Background(), "pregunta", "s1")

	assert.Equal(t, DefaultErrorMessage, res.Answer)
	assert.Empty(t, res.Sources)
	assert.Zero(t, retriever.calls)
	assert.Zero(t, model.calls)

	turns, _ := history.Fetch(context.Background(), "s1", 10)
	assert.Len(t, turns, 2)
}

func TestGenerateResponseSearchFailureDegrades(t *testing.T) {
	// Search errors degrade to "no documents", which with empty
	// history means the no-context answer.
	retriever := &fakeRetriever{err: errors.New("backend down")}
	history := newFakeHistory()

	p := newTestPipeline(t, pipelineDeps{retriever: retriever, history: history})
	res := p.GenerateResponse(context.Background(), "pregunta", "s1")

	assert.Equal(t, NoContextAnswer, res.Answer)
}

func TestGenerateResponseGenerationFailure(t *testing.T) {
	retriever := &fakeRetriever{hits: docHits()}
	history := newFakeHistory()

	for name, model := range map[string]*fakeLLM{
		"api error":    {err: errors.New("rate limited")},
		"empty output": {response: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			p := newTestPipeline(t, pipelineDeps{retriever: retriever, model: model, history: history})
			res := p.GenerateResponse(context.Background(), "pregunta", "s1")

			assert.Equal(t, DefaultErrorMessage, res.Answer)
			// Citations computed before the failure are still returned.
			require.Len(t, res.Sources, 1)
			assert.Equal(t, "doc-1", res.Sources[0].SourceID)
		})
	}
}

func TestGenerateResponseHistoryFetchFailureIsNonFatal(t *testing.T) {
	retriever := &fakeRetriever{hits: docHits()}
	model := &fakeLLM{response: "respuesta"}
	history := newFakeHistory()
	history.fetchErr = errors.New("store down")

	p := newTestPipeline(t, pipelineDeps{retriever: retriever, model: model, history: history})
	res := p.GenerateResponse(context.Background(), "pregunta", "s1")

	assert.Equal(t, "respuesta", res.Answer)
	assert.Contains(t, model.lastMsgs[0].Content, noHistoryPlaceholder)
}

func TestGenerateResponsePersistFailureDoesNotChangeAnswer(t *testing.T) {
	retriever := &fakeRetriever{hits: docHits()}
	model := &fakeLLM{response: "respuesta"}
	history := newFakeHistory()
	history.appendErr = errors.New("disk full")

	p := newTestPipeline(t, pipelineDeps{retriever: retriever, model: model, history: history})
	res := p.GenerateResponse(context.Background(), "pregunta", "s1")

	assert.Equal(t, "respuesta", res.Answer)
	require.Len(t, res.Sources, 1)
}

func TestGenerateResponseNilHistoryUsesNoop(t *testing.T) {
	retriever := &fakeRetriever{hits: docHits()}
	model := &fakeLLM{response: "respuesta"}

	p := newTestPipeline(t, pipelineDeps{retriever: retriever, model: model})
	res := p.GenerateResponse(context.Background(), "pregunta", "s1")

	assert.Equal(t, "respuesta", res.Answer)
}

func TestGenerateResponseConcurrentSessions(t *testing.T) {
	retriever := &fakeRetriever{hits: docHits()}
	model := &fakeLLM{response: "respuesta"}
	history := newFakeHistory()

	p := newTestPipeline(t, pipelineDeps{retriever: retriever, model: model, history: history})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sessionID := "s" + strings.Repeat("x", n%3+1)
			res := p.GenerateResponse(context.Background(), "pregunta", sessionID)
			assert.NotEmpty(t, res.Answer)
		}(i)
	}
	wg.Wait()
}
