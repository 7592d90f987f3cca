package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/pkg/assistant/faq"
	"ai-support-chat-be/pkg/assistant/sanitize"
	"ai-support-chat-be/pkg/llm"
)

const logModule = "assistant.pipeline"

// promptSlackChars covers formatting characters and rounding error in
// the token-to-character heuristic.
const promptSlackChars = 500

// Config carries the tunables of the response pipeline. Zero values
// are replaced by defaults, so an empty Config is usable.
type Config struct {
	// TopK is how many documents to retrieve per question.
	TopK int

	// HistoryTurns is the maximum number of past turns included in
	// the prompt.
	HistoryTurns int

	// MaxContextTokens bounds the whole prompt; the document budget is
	// derived from it.
	MaxContextTokens int

	// CharsPerToken is the coarse token-to-character estimate. It is
	// configurable because its accuracy depends on the generative
	// model in use.
	CharsPerToken int

	Temperature float64
	MaxTokens   int
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.HistoryTurns <= 0 {
		c.HistoryTurns = 6
	}
	if c.MaxContextTokens <= 0 {
		c.MaxContextTokens = 3000
	}
	if c.CharsPerToken <= 0 {
		c.CharsPerToken = 3
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.5
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1500
	}
	return c
}

// Pipeline orchestrates one question/answer exchange: curated-answer
// short-circuit, history fetch, retrieval, prompt assembly, generation,
// sanitization and best-effort persistence. It holds no per-request
// state, so one Pipeline serves all concurrent requests.
type Pipeline struct {
	matcher   *faq.Matcher
	embedder  Embedder
	retriever Retriever
	history   HistoryStore
	model     llm.LLMProvider
	sanitizer *sanitize.Sanitizer
	log       logger.ILogger
	cfg       Config
}

func NewPipeline(
	matcher *faq.Matcher,
	embedder Embedder,
	retriever Retriever,
	history HistoryStore,
	model llm.LLMProvider,
	sanitizer *sanitize.Sanitizer,
	log logger.ILogger,
	cfg Config,
) *Pipeline {
	if history == nil {
		history = NoopHistory{}
	}
	return &Pipeline{
		matcher:   matcher,
		embedder:  embedder,
		retriever: retriever,
		history:   history,
		model:     model,
		sanitizer: sanitizer,
		log:       log,
		cfg:       cfg.withDefaults(),
	}
}

// GenerateResponse answers one question. It never fails at the
// interface level: every internal failure degrades to a fixed fallback
// answer, and the exchange is persisted on every terminal path.
func (p *Pipeline) GenerateResponse(ctx context.Context, question, sessionID string) Result {
	p.log.Info(logModule, "pipeline started", map[string]interface{}{
		"session_id": sessionID,
	})

	if answer, ok := p.matcher.FindAnswer(question); ok {
		p.log.Info(logModule, "priority answer found", map[string]interface{}{
			"session_id": sessionID,
		})
		clean := p.sanitizer.Clean(answer)
		p.persist(ctx, sessionID, question, clean)
		score := 1.0
		return Result{
			Answer:  clean,
			Sources: []SourceInfo{{SourceID: PrioritySourceID, Score: &score}},
		}
	}

	answer, sources := p.answer(ctx, question, sessionID)
	p.persist(ctx, sessionID, question, answer)
	if sources == nil {
		sources = []SourceInfo{}
	}
	return Result{Answer: answer, Sources: sources}
}

// answer runs the retrieval-augmented path. It returns the final
// answer text and the citations computed so far; failures map to the
// fixed fallback strings rather than errors.
func (p *Pipeline) answer(ctx context.Context, question, sessionID string) (string, []SourceInfo) {
	formattedHistory := p.fetchHistory(ctx, sessionID)

	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		// Nothing useful can proceed without the query vector.
		p.log.Error(logModule, "embedding failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return DefaultErrorMessage, nil
	}

	hits, err := p.retriever.Search(ctx, vector, p.cfg.TopK)
	if err != nil {
		p.log.Warn(logModule, "vector search failed, continuing without documents", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		hits = nil
	}

	documentBlock, sources := FormatDocuments(hits, p.documentBudget(question, formattedHistory))

	if documentBlock == "" && strings.TrimSpace(formattedHistory) == "" {
		p.log.Warn(logModule, "no documents and no history, returning no-context answer", map[string]interface{}{
			"session_id": sessionID,
		})
		return NoContextAnswer, nil
	}

	contextSection := documentBlock
	if contextSection == "" {
		contextSection = noDocumentsPlaceholder
	}
	historySection := formattedHistory
	if strings.TrimSpace(historySection) == "" {
		historySection = noHistoryPlaceholder
	}

	prompt := fmt.Sprintf(systemPromptTemplate, historySection, contextSection, question)

	raw, err := p.model.Chat(ctx,
		[]llm.Message{{Role: "system", Content: prompt}},
		llm.WithTemperature(p.cfg.Temperature),
		llm.WithMaxTokens(p.cfg.MaxTokens),
	)
	if err != nil || strings.TrimSpace(raw) == "" {
		details := map[string]interface{}{"session_id": sessionID}
		if err != nil {
			details["error"] = err.Error()
		}
		p.log.Error(logModule, "generation failed or returned empty output", details)
		return DefaultErrorMessage, sources
	}

	return p.sanitizer.Clean(raw), sources
}

// fetchHistory is best-effort: fetch errors are logged and the request
// proceeds with empty history.
func (p *Pipeline) fetchHistory(ctx context.Context, sessionID string) string {
	turns, err := p.history.Fetch(ctx, sessionID, p.cfg.HistoryTurns)
	if err != nil {
		p.log.Warn(logModule, "history fetch failed, continuing without history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return ""
	}
	return FormatHistory(turns)
}

// documentBudget derives the character budget for the document block
// from the overall context bound minus an estimate of everything else
// in the prompt.
func (p *Pipeline) documentBudget(question, formattedHistory string) int {
	maxContextChars := p.cfg.MaxContextTokens * p.cfg.CharsPerToken
	overhead := utf8.RuneCountInString(systemPromptTemplate) +
		utf8.RuneCountInString(question) +
		utf8.RuneCountInString(formattedHistory) +
		promptSlackChars

	budget := maxContextChars - overhead
	if budget < 0 {
		budget = 0
	}
	return budget
}

// persist appends the exchange to history. Failures are logged and
// discarded: the answer is already decided and persistence must never
// change it.
func (p *Pipeline) persist(ctx context.Context, sessionID, question, answer string) {
	err := p.history.Append(ctx, sessionID,
		Turn{Role: RoleUser, Content: question},
		Turn{Role: RoleAssistant, Content: answer},
	)
	if err != nil {
		p.log.Error(logModule, "history append failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	p.log.Debug(logModule, "history saved", map[string]interface{}{
		"session_id": sessionID,
	})
}
