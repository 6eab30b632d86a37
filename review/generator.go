package review

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompletionRequest is what the generator hands to the text backend.
type CompletionRequest struct {
	SystemInstructions string
	UserContent        string
	MaxOutputTokens    int
	Temperature        float32
}

// Completion is the backend's answer. TotalTokens is zero when the provider
// reported no usage accounting.
type Completion struct {
	Text        string
	TotalTokens int
}

// CompletionProvider is the text generation backend: text in, text out.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// styleTemperature tunes creativity per writer style: tighter determinism for
// the terse style, more stylistic freedom for the longer ones.
var styleTemperature = map[Style]float32{
	StyleShort:    0.4,
	StyleCasual:   0.7,
	StyleDetailed: 0.9,
}

// defaultMaxOutputTokens bounds the completion length. The widest style
// budget stays well inside it.
const defaultMaxOutputTokens = 300

// Request describes one generation call.
type Request struct {
	Selection     *Selection
	Persona       Persona
	Language      Language
	StoreCategory string
	// Subject labels the usage record, typically the store identifier.
	Subject string
}

// Result is returned to the caller. It is never stored by the core.
type Result struct {
	Text          string
	Style         Style
	Language      Language
	TokenEstimate int
	CostEstimate  float64
}

// Generator is the root of the pipeline: it validates the selection, draws a
// style, composes prompts, calls the completion backend, and dispatches a
// best-effort usage record. Each call is an independent stateless unit of
// work; concurrent use is safe.
type Generator struct {
	provider CompletionProvider
	sink     UsageSink
	sampler  *StyleSampler

	tokenMultiplier float64
	costPerKTokens  float64
	maxOutputTokens int
	now             func() time.Time
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithTokenMultiplier sets the fallback token estimate multiplier applied to
// the output rune count when the provider reports no usage.
func WithTokenMultiplier(m float64) GeneratorOption {
	return func(g *Generator) {
		if m > 0 {
			g.tokenMultiplier = m
		}
	}
}

// WithCostPerKTokens sets the USD cost applied per 1000 estimated tokens.
func WithCostPerKTokens(c float64) GeneratorOption {
	return func(g *Generator) {
		if c >= 0 {
			g.costPerKTokens = c
		}
	}
}

// WithMaxOutputTokens bounds the completion length.
func WithMaxOutputTokens(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxOutputTokens = n
		}
	}
}

// WithStyleSampler overrides the style distribution.
func WithStyleSampler(s *StyleSampler) GeneratorOption {
	return func(g *Generator) {
		if s != nil {
			g.sampler = s
		}
	}
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator wires the pipeline. provider may be nil when the backend is
// unconfigured; Generate then fails eagerly with ErrMissingConfiguration.
// sink may be nil to disable usage accounting entirely.
func NewGenerator(provider CompletionProvider, sink UsageSink, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:        provider,
		sink:            sink,
		sampler:         MustStyleSampler(DefaultStyleWeights),
		tokenMultiplier: 1.5,
		costPerKTokens:  0.0006,
		maxOutputTokens: defaultMaxOutputTokens,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the single-pass pipeline for one request.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	// Credentials are checked before composing anything to avoid wasted work.
	if g.provider == nil {
		return nil, ErrMissingConfiguration
	}

	eff, err := req.Selection.Effective()
	if err != nil {
		return nil, err
	}

	style := g.sampler.Pick()
	prompt, language := Compose(req.Language, style, req.StoreCategory, eff, req.Persona)

	completion, err := g.provider.Complete(ctx, CompletionRequest{
		SystemInstructions: prompt.SystemInstructions,
		UserContent:        prompt.UserContent,
		MaxOutputTokens:    g.maxOutputTokens,
		Temperature:        styleTemperature[style],
	})
	if err != nil {
		return nil, upstreamError("complete: %v", err)
	}
	if completion == nil {
		return nil, upstreamError("provider returned no completion")
	}

	// An empty completion is a valid-but-empty review, not an error.
	text := strings.TrimSpace(completion.Text)

	tokens := g.estimateTokens(text, completion.TotalTokens)
	cost := float64(tokens) / 1000 * g.costPerKTokens

	result := &Result{
		Text:          text,
		Style:         style,
		Language:      language,
		TokenEstimate: tokens,
		CostEstimate:  cost,
	}

	// Phase 2: the result above is already decided; the sink outcome is
	// observed for logging only and never converts a success into a failure.
	g.dispatchUsage(ctx, req.Subject, language, tokens, cost)

	return result, nil
}

// estimateTokens prefers the provider's own accounting and falls back to a
// rune-count heuristic. A non-empty text never yields zero, because
// downstream accounting treats zero as "not recorded".
func (g *Generator) estimateTokens(text string, reported int) int {
	if reported > 0 {
		return reported
	}
	if text == "" {
		return 0
	}
	estimated := int(math.Ceil(float64(len([]rune(text))) * g.tokenMultiplier))
	if estimated < 1 {
		estimated = 1
	}
	return estimated
}

func (g *Generator) dispatchUsage(ctx context.Context, subject string, language Language, tokens int, cost float64) {
	if g.sink == nil || tokens < 1 {
		return
	}
	rec := &UsageRecord{
		ID:         uuid.NewString(),
		Timestamp:  g.now().In(referenceTimezone).Format(time.RFC3339),
		Subject:    subject,
		Language:   language,
		Cost:       cost,
		TokenCount: tokens,
	}
	if err := g.sink.Record(ctx, rec); err != nil {
		slog.Warn("usage record dropped", "subject", subject, "tokens", tokens, "error", err)
		return
	}
	slog.Debug("usage record delivered", "subject", subject, "tokens", tokens)
}
