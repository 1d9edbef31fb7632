package agent

import (
	"sync"
	"time"

	"github.com/SaiNageswarS/lca-agent/gateway"
	"github.com/SaiNageswarS/lca-agent/llm"
	"github.com/SaiNageswarS/lca-agent/memory"
)

const (
	defaultMaxIterations    = 5
	defaultMaxEmptySearches = 2
	defaultMaxTokens        = 2048
	defaultModelTimeout     = 60 * time.Second
	defaultGatewayTimeout   = 30 * time.Second
)

// Config collects everything an Engine needs. Model and Gateway are
// mandatory; the rest default to sensible values in Build.
type Config struct {
	Model   llm.LLMClient
	Gateway gateway.Gateway
	Store   memory.ContextStore
	Scorer  SuggestionScorer

	MaxIterations    int
	MaxEmptySearches int
	MaxTokens        int
	ModelTimeout     time.Duration
	GatewayTimeout   time.Duration
}

// Engine runs the per-turn action loop. It is safe for concurrent use;
// turns on the same conversation are serialized so transcript appends
// from overlapping requests interleave at turn granularity.
type Engine struct {
	config    Config
	turnLocks sync.Map // conversation id -> *sync.Mutex
}

type EngineBuilder struct {
	config Config
}

func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{}
}

func (b *EngineBuilder) WithModel(model llm.LLMClient) *EngineBuilder {
	b.config.Model = model
	return b
}

func (b *EngineBuilder) WithGateway(gw gateway.Gateway) *EngineBuilder {
	b.config.Gateway = gw
	return b
}

func (b *EngineBuilder) WithStore(store memory.ContextStore) *EngineBuilder {
	b.config.Store = store
	return b
}

func (b *EngineBuilder) WithScorer(scorer SuggestionScorer) *EngineBuilder {
	b.config.Scorer = scorer
	return b
}

func (b *EngineBuilder) WithMaxIterations(n int) *EngineBuilder {
	b.config.MaxIterations = n
	return b
}

func (b *EngineBuilder) WithMaxEmptySearches(n int) *EngineBuilder {
	b.config.MaxEmptySearches = n
	return b
}

func (b *EngineBuilder) WithMaxTokens(n int) *EngineBuilder {
	b.config.MaxTokens = n
	return b
}

func (b *EngineBuilder) WithModelTimeout(d time.Duration) *EngineBuilder {
	b.config.ModelTimeout = d
	return b
}

func (b *EngineBuilder) WithGatewayTimeout(d time.Duration) *EngineBuilder {
	b.config.GatewayTimeout = d
	return b
}

func (b *EngineBuilder) Build() *Engine {
	cfg := b.config
	if cfg.Store == nil {
		cfg.Store = memory.NewInMemoryStore()
	}
	if cfg.Scorer == nil {
		cfg.Scorer = KeywordScorer{}
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.MaxEmptySearches <= 0 {
		cfg.MaxEmptySearches = defaultMaxEmptySearches
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = defaultModelTimeout
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}
	return &Engine{config: cfg}
}

func (e *Engine) lockFor(conversationID string) *sync.Mutex {
	mu, _ := e.turnLocks.LoadOrStore(conversationID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
