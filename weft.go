package weft

import (
	"fmt"
	"sync"

	"log/slog"

	"github.com/weftkit/weft/internal/identity"
	"github.com/weftkit/weft/internal/logging"
	"github.com/weftkit/weft/pkg/domain"
)

// Engine is the entry point for the Weft library. It owns the identity tag
// registry used at every phase boundary, so factories, tools, and instances
// created by one engine never cross-contaminate another engine in the same
// process.
type Engine struct {
	registry *identity.Registry
	logger   *slog.Logger

	mu  sync.Mutex
	seq uint64
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Weft Engine with its own tag registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: identity.NewRegistry(),
	}

	for _, opt := range opts {
		opt(e)
	}

	// Ensure logger is initialized so the library stays silent unless configured.
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	return e
}

// Is reports whether v carries the given identity tag issued by this engine.
// This is the runtime counterpart of the type-level Factory/Tools/Instance
// distinction; both narrow on the same mark.
func (e *Engine) Is(v any, kind domain.TagKind) bool {
	switch x := v.(type) {
	case *Tools:
		return x != nil && e.registry.Has(x.mark, kind)
	case *Factory:
		return x != nil && e.registry.Has(x.mark, kind)
	case *Instance:
		return x != nil && e.registry.Has(x.mark, kind)
	}
	return false
}

// nextName issues a stable fallback name for anonymous factories, so errors
// always carry an identity.
func (e *Engine) nextName(prefix string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	return fmt.Sprintf("%s-%d", prefix, e.seq)
}
