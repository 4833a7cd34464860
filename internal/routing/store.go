package routing

import (
	"sync"
	"sync/atomic"

	"service-gateway/internal/common/logging"
)

// SwapListener is notified after a new table generation is published
type SwapListener func(old, current *Table)

// Store publishes route table generations. Readers call Current without
// locking and always observe a complete table.
type Store struct {
	current  atomic.Pointer[Table]
	compiler *PatternCompiler
	logger   logging.Logger

	mu         sync.Mutex
	generation uint64
	listeners  []SwapListener
}

// NewStore creates a store holding an empty, enforcing generation 0 table
func NewStore(compiler *PatternCompiler) *Store {
	if compiler == nil {
		compiler = NewPatternCompiler()
	}
	s := &Store{
		compiler: compiler,
		logger:   logging.GetGlobalLogger().WithFields(logging.Field{"component", "route_store"}),
	}
	empty, _ := NewTable(0, Document{}, compiler)
	s.current.Store(empty)
	return s
}

// Current returns the published table
func (s *Store) Current() *Table {
	return s.current.Load()
}

// Compiler returns the pattern cache shared by all generations
func (s *Store) Compiler() *PatternCompiler {
	return s.compiler
}

// OnSwap registers a listener. Listeners run synchronously, in registration
// order, on the goroutine that called Replace.
func (s *Store) OnSwap(fn SwapListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Replace builds the next generation from doc and publishes it. On error the
// current table stays in place.
func (s *Store) Replace(doc Document) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := NewTable(s.generation+1, doc, s.compiler)
	if err != nil {
		return nil, err
	}
	s.generation = table.Generation()

	old := s.current.Swap(table)
	for _, fn := range s.listeners {
		fn(old, table)
	}

	s.logger.Info("Route table published",
		logging.Int64("generation", int64(table.Generation())),
		logging.Int("services", table.Len()),
		logging.Bool("whitelist_enabled", table.WhitelistEnabled()),
	)
	return table, nil
}
