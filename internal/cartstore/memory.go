package cartstore

import (
	"context"
	"sync"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

// Memory keeps the cart slot in process memory. Used in tests and as the
// fallback when no durable backend is configured.
type Memory struct {
	mu    sync.RWMutex
	lines []domain.CartLine
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]domain.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.CloneLines(m.lines), nil
}

func (m *Memory) Save(_ context.Context, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = domain.CloneLines(lines)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
	return nil
}
