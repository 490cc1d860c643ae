package inmem

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/interfaces/infra"
)

var (
	_ infra.VolumeLister = (*Volumes)(nil)
	_ infra.ErrorSink    = (*Sink)(nil)
)

// Volumes - фиксированный список томов для платформ без перечисления дисков и для тестов.
type Volumes struct {
	logger *zap.Logger
	roots  []string
	err    error
	mu     sync.RWMutex
}

func NewVolumes(log *zap.Logger, roots ...string) *Volumes {
	return &Volumes{
		logger: log,
		roots:  roots,
	}
}

func (v *Volumes) Volumes(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.err != nil {
		return nil, v.err
	}

	roots := make([]string, len(v.roots))
	copy(roots, v.roots)
	v.logger.Debug("тома получены", zap.Strings("roots", roots))

	return roots, nil
}

// Fail заставляет Volumes возвращать err.
func (v *Volumes) Fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

// Sink хранит сообщения журнала ошибок в памяти.
type Sink struct {
	messages []string
	closed   bool
	mu       sync.Mutex
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Write(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.messages = append(s.messages, msg)
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.closed = true
	return nil
}

func (s *Sink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}
