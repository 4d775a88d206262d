package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eugenenazirov/box-packer/internal/packing"
)

const defaultHistoryCapacity = 256

var (
	// ErrInvalidContainer indicates the provided container violates validation rules.
	ErrInvalidContainer = errors.New("container dimensions must be positive finite numbers")
	// ErrNotFound is returned when no evaluation is recorded under the requested id.
	ErrNotFound = errors.New("evaluation not found")
)

var defaultContainer = packing.MustPrism(100, 120, 80)

// Record is an evaluation kept in history.
type Record struct {
	ID         uuid.UUID
	Evaluation packing.Evaluation
	CreatedAt  time.Time
}

// Storage provides access to the default container and evaluation history.
type Storage interface {
	GetContainer() (packing.Prism, error)
	SetContainer(container packing.Prism) error
	SaveEvaluation(eval packing.Evaluation, at time.Time) (Record, error)
	GetEvaluation(id uuid.UUID) (Record, error)
}

// MemoryStorage keeps state in-memory and guards access with a RWMutex.
// History is bounded; the oldest record is evicted first.
type MemoryStorage struct {
	mu        sync.RWMutex
	container packing.Prism

	capacity int
	order    []uuid.UUID
	records  map[uuid.UUID]Record
}

// NewMemoryStorage initialises storage with the default container and the
// given history capacity. A non-positive capacity selects the default.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &MemoryStorage{
		container: defaultContainer,
		capacity:  capacity,
		order:     make([]uuid.UUID, 0, capacity),
		records:   make(map[uuid.UUID]Record, capacity),
	}
}

// DefaultContainer returns the container used when none is configured.
func DefaultContainer() packing.Prism {
	return defaultContainer
}

// GetContainer returns the currently configured default container.
func (s *MemoryStorage) GetContainer() (packing.Prism, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.container, nil
}

// SetContainer validates and stores the default container.
func (s *MemoryStorage) SetContainer(container packing.Prism) error {
	if err := container.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}

	s.mu.Lock()
	s.container = container
	s.mu.Unlock()

	return nil
}

// SaveEvaluation records eval under a fresh id.
func (s *MemoryStorage) SaveEvaluation(eval packing.Evaluation, at time.Time) (Record, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Record{}, fmt.Errorf("generate evaluation id: %w", err)
	}
	rec := Record{ID: id, Evaluation: cloneEvaluation(eval), CreatedAt: at}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.records, oldest)
	}
	s.order = append(s.order, id)
	s.records[id] = rec

	return rec, nil
}

// GetEvaluation returns a defensive copy of the record stored under id.
func (s *MemoryStorage) GetEvaluation(id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Evaluation = cloneEvaluation(rec.Evaluation)
	return rec, nil
}

// Len returns the number of recorded evaluations.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func cloneEvaluation(eval packing.Evaluation) packing.Evaluation {
	if eval.Candidates != nil {
		candidates := make([]packing.Candidate, len(eval.Candidates))
		copy(candidates, eval.Candidates)
		eval.Candidates = candidates
	}
	return eval
}
