// Package location owns the currently selected place. It persists the
// selection, rehydrates it on start and triggers a sync whenever a
// different place is selected.
package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

type placeRepo interface {
	Upsert(ctx context.Context, p domain.Place) (int64, error)
	GetByPlaceID(ctx context.Context, placeID string) (*domain.Place, error)
}

type settingsRepo interface {
	Get(ctx context.Context, key string) (*string, error)
	Set(ctx context.Context, key string, value *string) error
	Delete(ctx context.Context, key string) error
}

type suggester interface {
	Suggest(ctx context.Context, query string) ([]provider.PlaceCandidate, error)
}

type syncer interface {
	Sync(ctx context.Context, placeID string, opts domain.SyncOptions) (domain.SyncResult, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrNoSelection is returned by operations that need a selected place.
var ErrNoSelection = fmt.Errorf("no place selected: %w", domain.ErrNotFound)

// State is the phase of the selection state machine.
type State int

const (
	// StateUnresolved means the persisted selection has not been read yet.
	StateUnresolved State = iota
	StateUnselected
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateUnselected:
		return "unselected"
	case StateSelected:
		return "selected"
	default:
		return "unresolved"
	}
}

// Selection is a snapshot of the state machine. Place is set only in
// StateSelected.
type Selection struct {
	State State
	Place *domain.Place
}

// Service manages the selected place.
type Service struct {
	places   placeRepo
	settings settingsRepo
	remote   suggester
	coord    syncer
	tx       txManager
	cfg      config.SuggestConfig
	log      *slog.Logger

	mu       sync.RWMutex
	state    State
	current  *domain.Place
	resolved chan struct{}
	once     sync.Once

	group singleflight.Group
	tasks sync.WaitGroup
}

// NewService creates a new location Service in StateUnresolved.
func NewService(
	logger *slog.Logger,
	places placeRepo,
	settings settingsRepo,
	remote suggester,
	coord syncer,
	tx txManager,
	cfg config.SuggestConfig,
) *Service {
	return &Service{
		places:   places,
		settings: settings,
		remote:   remote,
		coord:    coord,
		tx:       tx,
		cfg:      cfg,
		log:      logger.With("service", "location"),
		resolved: make(chan struct{}),
	}
}

// Current returns the current selection snapshot.
func (s *Service) Current() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sel := Selection{State: s.state}
	if s.current != nil {
		p := *s.current
		sel.Place = &p
	}
	return sel
}

// Resolved is closed once the state has left StateUnresolved.
func (s *Service) Resolved() <-chan struct{} {
	return s.resolved
}

// Wait blocks until every background sync started by Select has finished.
func (s *Service) Wait() {
	s.tasks.Wait()
}

// setState must be called with mu held.
func (s *Service) setState(state State, p *domain.Place) {
	s.state = state
	s.current = p
	if state != StateUnresolved {
		s.once.Do(func() { close(s.resolved) })
	}
}
