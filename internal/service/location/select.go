package location

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

// Task is the background sync started by Select. Callers may wait on it or
// ignore it; its error is logged either way.
type Task struct {
	done      chan struct{}
	triggered bool
	result    domain.SyncResult
	err       error
}

func finishedTask() *Task {
	t := &Task{done: make(chan struct{})}
	close(t.done)
	return t
}

// Triggered reports whether a sync was started.
func (t *Task) Triggered() bool { return t.triggered }

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (domain.SyncResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return domain.SyncResult{}, ctx.Err()
	}
}

// Select makes the candidate the current place.
//
// Selecting the already selected place only refreshes its stored display
// fields. Selecting a different place persists it together with the
// selection setting, then syncs its default window in the background.
func (s *Service) Select(ctx context.Context, c provider.PlaceCandidate) (*domain.Place, *Task, error) {
	p, err := placeFromCandidate(c)
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	same := s.current != nil && s.current.PlaceID == p.PlaceID
	s.mu.RUnlock()

	var stored *domain.Place
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.places.Upsert(ctx, p); err != nil {
			return err
		}
		if !same {
			if err := s.settings.Set(ctx, domain.SettingSelectedPlace, &p.PlaceID); err != nil {
				return err
			}
		}
		got, err := s.places.GetByPlaceID(ctx, p.PlaceID)
		stored = got
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.setState(StateSelected, stored)
	s.mu.Unlock()

	if same {
		s.log.DebugContext(ctx, "selected place refreshed", slog.String("place_id", p.PlaceID))
		return copyPlace(stored), finishedTask(), nil
	}

	s.log.InfoContext(ctx, "place selected",
		slog.String("place_id", stored.PlaceID),
		slog.String("title", stored.DisplayTitle()),
	)

	return copyPlace(stored), s.startSync(ctx, stored.PlaceID), nil
}

func (s *Service) startSync(ctx context.Context, placeID string) *Task {
	t := &Task{done: make(chan struct{}), triggered: true}
	ctx = context.WithoutCancel(ctx)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		defer close(t.done)

		t.result, t.err = s.coord.Sync(ctx, placeID, domain.SyncOptions{})
		if t.err != nil {
			s.log.WarnContext(ctx, "sync after selection failed",
				slog.String("place_id", placeID),
				slog.String("error", t.err.Error()),
			)
		}
	}()

	return t
}

// Clear drops the selection. Cached places, events and reminders stay.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.settings.Delete(ctx, domain.SettingSelectedPlace); err != nil {
		return err
	}

	s.mu.Lock()
	s.setState(StateUnselected, nil)
	s.mu.Unlock()

	s.log.InfoContext(ctx, "selection cleared")
	return nil
}

// SyncSelected syncs the selected place with opts.
func (s *Service) SyncSelected(ctx context.Context, opts domain.SyncOptions) (domain.SyncResult, error) {
	sel := s.Current()
	if sel.Place == nil {
		return domain.SyncResult{}, ErrNoSelection
	}
	return s.coord.Sync(ctx, sel.Place.PlaceID, opts)
}

// placeFromCandidate maps a candidate onto a place row. The place id falls
// back to ID, the title to the name and the name to the title; blank text
// becomes nil.
func placeFromCandidate(c provider.PlaceCandidate) (domain.Place, error) {
	placeID := strings.TrimSpace(c.PlaceID)
	if placeID == "" {
		placeID = strings.TrimSpace(c.ID)
	}
	if placeID == "" {
		return domain.Place{}, domain.NewValidationError("place_id", "required")
	}

	name := textOrNil(c.Name)
	if name == nil {
		name = textOrNil(c.Title)
	}
	title := textOrNil(c.Title)
	if title == nil {
		title = name
	}

	return domain.Place{
		PlaceID:   placeID,
		Title:     title,
		Name:      name,
		AreaName:  textOrNil(c.AreaName),
		ParcelID:  c.ParcelID,
		ServiceID: c.ServiceID,
		AreaID:    c.AreaID,
		Type:      textOrNil(c.Type),
	}, nil
}

func textOrNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func copyPlace(p *domain.Place) *domain.Place {
	c := *p
	return &c
}
