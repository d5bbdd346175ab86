package location

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ecoscan/wastecal/internal/domain"
)

// Resolve reads the persisted selection into memory. A selection that
// points at a place missing from the store resolves to StateUnselected.
// On a storage error the state stays unresolved.
func (s *Service) Resolve(ctx context.Context) (Selection, error) {
	placeID, err := s.settings.Get(ctx, domain.SettingSelectedPlace)
	if err != nil {
		return Selection{State: StateUnresolved}, err
	}

	var p *domain.Place
	if placeID != nil && *placeID != "" {
		p, err = s.places.GetByPlaceID(ctx, *placeID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.log.WarnContext(ctx, "selected place missing from store",
				slog.String("place_id", *placeID))
			p = nil
		case err != nil:
			return Selection{State: StateUnresolved}, err
		}
	}

	s.mu.Lock()
	if p != nil {
		s.setState(StateSelected, p)
	} else {
		s.setState(StateUnselected, nil)
	}
	s.mu.Unlock()

	sel := s.Current()
	s.log.InfoContext(ctx, "selection resolved", slog.String("state", sel.State.String()))
	return sel, nil
}
