package location

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

// Suggest returns candidate places for a partial address. Short queries
// and remote failures yield an empty list. Identical concurrent queries
// share one remote call.
func (s *Service) Suggest(ctx context.Context, query string) []domain.Place {
	q := domain.NormalizeText(query)
	if utf8.RuneCountInString(q) < s.cfg.MinQueryLength {
		return []domain.Place{}
	}

	v, err, shared := s.group.Do(q, func() (any, error) {
		return s.remote.Suggest(ctx, strings.TrimSpace(query))
	})
	if err != nil {
		s.log.WarnContext(ctx, "suggestion fetch failed",
			slog.String("query", q),
			slog.String("error", err.Error()),
		)
		return []domain.Place{}
	}

	candidates, _ := v.([]provider.PlaceCandidate)
	out := make([]domain.Place, 0, len(candidates))
	for _, c := range candidates {
		p, err := placeFromCandidate(c)
		if err != nil {
			continue
		}
		out = append(out, p)
		if s.cfg.Limit > 0 && len(out) == s.cfg.Limit {
			break
		}
	}

	s.log.DebugContext(ctx, "suggestions fetched",
		slog.String("query", q),
		slog.Int("count", len(out)),
		slog.Bool("shared", shared),
	)
	return out
}
