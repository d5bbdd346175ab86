// Package place implements the cached service location repository on SQLite.
package place

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/domain"
)

// Repo provides place persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new place repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

var columns = []string{
	"id", "place_id", "title", "name", "area_name", "parcel_id",
	"service_id", "area_id", "type", "created_at", "updated_at",
}

// upsertSuffix keeps previously known attributes when the incoming value is NULL.
const upsertSuffix = `ON CONFLICT(place_id) DO UPDATE SET
    title      = COALESCE(excluded.title, addresses.title),
    name       = COALESCE(excluded.name, addresses.name),
    area_name  = COALESCE(excluded.area_name, addresses.area_name),
    parcel_id  = COALESCE(excluded.parcel_id, addresses.parcel_id),
    service_id = COALESCE(excluded.service_id, addresses.service_id),
    area_id    = COALESCE(excluded.area_id, addresses.area_id),
    type       = COALESCE(excluded.type, addresses.type)
RETURNING id`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert inserts p or merges it into the row with the same PlaceID and
// returns the local row id.
func (r *Repo) Upsert(ctx context.Context, p domain.Place) (int64, error) {
	if p.PlaceID == "" {
		return 0, domain.NewValidationError("place_id", "required")
	}

	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Insert("addresses").
		Columns("place_id", "title", "name", "area_name", "parcel_id", "service_id", "area_id", "type").
		Values(
			p.PlaceID,
			sqlite.StringArg(p.Title),
			sqlite.StringArg(p.Name),
			sqlite.StringArg(p.AreaName),
			sqlite.Int64Arg(p.ParcelID),
			sqlite.Int64Arg(p.ServiceID),
			sqlite.Int64Arg(p.AreaID),
			sqlite.StringArg(p.Type),
		).
		Suffix(upsertSuffix)

	id, err := sqlite.GetFirst(ctx, q, b, func(s sqlite.Scanner) (int64, error) {
		var id int64
		err := s.Scan(&id)
		return id, err
	})
	if err != nil {
		return 0, sqlite.MapError(err, "place", p.PlaceID)
	}

	return id, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByPlaceID returns the cached place. Returns domain.ErrNotFound if it
// was never stored.
func (r *Repo) GetByPlaceID(ctx context.Context, placeID string) (*domain.Place, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).From("addresses").Where(squirrel.Eq{"place_id": placeID})

	p, err := sqlite.GetFirst(ctx, q, b, scanPlace)
	if err != nil {
		return nil, sqlite.MapError(err, "place", placeID)
	}

	return &p, nil
}

// List returns cached places, most recently touched first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Place, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).From("addresses").OrderBy("updated_at DESC", "id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		if limit <= 0 {
			// SQLite only accepts OFFSET after a LIMIT.
			b = b.Limit(math.MaxInt64)
		}
		b = b.Offset(uint64(offset))
	}

	places, err := sqlite.GetAll(ctx, q, b, scanPlace)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	return places, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func scanPlace(s sqlite.Scanner) (domain.Place, error) {
	var (
		p                           domain.Place
		placeID                     sql.NullString
		title, name, area, typ      sql.NullString
		parcelID, serviceID, areaID sql.NullInt64
		createdAt, updatedAt        string
	)

	if err := s.Scan(
		&p.ID, &placeID, &title, &name, &area, &parcelID,
		&serviceID, &areaID, &typ, &createdAt, &updatedAt,
	); err != nil {
		return domain.Place{}, err
	}

	p.PlaceID = placeID.String
	p.Title = sqlite.StringPtr(title)
	p.Name = sqlite.StringPtr(name)
	p.AreaName = sqlite.StringPtr(area)
	p.ParcelID = sqlite.Int64Ptr(parcelID)
	p.ServiceID = sqlite.Int64Ptr(serviceID)
	p.AreaID = sqlite.Int64Ptr(areaID)
	p.Type = sqlite.StringPtr(typ)
	p.CreatedAt = sqlite.ParseTimestamp(createdAt)
	p.UpdatedAt = sqlite.ParseTimestamp(updatedAt)

	return p, nil
}
