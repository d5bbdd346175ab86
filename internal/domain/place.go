package domain

import "time"

// SettingSelectedPlace is the settings key holding the selected place id.
const SettingSelectedPlace = "selectedPlaceId"

// Place is a cached service location, keyed by the remote place id.
// Optional attributes are nil when the remote never reported them.
type Place struct {
	ID        int64
	PlaceID   string
	Title     *string
	Name      *string
	AreaName  *string
	ParcelID  *int64
	ServiceID *int64
	AreaID    *int64
	Type      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayTitle returns the best label for the place: title, then name,
// then the raw place id.
func (p Place) DisplayTitle() string {
	if s, ok := FirstNonEmpty(p.Title, p.Name); ok {
		return s
	}
	return p.PlaceID
}
