package rest

import (
	"time"

	"github.com/ecoscan/wastecal/internal/domain"
)

type placeResponse struct {
	ID        int64     `json:"id"`
	PlaceID   string    `json:"place_id"`
	Title     *string   `json:"title"`
	Name      *string   `json:"name"`
	AreaName  *string   `json:"area_name"`
	ParcelID  *int64    `json:"parcel_id"`
	ServiceID *int64    `json:"service_id"`
	AreaID    *int64    `json:"area_id"`
	Type      *string   `json:"type"`
	Display   string    `json:"display_title"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPlaceResponse(p *domain.Place) *placeResponse {
	if p == nil {
		return nil
	}
	return &placeResponse{
		ID:        p.ID,
		PlaceID:   p.PlaceID,
		Title:     p.Title,
		Name:      p.Name,
		AreaName:  p.AreaName,
		ParcelID:  p.ParcelID,
		ServiceID: p.ServiceID,
		AreaID:    p.AreaID,
		Type:      p.Type,
		Display:   p.DisplayTitle(),
		UpdatedAt: p.UpdatedAt,
	}
}

func toPlaceList(places []domain.Place) []placeResponse {
	out := make([]placeResponse, 0, len(places))
	for i := range places {
		out = append(out, *toPlaceResponse(&places[i]))
	}
	return out
}

type reminderResponse struct {
	ID          int64       `json:"id"`
	EventID     int64       `json:"event_id"`
	PlaceID     string      `json:"place_id"`
	EventDate   domain.Date `json:"event_date"`
	RemindDate  domain.Date `json:"remind_date"`
	Note        *string     `json:"note"`
	PlaceTitle  *string     `json:"place_title"`
	EventTitle  *string     `json:"event_title"`
	ServiceName *string     `json:"service_name"`
	EventType   *string     `json:"event_type"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toReminderResponse(r *domain.Reminder) reminderResponse {
	return reminderResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		PlaceID:     r.PlaceID,
		EventDate:   r.EventDate,
		RemindDate:  r.RemindDate,
		Note:        r.Note,
		PlaceTitle:  r.PlaceTitle,
		EventTitle:  r.EventTitle,
		ServiceName: r.ServiceName,
		EventType:   r.EventType,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toReminderList(rems []domain.Reminder) []reminderResponse {
	out := make([]reminderResponse, 0, len(rems))
	for i := range rems {
		out = append(out, toReminderResponse(&rems[i]))
	}
	return out
}

type syncResponse struct {
	domain.SyncResult
	PlaceID      string `json:"place_id"`
	Deduplicated bool   `json:"deduplicated"`
}
