// Package provider holds the provider-neutral shapes returned by remote
// feeds. Adapters under internal/adapter/provider decode into these types;
// nothing here talks to the network.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ecoscan/wastecal/internal/domain"
)

// EventRecord is one collection event as sent by the schedule feed.
type EventRecord struct {
	ID            int64       `json:"id"`
	Day           string      `json:"day"`
	ZoneID        *int64      `json:"zone_id"`
	CustomMessage *string     `json:"custom_message"`
	CustomSubject *string     `json:"custom_subject"`
	Flags         []EventFlag `json:"flags"`
}

// EventFlag carries the descriptive fields of an event. Only the first flag
// of a record is meaningful.
type EventFlag struct {
	IsWeekLong       OptionalBool `json:"is_week_long"`
	EventType        *string      `json:"event_type"`
	ShortTextMessage *string      `json:"short_text_message"`
	Name             *string      `json:"name"`
	PlainTextMessage *string      `json:"plain_text_message"`
	AreaName         *string      `json:"area_name"`
	ServiceName      *string      `json:"service_name"`
	Subject          *string      `json:"subject"`
}

// OptionalBool decodes a JSON boolean, a number (non-zero is true) or null.
type OptionalBool struct {
	Bool  bool
	Valid bool
}

// Ptr returns nil when the value was absent or null.
func (o OptionalBool) Ptr() *bool {
	if !o.Valid {
		return nil
	}
	b := o.Bool
	return &b
}

func (o *OptionalBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null":
		*o = OptionalBool{}
	case string(b) == "true":
		*o = OptionalBool{Bool: true, Valid: true}
	case string(b) == "false":
		*o = OptionalBool{Bool: false, Valid: true}
	default:
		raw := string(b)
		if len(raw) >= 2 && raw[0] == '"' {
			raw = raw[1 : len(raw)-1]
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("optional bool: unsupported value %s", b)
		}
		*o = OptionalBool{Bool: f != 0, Valid: true}
	}
	return nil
}

// PlaceCandidate is a location returned by the suggestion feed, or supplied
// by a client selecting a place. ID is accepted as an alias for PlaceID.
type PlaceCandidate struct {
	ID        string  `json:"id,omitempty"`
	PlaceID   string  `json:"place_id"`
	Title     *string `json:"title,omitempty"`
	Name      *string `json:"name"`
	AreaName  *string `json:"area_name"`
	ParcelID  *int64  `json:"parcel_id"`
	ServiceID *int64  `json:"service_id"`
	AreaID    *int64  `json:"area_id"`
	Type      *string `json:"type"`
}

// ClassificationResult is the response of the image classification endpoint.
type ClassificationResult struct {
	Objects     []map[string]any `json:"objects"`
	OutputImage string           `json:"output_image"`
}

// HTTPError reports a non-2xx response from a remote feed.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (e *HTTPError) Unwrap() error { return domain.ErrUnavailable }

// DecodeEventList accepts either a bare JSON array of events or an object
// with an "events" array. Any other well-formed JSON yields an empty list;
// malformed JSON is an error.
func DecodeEventList(body []byte) ([]EventRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []EventRecord{}, nil
	}

	switch body[0] {
	case '[':
		var list []EventRecord
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode event array: %w", err)
		}
		return list, nil
	case '{':
		var wrapped struct {
			Events json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decode event object: %w", err)
		}
		inner := bytes.TrimSpace(wrapped.Events)
		if len(inner) == 0 || inner[0] != '[' {
			return []EventRecord{}, nil
		}
		var list []EventRecord
		if err := json.Unmarshal(inner, &list); err != nil {
			return nil, fmt.Errorf("decode events field: %w", err)
		}
		return list, nil
	default:
		if !json.Valid(body) {
			return nil, fmt.Errorf("decode events: invalid JSON")
		}
		return []EventRecord{}, nil
	}
}
