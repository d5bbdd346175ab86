package eventsync

import (
	"context"
	"sync"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

var _ eventFeed = &eventFeedMock{}

type eventFeedMock struct {
	FetchEventsFunc func(ctx context.Context, placeID string, w domain.Window, locale string) ([]provider.EventRecord, error)

	calls struct {
		FetchEvents []struct {
			PlaceID string
			W       domain.Window
			Locale  string
		}
	}
	lockFetchEvents sync.RWMutex
}

func (mock *eventFeedMock) FetchEvents(ctx context.Context, placeID string, w domain.Window, locale string) ([]provider.EventRecord, error) {
	if mock.FetchEventsFunc == nil {
		panic("eventFeedMock.FetchEventsFunc: method is nil but eventFeed.FetchEvents was just called")
	}
	callInfo := struct {
		PlaceID string
		W       domain.Window
		Locale  string
	}{PlaceID: placeID, W: w, Locale: locale}
	mock.lockFetchEvents.Lock()
	mock.calls.FetchEvents = append(mock.calls.FetchEvents, callInfo)
	mock.lockFetchEvents.Unlock()
	return mock.FetchEventsFunc(ctx, placeID, w, locale)
}

func (mock *eventFeedMock) FetchEventsCalls() []struct {
	PlaceID string
	W       domain.Window
	Locale  string
} {
	mock.lockFetchEvents.RLock()
	calls := mock.calls.FetchEvents
	mock.lockFetchEvents.RUnlock()
	return calls
}
