package eventsync

import (
	"context"
	"sync"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	NormalizeFunc  func(rec provider.EventRecord, placeID string) (domain.Event, error)
	UpsertManyFunc func(ctx context.Context, events []domain.Event) (int, error)

	calls struct {
		Normalize []struct {
			Rec     provider.EventRecord
			PlaceID string
		}
		UpsertMany []struct {
			Events []domain.Event
		}
	}
	lockNormalize  sync.RWMutex
	lockUpsertMany sync.RWMutex
}

func (mock *eventRepoMock) Normalize(rec provider.EventRecord, placeID string) (domain.Event, error) {
	if mock.NormalizeFunc == nil {
		panic("eventRepoMock.NormalizeFunc: method is nil but eventRepo.Normalize was just called")
	}
	callInfo := struct {
		Rec     provider.EventRecord
		PlaceID string
	}{Rec: rec, PlaceID: placeID}
	mock.lockNormalize.Lock()
	mock.calls.Normalize = append(mock.calls.Normalize, callInfo)
	mock.lockNormalize.Unlock()
	return mock.NormalizeFunc(rec, placeID)
}

func (mock *eventRepoMock) UpsertMany(ctx context.Context, events []domain.Event) (int, error) {
	if mock.UpsertManyFunc == nil {
		panic("eventRepoMock.UpsertManyFunc: method is nil but eventRepo.UpsertMany was just called")
	}
	callInfo := struct {
		Events []domain.Event
	}{Events: events}
	mock.lockUpsertMany.Lock()
	mock.calls.UpsertMany = append(mock.calls.UpsertMany, callInfo)
	mock.lockUpsertMany.Unlock()
	return mock.UpsertManyFunc(ctx, events)
}

func (mock *eventRepoMock) UpsertManyCalls() []struct {
	Events []domain.Event
} {
	mock.lockUpsertMany.RLock()
	calls := mock.calls.UpsertMany
	mock.lockUpsertMany.RUnlock()
	return calls
}
