package location

import (
	"context"
	"sync"

	"github.com/ecoscan/wastecal/internal/domain"
)

var _ syncer = &syncerMock{}

type syncerMock struct {
	SyncFunc func(ctx context.Context, placeID string, opts domain.SyncOptions) (domain.SyncResult, error)

	calls struct {
		Sync []struct {
			PlaceID string
			Opts    domain.SyncOptions
		}
	}
	lockSync sync.RWMutex
}

func (mock *syncerMock) Sync(ctx context.Context, placeID string, opts domain.SyncOptions) (domain.SyncResult, error) {
	if mock.SyncFunc == nil {
		panic("syncerMock.SyncFunc: method is nil but syncer.Sync was just called")
	}
	callInfo := struct {
		PlaceID string
		Opts    domain.SyncOptions
	}{PlaceID: placeID, Opts: opts}
	mock.lockSync.Lock()
	mock.calls.Sync = append(mock.calls.Sync, callInfo)
	mock.lockSync.Unlock()
	return mock.SyncFunc(ctx, placeID, opts)
}

func (mock *syncerMock) SyncCalls() []struct {
	PlaceID string
	Opts    domain.SyncOptions
} {
	mock.lockSync.RLock()
	calls := mock.calls.Sync
	mock.lockSync.RUnlock()
	return calls
}
