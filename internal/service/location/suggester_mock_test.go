package location

import (
	"context"
	"sync"

	"github.com/ecoscan/wastecal/internal/provider"
)

var _ suggester = &suggesterMock{}

type suggesterMock struct {
	SuggestFunc func(ctx context.Context, query string) ([]provider.PlaceCandidate, error)

	calls struct {
		Suggest []struct {
			Query string
		}
	}
	lockSuggest sync.RWMutex
}

func (mock *suggesterMock) Suggest(ctx context.Context, query string) ([]provider.PlaceCandidate, error) {
	if mock.SuggestFunc == nil {
		panic("suggesterMock.SuggestFunc: method is nil but suggester.Suggest was just called")
	}
	callInfo := struct {
		Query string
	}{Query: query}
	mock.lockSuggest.Lock()
	mock.calls.Suggest = append(mock.calls.Suggest, callInfo)
	mock.lockSuggest.Unlock()
	return mock.SuggestFunc(ctx, query)
}

func (mock *suggesterMock) SuggestCalls() []struct {
	Query string
} {
	mock.lockSuggest.RLock()
	calls := mock.calls.Suggest
	mock.lockSuggest.RUnlock()
	return calls
}
