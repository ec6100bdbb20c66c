package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/darkkaiser/catalog-sync/internal/fetcher/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRetryFetcher_NonIdempotentMethod(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockFetcher()
	m.On("Do", mock.Anything).Return(mocks.NewMockResponse("", http.StatusServiceUnavailable), nil).Once()

	f := fetcher.NewRetryFetcher(m, 3, time.Millisecond, time.Millisecond)
	req := httptest.NewRequest(http.MethodPost, "http://supplier.test/store/products", nil)

	_, err := f.Do(req)
	require.Error(t, err)
	m.AssertNumberOfCalls(t, "Do", 1)
}

func TestRetryFetcher_ContextCanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockFetcher()
	m.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

	f := fetcher.NewRetryFetcher(m, 5, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "http://supplier.test/", nil).WithContext(ctx)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.Do(req)
	assert.ErrorIs(t, err, context.Canceled)
}
