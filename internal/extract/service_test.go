package extract

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokgrab/internal/cache"
	"tokgrab/internal/provider"
	"tokgrab/pkg/models"
)

// stubProvider returns a fixed payload or error and counts its invocations.
type stubProvider struct {
	payload []byte
	err     error
	calls   atomic.Int64

	// release, when set, blocks Fetch until closed
	release chan struct{}
}

func (p *stubProvider) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	p.calls.Add(1)
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.payload, nil
}

func TestExtractNormalizesAndCaches(t *testing.T) {
	prov := &stubProvider{payload: []byte(`{"id": "1", "desc": "Test", "duration": 15000}`)}
	store := cache.NewStore()
	service := NewService(store, prov)

	record, err := service.Extract(context.Background(), "https://example.com/video/1")
	require.NoError(t, err)

	want := models.VideoRecord{
		ID:       "1",
		Title:    "Test",
		Author:   "Unknown",
		Duration: "0:15",
		Views:    "0",
	}
	assert.Equal(t, want, record)

	cached, ok := store.Get("https://example.com/video/1")
	require.True(t, ok)
	assert.Equal(t, record, cached)
}

func TestExtractIdempotentWithinTTL(t *testing.T) {
	prov := &stubProvider{payload: []byte(`{"id": "1", "desc": "First"}`)}
	service := NewService(cache.NewStore(), prov)

	first, err := service.Extract(context.Background(), "https://example.com/video/1")
	require.NoError(t, err)

	// A changed upstream payload must not be observed within the TTL window
	prov.payload = []byte(`{"id": "1", "desc": "Changed"}`)

	second, err := service.Extract(context.Background(), "https://example.com/video/1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), prov.calls.Load())
}

func TestExtractDistinctURLs(t *testing.T) {
	prov := &stubProvider{payload: []byte(`{"id": "1"}`)}
	service := NewService(cache.NewStore(), prov)

	_, err := service.Extract(context.Background(), "https://example.com/video/1")
	require.NoError(t, err)
	_, err = service.Extract(context.Background(), "https://example.com/video/2")
	require.NoError(t, err)

	assert.Equal(t, int64(2), prov.calls.Load())
}

func TestExtractProviderFailureNotCached(t *testing.T) {
	prov := &stubProvider{err: provider.ErrUpstreamFailure}
	store := cache.NewStore()
	service := NewService(store, prov)

	_, err := service.Extract(context.Background(), "https://example.com/video/1")
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Equal(t, 0, store.Len())

	// The next call goes upstream again
	prov.err = nil
	prov.payload = []byte(`{"id": "1"}`)
	_, err = service.Extract(context.Background(), "https://example.com/video/1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), prov.calls.Load())
}

func TestExtractEmptyResultFails(t *testing.T) {
	prov := &stubProvider{payload: []byte(``)}
	service := NewService(cache.NewStore(), prov)

	_, err := service.Extract(context.Background(), "https://example.com/video/1")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractSingleFlightCollapsesConcurrentMisses(t *testing.T) {
	prov := &stubProvider{
		payload: []byte(`{"id": "1"}`),
		release: make(chan struct{}),
	}
	service := NewService(cache.NewStore(), prov, WithSingleFlight())

	const callers = 8
	var wg sync.WaitGroup
	records := make([]models.VideoRecord, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			records[n], errs[n] = service.Extract(context.Background(), "https://example.com/video/1")
		}(i)
	}

	// Give every caller time to join the in-flight call, then release it
	time.Sleep(100 * time.Millisecond)
	close(prov.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, records[0], records[i])
	}
	assert.Equal(t, int64(1), prov.calls.Load())
}

func TestExtractWrapsProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	prov := &stubProvider{err: cause}
	service := NewService(cache.NewStore(), prov)

	_, err := service.Extract(context.Background(), "https://example.com/video/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Contains(t, err.Error(), "connection refused")
}
