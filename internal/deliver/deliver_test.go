package deliver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokgrab/internal/cache"
	"tokgrab/pkg/models"
)

func storeWith(t *testing.T, url string, urls models.DownloadURLs) *cache.Store {
	t.Helper()

	store := cache.NewStore()
	store.Put(url, models.VideoRecord{
		ID:           "vid1",
		Title:        "Test Video",
		Author:       "tester",
		Duration:     "0:30",
		Views:        "0",
		DownloadURLs: urls,
	})
	return store
}

func TestResolveRecordNotFound(t *testing.T) {
	service := NewService(cache.NewStore())

	_, err := service.Resolve("https://www.tiktok.com/@u/video/1", models.QualityHD)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestResolveHD(t *testing.T) {
	const url = "https://www.tiktok.com/@u/video/1"
	service := NewService(storeWith(t, url, models.DownloadURLs{
		HD: "https://cdn/hd.mp4",
		SD: "https://cdn/sd.mp4",
	}))

	res, err := service.Resolve(url, models.QualityHD)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/hd.mp4", res.URL)
	assert.Equal(t, "vid1_hd.mp4", res.Filename)
	assert.Equal(t, "video/mp4", res.ContentType)
}

func TestResolveSDFallsBackToHD(t *testing.T) {
	const url = "https://www.tiktok.com/@u/video/1"
	service := NewService(storeWith(t, url, models.DownloadURLs{
		HD: "https://cdn/hd.mp4",
	}))

	res, err := service.Resolve(url, models.QualitySD)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/hd.mp4", res.URL)
	assert.Equal(t, "vid1_sd.mp4", res.Filename)
	assert.Equal(t, "video/mp4", res.ContentType)
}

func TestResolveAudio(t *testing.T) {
	const url = "https://www.tiktok.com/@u/video/1"
	service := NewService(storeWith(t, url, models.DownloadURLs{
		Audio: "https://cdn/audio.mp3",
	}))

	res, err := service.Resolve(url, models.QualityAudio)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/audio.mp3", res.URL)
	assert.Equal(t, "vid1_audio.mp3", res.Filename)
	assert.Equal(t, "audio/mpeg", res.ContentType)
}

func TestResolveAudioHasNoFallback(t *testing.T) {
	const url = "https://www.tiktok.com/@u/video/1"
	service := NewService(storeWith(t, url, models.DownloadURLs{
		HD: "https://cdn/hd.mp4",
	}))

	_, err := service.Resolve(url, models.QualityAudio)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQualityUnavailable)
	assert.Contains(t, err.Error(), "audio")
}

func TestResolveNothingDownloadable(t *testing.T) {
	const url = "https://www.tiktok.com/@u/video/1"
	service := NewService(storeWith(t, url, models.DownloadURLs{}))

	for _, quality := range []models.Quality{models.QualityHD, models.QualitySD, models.QualityAudio} {
		_, err := service.Resolve(url, quality)
		assert.ErrorIs(t, err, ErrQualityUnavailable, string(quality))
	}
}
