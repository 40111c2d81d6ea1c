package xtream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIURL(t *testing.T) {
	c := NewClient("http://panel.example/", "user", "pass")

	u := c.apiURL("get_vod_categories", nil)
	assert.Equal(t, "http://panel.example/player_api.php?action=get_vod_categories&password=pass&username=user", u)
}

func TestMovieURL(t *testing.T) {
	c := NewClient("http://panel.example", "user", "pass")

	assert.Equal(t, "http://panel.example/movie/user/pass/42.avi", c.MovieURL("42", "avi"))
	assert.Equal(t, "http://panel.example/movie/user/pass/42.mp4", c.MovieURL("42", ""), "mp4 default")
}

func TestEpisodeURL(t *testing.T) {
	c := NewClient("http://panel.example", "user", "pass")

	assert.Equal(t, "http://panel.example/series/user/pass/7.mp4", c.EpisodeURL("7", "mp4"))
	assert.Equal(t, "http://panel.example/series/user/pass/7.mkv", c.EpisodeURL("7", ""), "mkv default")
}

func TestGetVODCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player_api.php", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "user", q.Get("username"))
		assert.Equal(t, "pass", q.Get("password"))
		assert.Equal(t, "get_vod_categories", q.Get("action"))
		_, _ = w.Write([]byte(`[
			{"category_id": 1, "category_name": "Terror"},
			{"category_id": "2", "category_name": "Drama"}
		]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "user", "pass")
	cats, err := c.GetVODCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)

	// Numeric and string ids both normalize.
	assert.Equal(t, "1", cats[0].CategoryID.String())
	assert.Equal(t, "2", cats[1].CategoryID.String())
}

func TestCall_LenientDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Degraded panels answer list endpoints with HTML.
		_, _ = w.Write([]byte("<html>suspended</html>"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "user", "pass")
	cats, err := c.GetVODCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestCall_ErrorsSanitized(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "secretuser", "secretpass")
	_, err := c.GetVODCategories(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secretuser")
	assert.NotContains(t, err.Error(), "secretpass")
}

func TestCall_RequestBuildErrorSanitized(t *testing.T) {
	// A control character makes request construction itself fail; that
	// error embeds the full credentialed URL.
	c := NewClient("http://panel.invalid/\x7f", "secretuser", "secretpass")
	_, err := c.GetVODCategories(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secretuser")
	assert.NotContains(t, err.Error(), "secretpass")
}

func TestGetSeriesInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_series_info", r.URL.Query().Get("action"))
		assert.Equal(t, "9", r.URL.Query().Get("series_id"))
		_, _ = w.Write([]byte(`{
			"episodes": {
				"1": [
					{"id": "100", "title": "Pilot", "episode_num": 1, "container_extension": "mkv"},
					{"id": "101", "title": "", "episode_num": "2"}
				]
			}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "user", "pass")
	info, err := c.GetSeriesInfo(context.Background(), "9")
	require.NoError(t, err)
	require.Len(t, info.Episodes["1"], 2)
	assert.Equal(t, 2, int(info.Episodes["1"][1].EpisodeNum))
}

func TestFlexTypes(t *testing.T) {
	var s flexString
	require.NoError(t, s.UnmarshalJSON([]byte(`"abc"`)))
	assert.Equal(t, "abc", s.String())
	require.NoError(t, s.UnmarshalJSON([]byte(`12`)))
	assert.Equal(t, "12", s.String())
	require.NoError(t, s.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, "", s.String())

	var f flexFloat
	require.NoError(t, f.UnmarshalJSON([]byte(`"7.5"`)))
	assert.Equal(t, 7.5, float64(f))
	require.NoError(t, f.UnmarshalJSON([]byte(`3`)))
	assert.Equal(t, 3.0, float64(f))
	require.NoError(t, f.UnmarshalJSON([]byte(`"not a number"`)))
	assert.Equal(t, 0.0, float64(f))
}
