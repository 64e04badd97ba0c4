package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aniboard/internal/taxonomy"
	"aniboard/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestFeedDecodesAllSections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"data":{
			"heroes":{"media":[{"id":1,"title":{"romaji":"Hero One"},"type":"ANIME"}]},
			"popular":{"media":[
				{"id":2,"title":{"romaji":"Pop"},"type":"MANGA","countryOfOrigin":"JP","averageScore":81},
				{"id":0,"title":{"romaji":"no id"},"type":"MANGA"},
				{"id":3,"title":{},"type":"MANGA"}
			]},
			"topRated":{"media":[]},
			"favourites":{"media":[{"id":4,"title":{"english":"Fav"},"type":"MANGA","countryOfOrigin":"KR"}]}
		}}`))
	})

	feed, err := client.Feed(context.Background(), taxonomy.Resolve(taxonomy.FacetUnified))
	require.NoError(t, err)

	require.Len(t, feed.Heroes, 1)
	assert.Equal(t, models.KindEpisodic, feed.Heroes[0].Kind)

	// items without id or any title are dropped individually
	require.Len(t, feed.Popular, 1)
	assert.Equal(t, 2, feed.Popular[0].ID)
	require.NotNil(t, feed.Popular[0].Score)
	assert.Equal(t, 81, *feed.Popular[0].Score)

	assert.Empty(t, feed.TopRated)
	require.Len(t, feed.Favourites, 1)
	assert.Equal(t, "KR", feed.Favourites[0].Origin)
}

func TestSimilarSkipsNullNodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"Media":{"recommendations":{"nodes":[
			{"mediaRecommendation":{"id":10,"title":{"romaji":"A"},"type":"ANIME"}},
			{"mediaRecommendation":null},
			{"mediaRecommendation":{"id":11,"title":{"english":"B"},"type":"MANGA","countryOfOrigin":"CN"}}
		]}}}}`))
	})

	got, err := client.Similar(context.Background(), 99)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].ID)
	assert.Equal(t, 11, got[1].ID)
	assert.Equal(t, "CN", got[1].Origin)
}

func TestQueryErrorsSurfaceAsRemote(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{}`))
		})
		_, err := client.Feed(context.Background(), taxonomy.FilterParams{})
		require.ErrorIs(t, err, ErrRemote)
	})

	t.Run("graphql errors", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
		})
		_, err := client.Similar(context.Background(), 1)
		require.ErrorIs(t, err, ErrRemote)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("connection refused", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second, zerolog.Nop())
		_, err := client.Search(context.Background(), "naruto")
		require.ErrorIs(t, err, ErrRemote)
	})
}

func TestSearchBuckets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"anime":{"media":[{"id":1,"title":{"romaji":"A"},"type":"ANIME"}]},
			"manga":{"media":[{"id":2,"title":{"romaji":"B"},"type":"MANGA","countryOfOrigin":"JP"}]},
			"manhwa":{"media":[]},
			"manhua":{"media":[{"id":3,"title":{"romaji":"C"},"type":"MANGA","countryOfOrigin":"CN"}]}
		}}`))
	})

	got, err := client.Search(context.Background(), "solo")
	require.NoError(t, err)
	assert.Len(t, got.Anime, 1)
	assert.Len(t, got.Manga, 1)
	assert.Empty(t, got.Manhwa)
	assert.Len(t, got.Manhua, 1)
}

func TestDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"Media":{
			"id":30013,
			"title":{"romaji":"One Piece","native":"ワンピース"},
			"coverImage":{"extraLarge":"https://img/xl.png"},
			"bannerImage":"https://img/banner.png",
			"description":"Pirates.",
			"status":"RELEASING",
			"type":"MANGA",
			"countryOfOrigin":"JP",
			"chapters":0,
			"volumes":0,
			"averageScore":92,
			"genres":["Action","Adventure"],
			"relations":{"edges":[
				{"relationType":"ADAPTATION","node":{"id":21,"title":{"romaji":"One Piece"},"coverImage":{"medium":"https://img/m.png"},"type":"ANIME"}},
				{"relationType":"OTHER","node":{"id":0}}
			]}
		}}}`))
	})

	got, err := client.Detail(context.Background(), 30013)
	require.NoError(t, err)
	assert.Equal(t, 30013, got.ID)
	assert.Equal(t, models.KindPrint, got.Kind)
	assert.Equal(t, "JP", got.Origin)
	assert.Equal(t, "RELEASING", got.Status)
	require.Len(t, got.Relations, 1)
	assert.Equal(t, models.KindEpisodic, got.Relations[0].Kind)
}
