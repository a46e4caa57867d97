package hn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type memCache struct {
	entries map[string][]byte
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	body, ok := m.entries[url]
	return body, ok, nil
}

func (m *memCache) Put(_ context.Context, url string, body []byte) error {
	m.entries[url] = body
	m.puts++
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cache ResponseCache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(cache, 0)
	c.baseURL = srv.URL
	return c
}

func TestGetItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/item/8863.json", r.URL.Path)
		w.Write([]byte(`{"id":8863,"type":"story","by":"dhouston","time":1175714200,"title":"My YC app","score":104,"kids":[9224]}`))
	}, nil)

	item, err := c.GetItem(context.Background(), 8863)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, 8863, item.ID)
	require.Equal(t, "story", item.Type)
	require.Equal(t, []int{9224}, item.Kids)
	require.Nil(t, item.Parent)
}

func TestGetItemNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}, nil)

	item, err := c.GetItem(context.Background(), 30)
	require.NoError(t, err)
	require.Nil(t, item)
}

func TestGetItemTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, nil)

	_, err := c.GetItem(context.Background(), 1)
	require.Error(t, err)
}

func TestGetItemMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}, nil)

	_, err := c.GetItem(context.Background(), 1)
	require.Error(t, err)
}

func TestGetItemReadThroughCache(t *testing.T) {
	hits := 0
	cache := newMemCache()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"id":42,"type":"comment","time":1}`))
	}, cache)

	for range 3 {
		item, err := c.GetItem(context.Background(), 42)
		require.NoError(t, err)
		require.Equal(t, 42, item.ID)
	}
	require.Equal(t, 1, hits, "second and third fetch should come from cache")
	require.Equal(t, 1, cache.puts)
}

func TestGetUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/pg.json", r.URL.Path)
		w.Write([]byte(`{"id":"pg","created":1160418092,"karma":155111,"submitted":[10,20]}`))
	}, nil)

	user, err := c.GetUser(context.Background(), "pg")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, []int{10, 20}, user.Submitted)
}

func TestGetUserUnknown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}, nil)

	user, err := c.GetUser(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestGetUserBypassesCache(t *testing.T) {
	hits := 0
	cache := newMemCache()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"id":"pg","submitted":[1]}`))
	}, cache)

	for range 2 {
		_, err := c.GetUser(context.Background(), "pg")
		require.NoError(t, err)
	}
	require.Equal(t, 2, hits)
	require.Equal(t, 0, cache.puts)
}
