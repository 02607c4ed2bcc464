package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dcode-github/real_estate_listing/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// countingCache is an in-memory PropertyCache that records invalidations.
type countingCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generation  int64
	invalidated int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string][]byte{}}
}

func (c *countingCache) key(key string, generation int64) string {
	return fmt.Sprintf("%s:%d", key, generation)
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[c.key(key, c.generation)]
	return data, c.generation, ok
}

func (c *countingCache) Set(_ context.Context, key string, generation int64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(key, generation)] = data
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.generation++
	c.invalidated++
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func asUser(r *http.Request, userID primitive.ObjectID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
}

func withID(r *http.Request, id string) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": id})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
