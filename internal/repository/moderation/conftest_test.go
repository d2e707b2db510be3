package moderation

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/satvach/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	streams map[string][]db.StreamEntry
	xaddErr error
	delKeys []string
}

func (m *mockStore) XAdd(_ context.Context, key string, fields map[string]string) (string, error) {
	if m.xaddErr != nil {
		return "", m.xaddErr
	}
	id := fmt.Sprintf("%d-0", len(m.streams[key])+1)
	m.streams[key] = append(m.streams[key], db.StreamEntry{ID: id, Fields: fields})
	return id, nil
}

func (m *mockStore) XRange(_ context.Context, key string) ([]db.StreamEntry, error) {
	return m.streams[key], nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.delKeys = append(m.delKeys, k)
		delete(m.streams, k)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{streams: map[string][]db.StreamEntry{}}
	return New(ms, ""), ms
}
