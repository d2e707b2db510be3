package redis

import (
	"context"
	"sort"

	"github.com/kailas-cloud/satvach/internal/db"
)

// XAdd appends an entry with an auto-generated ID and returns that ID.
// Fields are written in key order so entries are reproducible.
func (s *Store) XAdd(ctx context.Context, key string, fields map[string]string) (string, error) {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	args := make([]string, 0, 1+len(fields)*2)
	args = append(args, "*")
	for _, k := range names {
		args = append(args, k, fields[k])
	}

	cmd := s.b().Arbitrary("XADD").Keys(key).Args(args...).Build()
	id, err := s.do(ctx, cmd).ToString()
	if err != nil {
		return "", &db.Error{Op: db.OpXAdd, Err: err}
	}
	return id, nil
}

// XRange returns every entry of a stream, oldest first. A missing key yields no entries.
func (s *Store) XRange(ctx context.Context, key string) ([]db.StreamEntry, error) {
	cmd := s.b().Arbitrary("XRANGE").Keys(key).Args("-", "+").Build()
	entries, err := s.do(ctx, cmd).AsXRange()
	if err != nil {
		return nil, &db.Error{Op: db.OpXRange, Err: err}
	}
	out := make([]db.StreamEntry, len(entries))
	for i, e := range entries {
		out[i] = db.StreamEntry{ID: e.ID, Fields: e.FieldValues}
	}
	return out, nil
}
