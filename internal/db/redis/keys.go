package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/Kcodess2807/Blitz-Protocol/internal/db"
)

const (
	scanBatch   = 500
	deleteBatch = 200
)

// ScanKeys lists all keys matching a glob pattern via cursor SCAN.
func (s *Store) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()
		entry, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}

// DeleteKeys removes keys in DoMulti batches.
func (s *Store) DeleteKeys(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += deleteBatch {
		end := start + deleteBatch
		if end > len(keys) {
			end = len(keys)
		}

		batch := keys[start:end]
		cmds := make([]rueidis.Completed, len(batch))
		for i, key := range batch {
			cmds[i] = s.b().Del().Key(key).Build()
		}

		for _, res := range s.client.DoMulti(ctx, cmds...) {
			if err := res.Error(); err != nil {
				return &db.Error{Op: db.OpDel, Err: err}
			}
		}
	}
	return nil
}
