package redis

import (
	"context"
	"strconv"

	"github.com/Kcodess2807/Blitz-Protocol/internal/db"
)

// CreateIndex creates the FT index from the given definition. An already
// existing index is treated as success, so startup ensure is idempotent.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	args := []string{def.Name, "ON", "HASH", "PREFIX", "1", def.Prefix, "SCHEMA"}

	m := def.HNSWM
	if m <= 0 {
		m = 16
	}
	ef := def.HNSWEFConstruct
	if ef <= 0 {
		ef = 200
	}

	args = append(args,
		"__vector", "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.VectorDim),
		"DISTANCE_METRIC", "COSINE",
		"M", strconv.Itoa(m),
		"EF_CONSTRUCTION", strconv.Itoa(ef),
	)
	args = append(args, "__content", "TEXT")
	for _, tag := range def.Tags {
		args = append(args, tag, "TAG")
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return nil
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}
