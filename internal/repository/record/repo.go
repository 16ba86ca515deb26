// Package record persists records as JSON values in the KV store.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/bokjinpyeong/my-data-reflection/internal/db"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	domrec "github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the archive and snapshot repository contracts.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Save creates or overwrites a record.
func (r *Repo) Save(ctx context.Context, rec domrec.Record) error {
	dto := toDTO(&rec)
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := r.store.Set(ctx, r.key(rec.ID()), data); err != nil {
		return fmt.Errorf("set %s: %w", r.key(rec.ID()), err)
	}
	return nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domrec.Record, error) {
	raw, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.Record{}, domain.ErrRecordNotFound
		}
		return domrec.Record{}, fmt.Errorf("get %s: %w", r.key(id), err)
	}
	var dto recordDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domrec.Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return fromDTO(&dto), nil
}

// List returns the full population in a deterministic order
// (creation time ascending, then ID).
func (r *Repo) List(ctx context.Context) ([]domrec.Record, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"record:*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	records := make([]domrec.Record, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			// Deleted between scan and get.
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var dto recordDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		records = append(records, fromDTO(&dto))
	}

	sort.Slice(records, func(a, b int) bool {
		if !records[a].CreatedAt().Equal(records[b].CreatedAt()) {
			return records[a].CreatedAt().Before(records[b].CreatedAt())
		}
		return records[a].ID() < records[b].ID()
	})
	return records, nil
}

// Delete removes a record by ID. Fails with ErrRecordNotFound if absent.
func (r *Repo) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("check exists %s: %w", r.key(id), err)
	}
	if !exists {
		return domain.ErrRecordNotFound
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del %s: %w", r.key(id), err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.prefix + "record:" + id
}
