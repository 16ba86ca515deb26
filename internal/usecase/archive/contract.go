package archive

import (
	"context"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// Repository defines the storage contract for records.
type Repository interface {
	Save(ctx context.Context, r record.Record) error
	Get(ctx context.Context, id string) (record.Record, error)
	List(ctx context.Context) ([]record.Record, error)
	Delete(ctx context.Context, id string) error
}
