package snapshot

import (
	"context"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// Repository lists the full current record population.
type Repository interface {
	List(ctx context.Context) ([]record.Record, error)
}
