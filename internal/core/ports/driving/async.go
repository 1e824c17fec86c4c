package driving

import (
	"context"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
)

// AsyncStorageService issues storage operations without waiting for them.
// Each call claims its position in the table's queue before returning, so
// operations issued one after another run in issue order.
type AsyncStorageService interface {
	GetAsync(ctx context.Context, table, key string) *domain.Future[any]
	SetAsync(ctx context.Context, table, key string, value any) *domain.Future[bool]
	HasAsync(ctx context.Context, table, key string) *domain.Future[bool]
	RemoveAsync(ctx context.Context, table, key string) *domain.Future[bool]
}
