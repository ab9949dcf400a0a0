package outbound

import (
	"context"

	"github.com/shakedma/avatar-pipeline/domain"
)

// DashboardPort persists one status row per run. Upsert replaces the
// row keyed by run ID or appends a new one; rows are never deleted.
type DashboardPort interface {
	Upsert(ctx context.Context, record domain.DashboardRecord) error
}
