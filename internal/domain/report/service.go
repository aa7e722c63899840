package report

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// Service renders filtered slices of the attendance ledger as downloadable
// documents. Both exporters are admin capabilities.
type Service interface {
	ExportCSV(ctx context.Context, identity user.Identity, filter attendance.Filter) ([]byte, error)
	ExportExcel(ctx context.Context, identity user.Identity, filter attendance.Filter) ([]byte, error)
}
