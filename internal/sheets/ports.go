package sheets

import (
	"context"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// Loader is the port every data source implements: fetch the four raw
// tables in one call. Adapters do all the I/O; core stays pure.
type Loader interface {
	Load(ctx context.Context) (core.RawTables, error)
}
