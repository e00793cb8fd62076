package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
)

// CloserSlice tears down a stack of wazero resources in reverse order of
// acquisition, so modules close before the runtime that hosts them. All
// closers run; their errors are combined.
type CloserSlice []api.Closer

func (cs CloserSlice) Close(ctx context.Context) error {
	var errs []error
	for i := len(cs) - 1; i >= 0; i-- {
		errs = append(errs, cs[i].Close(ctx))
	}

	return multierr.Combine(errs...)
}
