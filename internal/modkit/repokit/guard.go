package repokit

import (
	"context"
	"time"

	perr "marketingetl/internal/platform/errors"
)

type guarder interface {
	Guard(context.Context) error
}

// GuardTimeout bounds Guard when ctx carries no deadline
const GuardTimeout = 5 * time.Second

// Guard checks the warehouse answers before a run starts; failures are
// reported as a load failure since nothing can be written
func Guard(ctx context.Context, st guarder) error {
	if st == nil {
		return perr.Configf("warehouse not configured")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, GuardTimeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeLoadFailure, "warehouse guard failed")
	}
	return nil
}
