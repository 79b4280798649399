package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ExecuteAll runs every spec concurrently and returns the captures in spec order.
// The first error, an invalid spec or an interrupted run, cancels the remaining runs.
func ExecuteAll(ctx context.Context, executor Executor, specs ...RunnerSpec) ([]*Capture, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor cannot be nil")
	}

	captures := make([]*Capture, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			capture, err := executor.Execute(gctx, spec)
			if err != nil {
				return fmt.Errorf("failed to execute %s: %w", spec.Name, err)
			}
			captures[i] = capture
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return captures, nil
}
