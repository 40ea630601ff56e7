package executor

import "context"

// Serial runs items in submission order on a single goroutine. It is the
// deterministic baseline backend and the default.
type Serial struct{}

// Run implements Executor.
func (Serial) Run(ctx context.Context, invoke InvokeFunc, items []Item) <-chan Result {
	out := make(chan Result, len(items))
	go func() {
		defer close(out)
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			values, err := invoke(ctx, item)
			out <- Result{Index: item.Index, Values: values, Err: err}
			if err != nil {
				return
			}
		}
	}()
	return out
}
