package async_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/utils/async"
)

func TestDispatch(t *testing.T) {
	var calls atomic.Int32

	async.Dispatch(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	async.Dispatch(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return goerr.New("failed")
	})
	async.Dispatch(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		panic("boom")
	})

	async.Wait()
	gt.Value(t, calls.Load()).Equal(int32(3))
}
