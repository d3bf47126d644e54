package sigutil

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecoverRequest asks for the signer of either a personal message or a
// typed-data document. Exactly one of Message and Typed must be set.
type RecoverRequest struct {
	Message *MsgParams
	Typed   *TypedMsgParams
}

// RecoverResult holds the outcome of one RecoverRequest.
type RecoverResult struct {
	Address string // Lower-case hex address of the signer
	Err     error  // Why recovery failed, if it did
}

// RecoverBatch recovers the signers of many requests using the client's
// worker count. Results are returned in request order. A failing request only
// sets its own Err; the call as a whole fails only when ctx is cancelled.
func (c *Client) RecoverBatch(ctx context.Context, requests []RecoverRequest) ([]RecoverResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch recovery interrupted")
	}
	results := make([]RecoverResult, len(requests))
	if len(requests) == 0 {
		return results, nil
	}

	numWorkers := c.workers
	if numWorkers > len(requests) {
		numWorkers = len(requests)
	}

	recovered := int64(0)
	workChan := make(chan int, numWorkers*4)
	g, gctx := errgroup.WithContext(ctx)

	// Generate work
	g.Go(func() error {
		defer close(workChan)
		for i := range requests {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case workChan <- i:
			}
		}
		return nil
	})

	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case i, ok := <-workChan:
					if !ok {
						return nil
					}
					addr, err := c.recoverOne(requests[i])
					results[i] = RecoverResult{Address: addr, Err: err}
					if err == nil {
						atomic.AddInt64(&recovered, 1)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch recovery interrupted")
	}

	c.logger.Debug("recovered batch",
		zap.Int("requests", len(requests)),
		zap.Int64("recovered", atomic.LoadInt64(&recovered)),
		zap.Int("workers", numWorkers))
	return results, nil
}

func (c *Client) recoverOne(req RecoverRequest) (string, error) {
	switch {
	case req.Message != nil && req.Typed == nil:
		return c.RecoverPersonalSignature(*req.Message)
	case req.Typed != nil && req.Message == nil:
		return c.RecoverTypedSignature(*req.Typed)
	default:
		return "", errors.Wrap(ErrInvalidInputKind, "request must carry exactly one of a message or typed data")
	}
}
