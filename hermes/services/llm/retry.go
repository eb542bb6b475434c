package llm

import (
	"context"
	"errors"
	"net/http"

	"hermes/hermes/utils/logging"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryingClient retries transient failures of the wrapped client with
// exponential backoff. Client errors (4xx other than 429) and context
// cancellation are not retried.
type RetryingClient struct {
	next       Client
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func NewRetryingClient(next Client, maxRetries uint64) *RetryingClient {
	return &RetryingClient{
		next:       next,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

func (c *RetryingClient) Provider() string { return c.next.Provider() }

func (c *RetryingClient) Chat(ctx context.Context, req ChatRequest) (Response, error) {
	var resp Response
	attempt := 0
	op := func() error {
		attempt++
		var err error
		resp, err = c.next.Chat(ctx, req)
		if err == nil {
			return nil
		}
		if !retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		logging.AppLogger.Warn("llm call failed, retrying",
			zap.String("provider", c.next.Provider()), zap.Int("attempt", attempt), zap.Error(err))
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := openAIStatus(err)
	if status == 0 {
		status = anthropicStatus(err)
	}
	switch {
	case status == 0:
		// network failure, no response
		return true
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}
