package mailhog

import (
	"context"

	"golang.org/x/time/rate"
)

// WaitForMessage polls the inbox until a message satisfying spec arrives and
// returns the first match in inbox order. Polls are spaced at least the poll
// interval apart. A transport error ends the wait immediately.
//
// Example:
//
//	m, err := client.WaitForMessage(ctx, mailhog.SubjectIs("Welcome"),
//	    mailhog.WithWaitTimeout(10*time.Second))
func (c *Client) WaitForMessage(ctx context.Context, spec Specification, opts ...WaitOption) (*Message, error) {
	if spec == nil {
		return nil, ErrNilSpecification
	}

	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(cfg.pollInterval), 1)
	for poll := 1; ; poll++ {
		if err := limiter.Wait(waitCtx); err != nil {
			return nil, waitError(ctx, waitCtx, cfg)
		}

		matches, err := c.FindMessagesSatisfying(waitCtx, spec)
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, waitError(ctx, waitCtx, cfg)
			}
			return nil, err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}

		c.logger.Debug().Int("poll", poll).Msg("no matching message yet")
	}
}

// waitError reports why the wait ended. The caller's own cancellation or
// deadline is returned as the context error; only the wait timeout yields a
// TimeoutError.
func waitError(parent, waitCtx context.Context, cfg *waitConfig) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if parentDeadline, ok := parent.Deadline(); ok {
		if waitDeadline, _ := waitCtx.Deadline(); !parentDeadline.After(waitDeadline) {
			return context.DeadlineExceeded
		}
	}
	return &TimeoutError{Operation: "wait for message", Timeout: cfg.timeout}
}
