package pagedriver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shuttle/internal/config"
	"shuttle/internal/logging"
	"shuttle/internal/services"
)

// StablePolicy parameterizes WaitUntilStable. All waits in the pipeline go
// through one policy so there is a single place to tune page settling.
type StablePolicy struct {
	// PollInterval is the delay between rendered-size reads.
	PollInterval time.Duration
	// StableReads is the number of consecutive unchanged reads required.
	StableReads int
	// Timeout caps the whole wait. On expiry the page is treated as
	// probably stable and the caller proceeds.
	Timeout time.Duration
}

// PolicyFromConfig translates the workflow timing settings into a policy.
func PolicyFromConfig(cfg *config.Config) StablePolicy {
	return StablePolicy{
		PollInterval: time.Duration(cfg.Workflow.StablePollInterval) * time.Millisecond,
		StableReads:  cfg.Workflow.StableReads,
		Timeout:      time.Duration(cfg.Workflow.StableTimeout) * time.Second,
	}
}

// WaitUntilStable blocks until the page's rendered size has stopped changing
// for policy.StableReads consecutive polls. Hitting the overall timeout is
// not an error: the page is treated as probably stable and the pipeline
// moves on rather than hanging on a page that re-renders forever.
func WaitUntilStable(ctx context.Context, driver Driver, policy StablePolicy) error {
	deadline := time.Now().Add(policy.Timeout)
	lastSize := -1
	stable := 0
	for {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrNavigation, "", "wait for stable page", "", ctx.Err())
		}
		size, err := driver.RenderedSize(ctx)
		if err != nil {
			return services.Wrap(services.ErrNavigation, "", "read rendered size", "", err)
		}
		if size == lastSize {
			stable++
			if stable >= policy.StableReads {
				return nil
			}
		} else {
			stable = 1
			lastSize = size
		}
		if time.Now().After(deadline) {
			// Probably stable. Proceeding beats waiting forever.
			return nil
		}
		select {
		case <-ctx.Done():
			return services.Wrap(services.ErrNavigation, "", "wait for stable page", "", ctx.Err())
		case <-time.After(policy.PollInterval):
		}
	}
}

// NavigateWithRetry navigates to url with a bounded number of attempts.
// Each attempt gets a longer timeout than the last; after every successful
// navigation the page is waited stable before the attempt counts as done.
func NavigateWithRetry(ctx context.Context, driver Driver, url string, attempts int, baseTimeout time.Duration, policy StablePolicy, logger *slog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		timeout := baseTimeout * time.Duration(attempt)
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := driver.Navigate(attemptCtx, url)
		if err == nil {
			err = WaitUntilStable(attemptCtx, driver, policy)
		}
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warn("navigation attempt failed",
			logging.String("url", url),
			logging.Int("attempt", attempt),
			logging.Duration("timeout", timeout),
			logging.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	return services.Wrap(services.ErrNavigation, "", "navigate",
		fmt.Sprintf("%s after %d attempts", url, attempts), lastErr)
}
