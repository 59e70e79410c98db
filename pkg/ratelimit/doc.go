// Package ratelimit keeps the crawl under the target site's tolerance.
//
// BatchBudget counts newly collected items; when a batch worth of items has
// been admitted the crawler takes a long cool-down and resets the budget.
//
// NewIntervalLimiter spaces out page navigations with a token bucket from
// golang.org/x/time/rate:
//
//	nav := ratelimit.NewIntervalLimiter(2 * time.Second)
//	if err := nav.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
