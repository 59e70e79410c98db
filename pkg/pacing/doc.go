// Package pacing draws the randomized waits and counts that make a crawl
// look like a person reading a feed, and performs those waits.
//
// Every wait goes through a Sleeper so tests can substitute a Recorder and
// run a full crawl instantly:
//
//	rec := &pacing.Recorder{}
//	p := pacing.New(1, rec)
//	d, _ := p.Sleep(ctx, pacing.Range{Min: time.Second, Max: 3 * time.Second})
//
// All waits honour context cancellation.
package pacing
