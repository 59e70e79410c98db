package crawler

import (
	"time"

	"marketpulse/pkg/models"
)

// State is a step of one hashtag crawl
type State int

const (
	StateInit State = iota
	StateAuthenticating
	StateNavigating
	StateSearching
	StateScrollLoop
	StateFlushing
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAuthenticating:
		return "authenticating"
	case StateNavigating:
		return "navigating"
	case StateSearching:
		return "searching"
	case StateScrollLoop:
		return "scroll_loop"
	case StateFlushing:
		return "flushing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Reason explains why a crawl left the scroll loop
type Reason int

const (
	ReasonNone Reason = iota
	ReasonExhausted
	ReasonQuotaMet
	ReasonTimeWindowPassed
	ReasonAborted
)

func (r Reason) String() string {
	switch r {
	case ReasonExhausted:
		return "exhausted"
	case ReasonQuotaMet:
		return "quota_met"
	case ReasonTimeWindowPassed:
		return "time_window_passed"
	case ReasonAborted:
		return "aborted"
	default:
		return "none"
	}
}

// Unbounded disables the per-hashtag quota
const Unbounded = -1

// Result is the outcome of one hashtag crawl
type Result struct {
	Hashtag string
	State   State
	Reason  Reason
	// AbortedIn is the state that failed when State is StateAborted
	AbortedIn  State
	Collected  int
	OutputPath string
	Passes     int
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed is the wall time of the crawl
func (r Result) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// crawlState is the transient bookkeeping of one hashtag
type crawlState struct {
	limit       int
	timeFloor   time.Time
	seen        map[string]struct{}
	collected   []models.Post
	emptyPasses int
}

func newCrawlState(limit int, timeFloor time.Time) *crawlState {
	return &crawlState{
		limit:     limit,
		timeFloor: timeFloor,
		seen:      make(map[string]struct{}),
	}
}

func (s *crawlState) quotaReached() bool {
	return s.limit != Unbounded && len(s.collected) >= s.limit
}

func (s *crawlState) accept(p models.Post) {
	s.seen[p.TweetID] = struct{}{}
	s.collected = append(s.collected, p)
}

func (s *crawlState) isSeen(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// dedup drops repeated ids, keeping the first occurrence
func dedup(posts []models.Post) []models.Post {
	seen := make(map[string]struct{}, len(posts))
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.TweetID]; ok {
			continue
		}
		seen[p.TweetID] = struct{}{}
		out = append(out, p)
	}
	return out
}
