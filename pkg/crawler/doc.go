// Package crawler collects the recent posts of a single hashtag.
//
// A crawl moves through Init, Authenticating, Navigating, Searching,
// ScrollLoop, Flushing and Done. Any browser fault or bounded-wait timeout
// moves it to Aborted instead, in which case nothing is written. The scroll
// loop ends for one of three reasons:
//
//   - QuotaMet: the per-hashtag limit was reached
//   - TimeWindowPassed: an item older than the time floor was seen; the feed
//     is newest first so nothing after it can be in the window
//   - Exhausted: several consecutive passes produced nothing new
//
// Collected posts are kept in memory and flushed once, atomically, when the
// loop ends. Interrupting a crawl loses that hashtag's progress.
package crawler
