// Package campaign runs the crawler over a list of hashtags.
//
// The total target is split evenly across the hashtags. Each hashtag gets a
// fresh browser, and a randomized delay separates consecutive crawls. A crawl
// that aborts is reported and the campaign moves on to the next hashtag.
package campaign
