// Package normalize turns raw crawl files into processed files whose rows
// carry a cleaned, lowercase copy of the post text.
package normalize
