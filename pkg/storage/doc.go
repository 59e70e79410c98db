// Package storage reads and writes the columnar data files of the pipeline.
//
// Each hashtag's crawl is saved to <dir>/<hashtag>_tweets.parquet. Writes go
// to a temporary file in the same directory and are renamed into place, so a
// file is either absent or complete.
package storage
