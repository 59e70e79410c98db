package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/pkg/models"
)

func samplePosts() []models.Post {
	at := time.Date(2024, 5, 10, 9, 15, 0, 0, time.UTC)
	return []models.Post{
		{TweetID: "1", Timestamp: at, Username: "a", Content: "#nifty50 up", LikeCount: 4, Hashtags: []string{"nifty50"}, Mentions: []string{}},
		{TweetID: "2", Timestamp: at.Add(time.Minute), Username: "b", Content: "@desk sell", ReplyCount: 1, Mentions: []string{"desk"}, Hashtags: []string{}},
	}
}

func TestSavePostsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	m, err := NewManager(dir)
	require.NoError(t, err)

	path, err := m.SavePosts("nifty50", samplePosts())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nifty50_tweets.parquet"), path)

	got, err := ReadFile[models.Post](path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].TweetID)
	assert.True(t, got[0].Timestamp.Equal(samplePosts()[0].Timestamp))
	assert.Equal(t, int64(4), got[0].LikeCount)
	assert.Equal(t, []string{"nifty50"}, got[0].Hashtags)
	assert.Equal(t, []string{"desk"}, got[1].Mentions)
}

func TestWriteFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "x.parquet"), samplePosts()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.parquet", entries[0].Name())
}

func TestSavePostsOverwrites(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	_, err = m.SavePosts("sensex", samplePosts())
	require.NoError(t, err)
	path, err := m.SavePosts("sensex", samplePosts()[:1])
	require.NoError(t, err)

	got, err := ReadFile[models.Post](path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile[models.Post](filepath.Join(t.TempDir(), "none.parquet"))
	assert.Error(t, err)
}

func TestListDataFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_tweets.parquet", "a_tweets.parquet", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.parquet"), 0755))

	names, err := ListDataFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_tweets.parquet", "b_tweets.parquet"}, names)

	names, err = ListDataFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
