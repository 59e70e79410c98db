package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "marketpulse/pkg/errors"
)

const fullItem = `<article data-testid="tweet">
  <div data-testid="User-Name"><a href="/trader1"><span>Trader One</span></a><span>@trader1</span></div>
  <a href="/trader1/status/1789012345678901234?s=20"><time datetime="2024-05-10T09:15:00.000Z">May 10</time></a>
  <div data-testid="tweetText">Bullish on #Nifty50! @trader1 thinks #nifty50 will rally @Desk_2</div>
  <div role="group">
    <button data-testid="reply"><span>12</span></button>
    <button data-testid="retweet"><span>3</span></button>
    <button data-testid="like"><span>1.2K</span></button>
  </div>
</article>`

func parse(t *testing.T, html string) *HTMLItem {
	t.Helper()
	item, err := NewHTMLItem(html)
	require.NoError(t, err)
	return item
}

func TestExtractFullItem(t *testing.T) {
	post, err := Extract(parse(t, fullItem))
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeEngagement))
	assert.Contains(t, err.Error(), "likes")

	assert.Equal(t, "1789012345678901234", post.TweetID)
	assert.Equal(t, "Trader One", post.Username)
	assert.Equal(t, time.Date(2024, 5, 10, 9, 15, 0, 0, time.UTC), post.Timestamp)
	assert.Equal(t, "Bullish on #Nifty50! @trader1 thinks #nifty50 will rally @Desk_2", post.Content)
	assert.Equal(t, int64(12), post.ReplyCount)
	assert.Equal(t, int64(3), post.RetweetCount)
	// abbreviated counters are not numeric and degrade to zero
	assert.Equal(t, int64(0), post.LikeCount)
	assert.Equal(t, []string{"trader1", "Desk_2"}, post.Mentions)
	assert.Equal(t, []string{"Nifty50", "nifty50"}, post.Hashtags)
}

func TestExtractMissingPermalink(t *testing.T) {
	html := `<article>
  <div data-testid="User-Name"><span>a</span></div>
  <a href="/a"><time datetime="2024-05-10T09:15:00Z"></time></a>
  <div data-testid="tweetText">text</div>
</article>`

	_, err := Extract(parse(t, html))
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeExtraction))
}

func TestExtractMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no author", `<a href="/a/status/1"><time datetime="2024-05-10T09:15:00Z"></time></a><div data-testid="tweetText">x</div>`},
		{"no timestamp", `<div data-testid="User-Name"><span>a</span></div><a href="/a/status/1"></a><div data-testid="tweetText">x</div>`},
		{"bad timestamp", `<div data-testid="User-Name"><span>a</span></div><a href="/a/status/1"><time datetime="yesterday"></time></a><div data-testid="tweetText">x</div>`},
		{"no body", `<div data-testid="User-Name"><span>a</span></div><a href="/a/status/1"><time datetime="2024-05-10T09:15:00Z"></time></a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(parse(t, tt.html))
			assert.True(t, errs.IsType(err, errs.ErrorTypeExtraction), "got %v", err)
		})
	}
}

func TestExtractCountersDegradeToZero(t *testing.T) {
	html := `<div data-testid="User-Name"><span>a</span></div>
<a href="https://twitter.com/a/status/42"><time datetime="2024-05-10T15:00:00+05:30"></time></a>
<div data-testid="tweetText">no engagement yet</div>
<button data-testid="reply"></button>`

	post, err := Extract(parse(t, html))
	// the empty reply counter is a real zero, the absent ones are not
	require.True(t, errs.IsType(err, errs.ErrorTypeEngagement), "got %v", err)
	assert.NotContains(t, err.Error(), "replies")

	assert.Equal(t, "42", post.TweetID)
	assert.Zero(t, post.ReplyCount)
	assert.Zero(t, post.RetweetCount)
	assert.Zero(t, post.LikeCount)
	assert.Empty(t, post.Mentions)
	assert.Empty(t, post.Hashtags)
	assert.True(t, post.Timestamp.Equal(time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)))
}

func TestExtractAllCountersReadable(t *testing.T) {
	html := `<div data-testid="User-Name"><span>a</span></div>
<a href="/a/status/7"><time datetime="2024-05-10T09:15:00Z"></time></a>
<div data-testid="tweetText">steady</div>
<button data-testid="reply"><span>4</span></button>
<button data-testid="retweet"></button>
<button data-testid="like"><span>9</span></button>`

	post, err := Extract(parse(t, html))
	require.NoError(t, err)
	assert.Equal(t, int64(4), post.ReplyCount)
	assert.Zero(t, post.RetweetCount)
	assert.Equal(t, int64(9), post.LikeCount)
}

func TestPermalinkID(t *testing.T) {
	tests := []struct {
		links []string
		want  string
		ok    bool
	}{
		{[]string{"/home", "/u/status/123"}, "123", true},
		{[]string{"/u/status/123?ref=abc"}, "123", true},
		{[]string{"/u/status/123/"}, "123", true},
		{[]string{"/u/status/1", "/u/status/2"}, "1", true},
		{[]string{"/explore"}, "", false},
		{nil, "", false},
	}

	for _, tt := range tests {
		got, ok := permalinkID(tt.links)
		assert.Equal(t, tt.ok, ok, "%v", tt.links)
		assert.Equal(t, tt.want, got, "%v", tt.links)
	}
}

func TestScanKeepsDevanagari(t *testing.T) {
	assert.Equal(t, []string{"तेजी"}, scan(hashtagRe, "बाजार में #तेजी है"))
}
