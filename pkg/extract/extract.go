package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/models"
)

var (
	mentionRe = regexp.MustCompile(`@([\p{L}\p{M}\p{N}_]+)`)
	hashtagRe = regexp.MustCompile(`#([\p{L}\p{M}\p{N}_]+)`)
)

// Extract turns a rendered feed item into a Post. A missing permalink,
// author, timestamp or body text fails with an extraction error and an empty
// Post. Unreadable engagement counters degrade to zero: the Post is still
// complete and the error is of type engagement, so callers keep the Post.
func Extract(item Item) (models.Post, error) {
	id, ok := permalinkID(item.Links())
	if !ok {
		return models.Post{}, errs.New(errs.ErrorTypeExtraction, "extract", "no permalink")
	}

	author, ok := item.Text(RoleAuthor)
	if !ok {
		return models.Post{}, missing(id, RoleAuthor)
	}
	rawTS, ok := item.Text(RoleTimestamp)
	if !ok {
		return models.Post{}, missing(id, RoleTimestamp)
	}
	ts, err := time.Parse(time.RFC3339Nano, rawTS)
	if err != nil {
		return models.Post{}, &errs.Error{Type: errs.ErrorTypeExtraction, Op: "extract", Message: "post " + id + ": bad timestamp", Err: err}
	}
	body, ok := item.Text(RoleBody)
	if !ok {
		return models.Post{}, missing(id, RoleBody)
	}

	var unreadable []string
	count := func(role Role) int64 {
		n, ok := counter(item, role)
		if !ok {
			unreadable = append(unreadable, role.String())
		}
		return n
	}

	post := models.Post{
		TweetID:      id,
		Timestamp:    ts.UTC(),
		Username:     author,
		Content:      body,
		ReplyCount:   count(RoleReplies),
		RetweetCount: count(RoleRetweets),
		LikeCount:    count(RoleLikes),
		Mentions:     scan(mentionRe, body),
		Hashtags:     scan(hashtagRe, body),
	}
	if len(unreadable) > 0 {
		return post, errs.New(errs.ErrorTypeEngagement, "extract", "post "+id+": unreadable "+strings.Join(unreadable, ", "))
	}
	return post, nil
}

// permalinkID returns the last path segment of the first status link
func permalinkID(links []string) (string, bool) {
	for _, link := range links {
		if !strings.Contains(link, PermalinkMarker) {
			continue
		}
		path := link
		if u, err := url.Parse(link); err == nil {
			path = u.Path
		} else if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
		path = strings.TrimRight(path, "/")
		id := path[strings.LastIndex(path, "/")+1:]
		if id == "" {
			return "", false
		}
		return id, true
	}
	return "", false
}

// counter parses an engagement counter. An empty counter is a genuine zero;
// a missing or non-numeric one reads as zero and reports !ok.
func counter(item Item, role Role) (int64, bool) {
	raw, ok := item.Counter(role)
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func scan(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func missing(id string, role Role) error {
	return errs.New(errs.ErrorTypeExtraction, "extract", "post "+id+": missing "+role.String())
}
