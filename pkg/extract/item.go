package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Role names a field of a feed item
type Role int

const (
	RoleAuthor Role = iota
	RoleTimestamp
	RoleBody
	RoleReplies
	RoleRetweets
	RoleLikes
)

func (r Role) String() string {
	switch r {
	case RoleAuthor:
		return "author"
	case RoleTimestamp:
		return "timestamp"
	case RoleBody:
		return "body"
	case RoleReplies:
		return "replies"
	case RoleRetweets:
		return "retweets"
	case RoleLikes:
		return "likes"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Item is a read-only view of one rendered feed item
type Item interface {
	// Links returns every hyperlink target inside the item in document order
	Links() []string
	// Text returns the text of a required field; ok is false when the field is absent
	Text(role Role) (string, bool)
	// Counter returns the raw text of an engagement counter
	Counter(role Role) (string, bool)
}

// HTMLItem is an Item backed by the item's outer HTML
type HTMLItem struct {
	doc *goquery.Document
}

// NewHTMLItem parses the outer HTML of a feed item
func NewHTMLItem(outerHTML string) (*HTMLItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(outerHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse item html: %w", err)
	}
	return &HTMLItem{doc: doc}, nil
}

// Links implements Item
func (h *HTMLItem) Links() []string {
	var links []string
	h.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}

// Text implements Item
func (h *HTMLItem) Text(role Role) (string, bool) {
	switch role {
	case RoleAuthor:
		return firstText(h.doc.Find(AuthorName))
	case RoleTimestamp:
		return h.doc.Find(Timestamp).First().Attr(TimestampAttr)
	case RoleBody:
		return firstText(h.doc.Find(BodyText))
	default:
		return "", false
	}
}

// Counter implements Item
func (h *HTMLItem) Counter(role Role) (string, bool) {
	switch role {
	case RoleReplies:
		return firstText(h.doc.Find(ReplyCounter))
	case RoleRetweets:
		return firstText(h.doc.Find(RetweetCounter))
	case RoleLikes:
		return firstText(h.doc.Find(LikeCounter))
	default:
		return "", false
	}
}

func firstText(s *goquery.Selection) (string, bool) {
	if s.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(s.First().Text()), true
}
