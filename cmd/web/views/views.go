// Package views turns post data into the values the page templates render.
// Builders are pure so pages can be checked without a template engine.
package views

import (
	"html/template"
	"net/url"
	"strconv"

	"spacetraveling/dateformat"
	"spacetraveling/models"
	"spacetraveling/readingtime"
	"spacetraveling/richtext"
)

const (
	LoadMoreLabel   = "Carregar mais posts"
	FallbackMessage = "Carregando..."
)

type PostCard struct {
	Href     string
	Title    string
	Subtitle string
	Author   string
	// Date is empty when the post has no publication date.
	Date string
}

type Home struct {
	Posts []PostCard
	// LoadMoreHref is empty when there is nothing more to load.
	LoadMoreHref  string
	LoadMoreLabel string
}

type Section struct {
	Heading string
	Body    template.HTML
}

type Post struct {
	Title       string
	BannerURL   string
	Author      string
	Date        string
	ReadingTime string
	Sections    []Section
}

type Fallback struct {
	Message string
}

type Error struct {
	Status  int
	Message string
}

// Builder needs a date formatter; everything else is derived from the data.
type Builder struct {
	dates *dateformat.Formatter
}

func NewBuilder(dates *dateformat.Formatter) *Builder {
	if dates == nil {
		dates = dateformat.New(nil)
	}
	return &Builder{dates: dates}
}

// PostHref is the path of a post page.
func PostHref(uid string) string {
	return "/post/" + url.PathEscape(uid)
}

// LoadMoreHref is the home link that renders one more page than `more`.
func LoadMoreHref(more int) string {
	return "/?more=" + strconv.Itoa(more+1)
}

// BuildHome lists posts in the given order. The load-more link is offered only
// when canLoadMore is true.
func (b *Builder) BuildHome(posts []models.PostSummary, canLoadMore bool, more int) Home {
	cards := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, b.card(p))
	}
	h := Home{Posts: cards, LoadMoreLabel: LoadMoreLabel}
	if canLoadMore {
		h.LoadMoreHref = LoadMoreHref(more)
	}
	return h
}

func (b *Builder) card(p models.PostSummary) PostCard {
	c := PostCard{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Author:   p.Author,
	}
	if p.UID != "" {
		c.Href = PostHref(p.UID)
	}
	if d, err := b.dates.Format(p.FirstPublicationDate); err == nil {
		c.Date = d
	}
	return c
}

// BuildPost renders the sections in input order and computes the reading time.
func (b *Builder) BuildPost(p models.PostDetail) (Post, error) {
	sections := make([]Section, 0, len(p.Content))
	estimate := make([]readingtime.Section, 0, len(p.Content))
	for _, s := range p.Content {
		body, err := richtext.AsHTML(s.Body)
		if err != nil {
			return Post{}, err
		}
		// body is produced by html.Render, which escapes every text and attribute value.
		sections = append(sections, Section{Heading: s.Heading, Body: template.HTML(body)})
		estimate = append(estimate, readingtime.Section{Heading: s.Heading, Body: s.Body})
	}
	out := Post{
		Title:       p.Title,
		BannerURL:   p.BannerURL,
		Author:      p.Author,
		ReadingTime: readingtime.Label(readingtime.Estimate(estimate)),
		Sections:    sections,
	}
	if d, err := b.dates.Format(p.FirstPublicationDate); err == nil {
		out.Date = d
	}
	return out, nil
}

func BuildFallback() Fallback {
	return Fallback{Message: FallbackMessage}
}
