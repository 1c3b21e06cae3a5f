package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/dateformat"
	"spacetraveling/models"
	"spacetraveling/richtext"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func newBuilder() *Builder {
	return NewBuilder(dateformat.New(time.UTC))
}

func render(t *testing.T, name string, data any) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, name, data))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestBuildHomeKeepsOrderAndOffersLoadMore(t *testing.T) {
	posts := []models.PostSummary{
		{UID: "primeiro", Title: "Primeiro", Subtitle: "s1", Author: "Ana", FirstPublicationDate: date(2021, time.March, 15)},
		{UID: "segundo", Title: "Segundo", Subtitle: "s2", Author: "Bia", FirstPublicationDate: date(2021, time.April, 2)},
	}

	home := newBuilder().BuildHome(posts, true, 0)
	require.Len(t, home.Posts, 2)
	assert.Equal(t, "Primeiro", home.Posts[0].Title)
	assert.Equal(t, "/post/primeiro", home.Posts[0].Href)
	assert.Equal(t, "15 mar 2021", home.Posts[0].Date)
	assert.Equal(t, "02 abr 2021", home.Posts[1].Date)
	assert.Equal(t, "/?more=1", home.LoadMoreHref)
}

func TestBuildHomeWithoutCursorHasNoLoadMore(t *testing.T) {
	home := newBuilder().BuildHome([]models.PostSummary{{UID: "a", Title: "A"}}, false, 3)
	assert.Empty(t, home.LoadMoreHref)
	// no publication date: the date is left out
	assert.Empty(t, home.Posts[0].Date)

	doc := render(t, HomeTemplate, home)
	assert.Equal(t, 0, doc.Find("a.load-more").Length())
	assert.Equal(t, 0, doc.Find("time").Length())
}

func TestBuildPostComputesReadingTimeAndKeepsSectionOrder(t *testing.T) {
	body400 := []richtext.Block{{Type: richtext.TypeParagraph, Text: strings.TrimSpace(strings.Repeat("w ", 400))}}
	detail := models.PostDetail{
		UID:                  "x",
		Title:                "Criando um app",
		BannerURL:            "https://images.prismic.io/banner.png",
		Author:               "Danilo",
		FirstPublicationDate: date(2021, time.March, 25),
		Content: []models.Section{
			{Heading: "A", Body: body400},
			{Heading: "B", Body: []richtext.Block{{Type: richtext.TypeParagraph, Text: "<b>one</b>"}}},
		},
	}

	post, err := newBuilder().BuildPost(detail)
	require.NoError(t, err)
	assert.Equal(t, "3 min", post.ReadingTime)
	assert.Equal(t, "25 mar 2021", post.Date)
	require.Len(t, post.Sections, 2)
	assert.Equal(t, "A", post.Sections[0].Heading)
	assert.Equal(t, "B", post.Sections[1].Heading)

	doc := render(t, PostTemplate, post)
	assert.Equal(t, "Criando um app", doc.Find("article h1").Text())
	assert.Equal(t, "3 min", doc.Find(".reading-time").Text())
	assert.Equal(t, []string{"A", "B"}, doc.Find("section h2").Map(func(_ int, s *goquery.Selection) string { return s.Text() }))
	// escaped text is not turned into markup
	assert.Equal(t, 0, doc.Find("section b").Length())
	assert.Contains(t, doc.Find("section .body").Last().Text(), "<b>one</b>")
}

func TestFallbackTemplate(t *testing.T) {
	doc := render(t, FallbackTemplate, BuildFallback())
	assert.Equal(t, "Carregando...", doc.Find(".fallback").Text())
}

func TestErrorTemplate(t *testing.T) {
	doc := render(t, ErrorTemplate, Error{Status: 404, Message: "Post não encontrado"})
	assert.Equal(t, "404", doc.Find("main h1").Text())
}
