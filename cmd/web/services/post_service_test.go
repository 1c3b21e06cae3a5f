package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/cmd/web/clients/prismicclient"
	"spacetraveling/cmd/web/views"
	"spacetraveling/config"
	"spacetraveling/dateformat"
	"spacetraveling/richtext"
)

type fakeGateway struct {
	first     prismicclient.Page
	pages     map[string]prismicclient.Page
	docs      map[string]prismicclient.Document
	uids      []string
	err       error
	cursors   []string
	lastQuery prismicclient.PostsQuery
}

func (f *fakeGateway) FetchPostsPage(ctx context.Context, q prismicclient.PostsQuery) (prismicclient.Page, error) {
	f.lastQuery = q
	if f.err != nil {
		return prismicclient.Page{}, f.err
	}
	return f.first, nil
}

func (f *fakeGateway) FetchPage(ctx context.Context, cursor string) (prismicclient.Page, error) {
	f.cursors = append(f.cursors, cursor)
	if f.err != nil {
		return prismicclient.Page{}, f.err
	}
	return f.pages[cursor], nil
}

func (f *fakeGateway) FetchPostByUID(ctx context.Context, docType, uid string) (prismicclient.Document, error) {
	if f.err != nil {
		return prismicclient.Document{}, f.err
	}
	doc, ok := f.docs[uid]
	if !ok {
		return prismicclient.Document{}, prismicclient.ErrNotFound
	}
	return doc, nil
}

func (f *fakeGateway) ListAllUIDs(ctx context.Context) ([]string, error) {
	return f.uids, f.err
}

func (f *fakeGateway) Health(ctx context.Context) error { return f.err }

func strPtr(s string) *string { return &s }

func doc(uid string) prismicclient.Document {
	return prismicclient.Document{
		UID:                  uid,
		Type:                 prismicclient.PostsType,
		FirstPublicationDate: &prismicclient.Timestamp{Time: time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)},
		Data: prismicclient.PostData{
			Title:    "Title " + uid,
			Subtitle: "Sub " + uid,
			Author:   "Joseph",
		},
	}
}

func newService(gw ContentGateway) *PostService {
	return NewPostService(gw, views.NewBuilder(dateformat.New(time.UTC)), config.BlogConfig{HomePageSize: 1, MaxLoadMore: 5})
}

func titles(h views.Home) []string {
	out := make([]string, 0, len(h.Posts))
	for _, p := range h.Posts {
		out = append(out, p.Title)
	}
	return out
}

func TestHomeFirstPageOffersLoadMore(t *testing.T) {
	gw := &fakeGateway{first: prismicclient.Page{Results: []prismicclient.Document{doc("a")}, NextPage: strPtr("page2")}}

	home, err := newService(gw).Home(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Title a"}, titles(home))
	assert.Equal(t, "/?more=1", home.LoadMoreHref)
	assert.Equal(t, 1, gw.lastQuery.PageSize)
	assert.Equal(t, prismicclient.PostsType, gw.lastQuery.Type)
	assert.Equal(t, prismicclient.PostFields, gw.lastQuery.Fields)
	assert.Empty(t, gw.cursors)
}

func TestHomeLoadMoreUntilCursorEnds(t *testing.T) {
	gw := &fakeGateway{
		first: prismicclient.Page{Results: []prismicclient.Document{doc("a")}, NextPage: strPtr("page2")},
		pages: map[string]prismicclient.Page{
			"page2": {Results: []prismicclient.Document{doc("b")}},
		},
	}

	home, err := newService(gw).Home(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"Title a", "Title b"}, titles(home))
	assert.Empty(t, home.LoadMoreHref)
	assert.Equal(t, []string{"page2"}, gw.cursors)
}

func TestHomeClampsMore(t *testing.T) {
	gw := &fakeGateway{
		first: prismicclient.Page{Results: []prismicclient.Document{doc("p0")}, NextPage: strPtr("c1")},
		pages: map[string]prismicclient.Page{},
	}
	for i := 1; i <= 10; i++ {
		gw.pages[fmt.Sprintf("c%d", i)] = prismicclient.Page{
			Results:  []prismicclient.Document{doc(fmt.Sprintf("p%d", i))},
			NextPage: strPtr(fmt.Sprintf("c%d", i+1)),
		}
	}

	home, err := newService(gw).Home(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, gw.cursors, 5)
	assert.Len(t, home.Posts, 6)
	// MaxLoadMore reached: no further link even though a cursor remains
	assert.Empty(t, home.LoadMoreHref)

	gw.cursors = nil
	_, err = newService(gw).Home(context.Background(), -4)
	require.NoError(t, err)
	assert.Empty(t, gw.cursors)
}

func TestHomePropagatesGatewayError(t *testing.T) {
	gwErr := &prismicclient.GatewayError{Op: "FetchPostsPage", Err: errors.New("dial tcp: refused")}
	_, err := newService(&fakeGateway{err: gwErr}).Home(context.Background(), 0)

	var target *prismicclient.GatewayError
	assert.ErrorAs(t, err, &target)
}

func TestNextPage(t *testing.T) {
	gw := &fakeGateway{pages: map[string]prismicclient.Page{
		"page2": {Results: []prismicclient.Document{doc("b")}, NextPage: strPtr("page3")},
	}}
	svc := newService(gw)

	page, err := svc.NextPage(context.Background(), "page2")
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "b", page.Results[0].UID)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, "page3", *page.NextPage)

	_, err = svc.NextPage(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPostBuildsPage(t *testing.T) {
	d := doc("criando-um-app")
	d.Data.Banner = prismicclient.Image{URL: "https://images.prismic.io/banner.png"}
	d.Data.Content = []prismicclient.ContentSection{
		{Heading: "Proin et varius", Body: []richtext.Block{{Type: richtext.TypeParagraph, Text: strings.TrimSpace(strings.Repeat("lorem ", 400))}}},
		{Heading: "Cras laoreet", Body: []richtext.Block{{Type: richtext.TypeParagraph, Text: "fim"}}},
	}
	gw := &fakeGateway{docs: map[string]prismicclient.Document{"criando-um-app": d}}

	post, err := newService(gw).Post(context.Background(), "criando-um-app")
	require.NoError(t, err)
	assert.Equal(t, "Title criando-um-app", post.Title)
	assert.Equal(t, "3 min", post.ReadingTime)
	assert.Equal(t, "15 mar 2021", post.Date)
	assert.Equal(t, "https://images.prismic.io/banner.png", post.BannerURL)
	require.Len(t, post.Sections, 2)
	assert.Equal(t, "Proin et varius", post.Sections[0].Heading)
}

func TestPostNotFound(t *testing.T) {
	_, err := newService(&fakeGateway{}).Post(context.Background(), "nao-existe")
	assert.ErrorIs(t, err, prismicclient.ErrNotFound)
}

func TestStaticPaths(t *testing.T) {
	uids, err := newService(&fakeGateway{uids: []string{"a", "b"}}).StaticPaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, uids)
}

func TestWalkHomeVisitsEveryStep(t *testing.T) {
	gw := &fakeGateway{
		first: prismicclient.Page{Results: []prismicclient.Document{doc("a")}, NextPage: strPtr("page2")},
		pages: map[string]prismicclient.Page{
			"page2": {Results: []prismicclient.Document{doc("b")}, NextPage: strPtr("page3")},
			"page3": {Results: []prismicclient.Document{doc("c")}},
		},
	}

	var steps [][]string
	var links []string
	err := newService(gw).WalkHome(context.Background(), func(loaded int, home views.Home) error {
		assert.Equal(t, len(steps), loaded)
		steps = append(steps, titles(home))
		links = append(links, home.LoadMoreHref)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Title a"},
		{"Title a", "Title b"},
		{"Title a", "Title b", "Title c"},
	}, steps)
	assert.Equal(t, []string{"/?more=1", "/?more=2", ""}, links)
	assert.Equal(t, []string{"page2", "page3"}, gw.cursors)
}

func TestWalkHomeStopsOnLoadError(t *testing.T) {
	gw := &fakeGateway{
		first: prismicclient.Page{Results: []prismicclient.Document{doc("a")}, NextPage: strPtr("page2")},
	}
	svc := newService(gw)

	visits := 0
	err := svc.WalkHome(context.Background(), func(loaded int, home views.Home) error {
		visits++
		gw.err = &prismicclient.GatewayError{Op: "FetchPage", Err: errors.New("timeout")}
		return nil
	})

	var target *prismicclient.GatewayError
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, 1, visits)
}
