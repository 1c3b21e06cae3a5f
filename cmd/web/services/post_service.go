package services

import (
	"context"
	"errors"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/clients/prismicclient"
	"spacetraveling/cmd/web/dto"
	"spacetraveling/cmd/web/views"
	"spacetraveling/config"
	"spacetraveling/models"
	"spacetraveling/pagination"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// ContentGateway 는 PostService 가 사용하는 CMS 호출 집합이다. *prismicclient.Client 가 구현한다.
type ContentGateway interface {
	FetchPostsPage(ctx context.Context, q prismicclient.PostsQuery) (prismicclient.Page, error)
	FetchPage(ctx context.Context, cursor string) (prismicclient.Page, error)
	FetchPostByUID(ctx context.Context, docType, uid string) (prismicclient.Document, error)
	ListAllUIDs(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

// PostService encapsulates post listing, post pages and static paths.
//
// - gateway: Prismic 호출
// - builder: 템플릿에 넘길 view 값 생성
type PostService struct {
	gateway ContentGateway
	builder *views.Builder
	cfg     config.BlogConfig
}

func NewPostService(gateway ContentGateway, builder *views.Builder, cfg config.BlogConfig) *PostService {
	if cfg.HomePageSize <= 0 {
		cfg.HomePageSize = config.DefaultHomePageSize
	}
	return &PostService{gateway: gateway, builder: builder, cfg: cfg}
}

// cursorFetcher 는 pagination.PageFetcher 를 CMS 커서 호출로 구현한다.
type cursorFetcher struct {
	gateway ContentGateway
}

func (f cursorFetcher) FetchPage(ctx context.Context, cursor string) (pagination.Page, error) {
	page, err := f.gateway.FetchPage(ctx, cursor)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.Page{Posts: page.Summaries(), Cursor: page.Cursor()}, nil
}

// errStopWalk 는 Home 이 원하는 지점에서 WalkHome 을 멈추기 위해 쓴다.
var errStopWalk = errors.New("stop walk")

// Home 은 첫 페이지를 가져온 뒤 "Carregar mais posts" 를 more 번 누른 것과 같은 목록을 만든다.
// more 는 [0, MaxLoadMore] 로 제한된다. 커서가 먼저 끝나면 거기서 멈춘다.
func (s *PostService) Home(ctx context.Context, more int) (views.Home, error) {
	if more < 0 {
		more = 0
	}
	var out views.Home
	err := s.WalkHome(ctx, func(loaded int, home views.Home) error {
		out = home
		if loaded >= more {
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return views.Home{}, err
	}
	return out, nil
}

// WalkHome 은 하나의 pagination.Controller 로 첫 페이지부터 LoadMore 를 반복하며,
// 매 단계의 목록을 visit 에 넘긴다. loaded 는 그때까지 LoadMore 가 성공한 횟수다.
// 커서가 끝나거나 MaxLoadMore 에 도달하면 멈춘다. visit 이 에러를 돌려주면 그대로 반환한다.
func (s *PostService) WalkHome(ctx context.Context, visit func(loaded int, home views.Home) error) error {
	first, err := s.gateway.FetchPostsPage(ctx, prismicclient.PostsQuery{
		Type:     prismicclient.PostsType,
		Fields:   prismicclient.PostFields,
		PageSize: s.cfg.HomePageSize,
	})
	if err != nil {
		return err
	}

	ctrl := pagination.New(cursorFetcher{gateway: s.gateway}, pagination.Page{
		Posts:  first.Summaries(),
		Cursor: first.Cursor(),
	})
	seen := 0
	for loaded := 0; ; loaded++ {
		posts := ctrl.Posts()
		warnMissingDates(posts[seen:])
		seen = len(posts)

		canLoadMore := ctrl.CanLoadMore() && loaded < s.cfg.MaxLoadMore
		if err := visit(loaded, s.builder.BuildHome(posts, canLoadMore, loaded)); err != nil {
			return err
		}
		if !canLoadMore {
			return nil
		}
		if err := ctrl.LoadMore(ctx); err != nil {
			return err
		}
	}
}

func warnMissingDates(posts []models.PostSummary) {
	for _, p := range posts {
		if p.FirstPublicationDate == nil {
			logger.WarnWithFields("post without publication date", logger.Fields{"uid": p.UID})
		}
	}
}

// NextPage 는 커서를 한 번 따라가 JSON 응답용 페이지를 돌려준다.
func (s *PostService) NextPage(ctx context.Context, cursor string) (dto.PostsPageDTO, error) {
	if cursor == "" {
		return dto.PostsPageDTO{}, ErrInvalidCursor
	}
	page, err := s.gateway.FetchPage(ctx, cursor)
	if err != nil {
		return dto.PostsPageDTO{}, err
	}
	return dto.PostsPageDTO{Results: page.Summaries(), NextPage: page.NextPage}, nil
}

// Post 는 uid 로 포스트 화면 값을 만든다. 없으면 prismicclient.ErrNotFound 를 그대로 돌려준다.
func (s *PostService) Post(ctx context.Context, uid string) (views.Post, error) {
	doc, err := s.gateway.FetchPostByUID(ctx, prismicclient.PostsType, uid)
	if err != nil {
		return views.Post{}, err
	}
	detail := doc.ToDetail()
	if detail.FirstPublicationDate == nil {
		logger.WarnWithFields("post without publication date", logger.Fields{"uid": uid})
	}
	return s.builder.BuildPost(detail)
}

// StaticPaths 는 미리 만들어 둘 포스트 uid 목록이다.
func (s *PostService) StaticPaths(ctx context.Context) ([]string, error) {
	return s.gateway.ListAllUIDs(ctx)
}

func (s *PostService) Health(ctx context.Context) error {
	return s.gateway.Health(ctx)
}
