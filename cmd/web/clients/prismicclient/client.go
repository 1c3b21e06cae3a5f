package prismicclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spacetraveling/cmd/web/httpclient"
	"spacetraveling/config"
)

// Client는 Prismic v2 REST API 를 호출하는 얇은 클라이언트다.
//
// - 모든 검색 쿼리는 매 호출마다 master ref 를 새로 조회한 뒤 수행한다. (캐시 없음)
// - 재시도/백오프는 하지 않는다. 실패는 GatewayError 로 그대로 호출자에게 전달된다.
//
// endpoint 예: https://spacetraveling.cdn.prismic.io/api/v2
type Client struct {
	base *httpclient.BaseClient
}

// StaticPathsPageSize 는 ListAllUIDs 가 조회하는 유일한 페이지의 크기이다.
// 다음 페이지는 따라가지 않는다.
const StaticPathsPageSize = 20

// PostsType 은 블로그 포스트의 custom type 이름이다.
const PostsType = "posts"

// PostFields 는 목록 조회 시 가져오는 필드 목록이다.
var PostFields = []string{
	"posts.title",
	"posts.subtitle",
	"posts.author",
	"posts.banner",
	"posts.content",
}

var ErrNotFound = errors.New("prismic: document not found")

// GatewayError 는 CMS 호출 실패(네트워크, 비정상 status, 잘못된 응답 본문)를 나타낸다.
type GatewayError struct {
	Op     string
	Status int
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("prismic %s: status=%d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("prismic %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func New(cfg config.PrismicConfig) *Client {
	httpClient := httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	return NewWithHTTPClient(httpClient, cfg.Endpoint)
}

// NewWithHTTPClient 는 주어진 http.Client 를 사용하는 클라이언트를 생성한다. 테스트에서 사용한다.
func NewWithHTTPClient(httpClient *http.Client, endpoint string) *Client {
	return &Client{base: httpclient.NewBaseClient(endpoint, httpClient)}
}

// -------------------- Queries --------------------

// PostsQuery 는 content type 필터, 가져올 필드, 페이지 크기를 지정한다.
type PostsQuery struct {
	Type     string
	Fields   []string
	PageSize int
}

// FetchPostsPage 는 주어진 type 의 문서 첫 페이지와 다음 페이지 커서를 돌려준다.
func (c *Client) FetchPostsPage(ctx context.Context, q PostsQuery) (Page, error) {
	const op = "FetchPostsPage"
	ref, err := c.masterRef(ctx)
	if err != nil {
		return Page{}, err
	}
	params := url.Values{}
	params.Set("ref", ref)
	params.Add("q", atPredicate("document.type", q.Type))
	if len(q.Fields) > 0 {
		params.Set("fetch", strings.Join(q.Fields, ","))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return c.search(ctx, op, params)
}

// FetchPage 는 next_page 커서 URL 을 그대로 GET 해 같은 형태의 페이지를 돌려준다.
// 커서의 호스트가 endpoint 와 다르면 요청하지 않고 GatewayError 를 반환한다.
func (c *Client) FetchPage(ctx context.Context, cursor string) (Page, error) {
	const op = "FetchPage"
	req, err := c.base.Follow(ctx, cursor)
	if err != nil {
		return Page{}, &GatewayError{Op: op, Err: err}
	}
	var out Page
	if err := c.doJSON(req, op, &out); err != nil {
		return Page{}, err
	}
	return out, nil
}

// FetchPostByUID 는 type 과 uid 로 단일 문서를 조회한다.
// 존재하지 않으면 ErrNotFound 를 반환한다.
func (c *Client) FetchPostByUID(ctx context.Context, docType, uid string) (Document, error) {
	const op = "FetchPostByUID"
	ref, err := c.masterRef(ctx)
	if err != nil {
		return Document{}, err
	}
	params := url.Values{}
	params.Set("ref", ref)
	params.Add("q", atPredicate("my."+docType+".uid", uid))
	params.Set("pageSize", "1")

	page, err := c.search(ctx, op, params)
	if err != nil {
		return Document{}, err
	}
	if len(page.Results) == 0 {
		return Document{}, ErrNotFound
	}
	return page.Results[0], nil
}

// ListAllUIDs 는 포스트 uid 목록을 돌려준다.
// StaticPathsPageSize 건을 넘는 포스트는 포함되지 않는다.
func (c *Client) ListAllUIDs(ctx context.Context) ([]string, error) {
	page, err := c.FetchPostsPage(ctx, PostsQuery{Type: PostsType, Fields: PostFields, PageSize: StaticPathsPageSize})
	if err != nil {
		return nil, err
	}
	uids := make([]string, 0, len(page.Results))
	for _, doc := range page.Results {
		if doc.UID == "" {
			continue
		}
		uids = append(uids, doc.UID)
	}
	return uids, nil
}

// Health 는 API 루트가 200 을 응답하는지 확인한다.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.masterRef(ctx)
	return err
}

// -------------------- internals --------------------

type apiInfo struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		Label       string `json:"label"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}

func (c *Client) masterRef(ctx context.Context) (string, error) {
	const op = "masterRef"
	req, err := c.base.Get(ctx, "", nil)
	if err != nil {
		return "", &GatewayError{Op: op, Err: err}
	}
	var info apiInfo
	if err := c.doJSON(req, op, &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef && r.Ref != "" {
			return r.Ref, nil
		}
	}
	return "", &GatewayError{Op: op, Err: errors.New("master ref not found")}
}

func (c *Client) search(ctx context.Context, op string, params url.Values) (Page, error) {
	req, err := c.base.Get(ctx, "/documents/search", params)
	if err != nil {
		return Page{}, &GatewayError{Op: op, Err: err}
	}
	var out Page
	if err := c.doJSON(req, op, &out); err != nil {
		return Page{}, err
	}
	return out, nil
}

func (c *Client) doJSON(req *http.Request, op string, out any) error {
	resp, err := c.base.Do(req)
	if err != nil {
		return &GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("body=%s", string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// atPredicate 는 [[at(path, "value")]] 형태의 equality predicate 를 만든다.
func atPredicate(path, value string) string {
	return "[[at(" + path + ", " + strconv.Quote(value) + ")]]"
}
