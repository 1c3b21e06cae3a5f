package prismicclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"spacetraveling/models"
	"spacetraveling/richtext"
)

// Page 는 documents/search 응답이다. NextPage 가 nil 이면 마지막 페이지다.
type Page struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// Cursor 는 다음 페이지 URL 을 돌려준다. 없으면 빈 문자열이다.
func (p Page) Cursor() string {
	if p.NextPage == nil {
		return ""
	}
	return *p.NextPage
}

type Document struct {
	ID                   string     `json:"id"`
	UID                  string     `json:"uid"`
	Type                 string     `json:"type"`
	FirstPublicationDate *Timestamp `json:"first_publication_date"`
	LastPublicationDate  *Timestamp `json:"last_publication_date"`
	Data                 PostData   `json:"data"`
}

type PostData struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	Author   string           `json:"author"`
	Banner   Image            `json:"banner"`
	Content  []ContentSection `json:"content"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type ContentSection struct {
	Heading string           `json:"heading"`
	Body    []richtext.Block `json:"body"`
}

// timestampLayout 은 Prismic 이 쓰는 형식이다. (offset 에 콜론 없음)
const timestampLayout = "2006-01-02T15:04:05-0700"

// Timestamp 는 Prismic 날짜 문자열("2021-03-25T19:25:28+0000")을 읽고 쓴다.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{timestampLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("prismic: invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(timestampLayout))
}

func (t *Timestamp) ptr() *time.Time {
	if t == nil || t.Time.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// ToSummary 는 목록 화면에 필요한 필드만 남긴다.
func (d Document) ToSummary() models.PostSummary {
	return models.PostSummary{
		UID:                  d.UID,
		FirstPublicationDate: d.FirstPublicationDate.ptr(),
		Title:                d.Data.Title,
		Subtitle:             d.Data.Subtitle,
		Author:               d.Data.Author,
	}
}

// ToDetail 은 포스트 화면용 모델로 변환한다. 섹션 순서는 그대로 유지한다.
func (d Document) ToDetail() models.PostDetail {
	sections := make([]models.Section, 0, len(d.Data.Content))
	for _, s := range d.Data.Content {
		sections = append(sections, models.Section{Heading: s.Heading, Body: s.Body})
	}
	return models.PostDetail{
		UID:                  d.UID,
		FirstPublicationDate: d.FirstPublicationDate.ptr(),
		Title:                d.Data.Title,
		Subtitle:             d.Data.Subtitle,
		BannerURL:            d.Data.Banner.URL,
		Author:               d.Data.Author,
		Content:              sections,
	}
}

// Summaries 는 페이지의 결과를 순서대로 PostSummary 로 변환한다.
func (p Page) Summaries() []models.PostSummary {
	out := make([]models.PostSummary, 0, len(p.Results))
	for _, d := range p.Results {
		out = append(out, d.ToSummary())
	}
	return out
}
