package dto

import "spacetraveling/models"

// PostsPageDTO 는 커서 한 번을 따라간 결과다. NextPage 가 null 이면 더 불러올 페이지가 없다.
type PostsPageDTO struct {
	Results  []models.PostSummary `json:"results"`
	NextPage *string              `json:"next_page"`
}
