package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/clients/prismicclient"
	"spacetraveling/cmd/web/dto"
	"spacetraveling/cmd/web/services"
	"spacetraveling/cmd/web/views"
)

// PostPages 는 핸들러가 필요로 하는 services.PostService 의 메서드 집합이다.
type PostPages interface {
	Home(ctx context.Context, more int) (views.Home, error)
	Post(ctx context.Context, uid string) (views.Post, error)
	NextPage(ctx context.Context, cursor string) (dto.PostsPageDTO, error)
	Health(ctx context.Context) error
}

// HomeHandler 는 포스트 목록을 렌더링한다.
// ?more=N 은 "Carregar mais posts" 를 N 번 누른 상태를 뜻한다.
func HomeHandler(svc PostPages) gin.HandlerFunc {
	return func(c *gin.Context) {
		more, _ := strconv.Atoi(c.DefaultQuery("more", "0"))
		home, err := svc.Home(c.Request.Context(), more)
		if err != nil {
			renderError(c, err)
			return
		}
		c.HTML(http.StatusOK, views.HomeTemplate, home)
	}
}

// PostHandler 는 uid(slug) 에 해당하는 포스트 화면을 렌더링한다.
func PostHandler(svc PostPages) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Post(c.Request.Context(), c.Param("slug"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.HTML(http.StatusOK, views.PostTemplate, post)
	}
}

// NextPageHandler 는 커서 한 번을 따라간 페이지를 JSON 으로 돌려준다.
// @Summary Load the next page of posts
// @Description Follows a next_page cursor once and returns the posts of that page
// @Tags posts
// @Produce json
// @Param cursor query string true "next_page cursor returned by the previous page"
// @Success 200 {object} dto.PostsPageDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 502 {object} dto.ErrorResponseDTO
// @Router /api/posts/next [get]
func NextPageHandler(svc PostPages) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.NextPage(c.Request.Context(), c.Query("cursor"))
		if err != nil {
			status := statusFor(err)
			logError(c, status, err)
			c.JSON(status, dto.ErrorResponseDTO{Error: errorCode(err)})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// @Summary Health check
// @Description Checks that the CMS answers with a master ref
// @Tags health
// @Produce json
// @Success 200 {object} object
// @Failure 503 {object} object
// @Router /health [get]
func HealthHandler(svc PostPages) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := svc.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "prismic": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func statusFor(err error) int {
	var gwErr *prismicclient.GatewayError
	switch {
	case errors.Is(err, prismicclient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCursor):
		return http.StatusBadRequest
	case errors.As(err, &gwErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch statusFor(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid_cursor"
	case http.StatusBadGateway:
		return "content_unavailable"
	default:
		return "internal_error"
	}
}

func errorMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Post não encontrado"
	case http.StatusBadGateway:
		return "Não foi possível carregar o conteúdo"
	default:
		return "Erro inesperado"
	}
}

func renderError(c *gin.Context, err error) {
	status := statusFor(err)
	logError(c, status, err)
	c.HTML(status, views.ErrorTemplate, views.Error{Status: status, Message: errorMessage(status)})
}

func logError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	fields := logger.WithContext(c.Request.Context(), logger.Fields{
		"path":   c.Request.URL.Path,
		"status": status,
		"error":  err.Error(),
	})
	if status == http.StatusNotFound {
		logger.InfoWithFields("post not found", fields)
		return
	}
	logger.ErrorWithFields("request failed", fields)
}
