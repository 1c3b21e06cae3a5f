package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spacetraveling/cmd/web/handlers"
	"spacetraveling/cmd/web/middleware"
	"spacetraveling/cmd/web/views"
	"spacetraveling/config"
)

// New 는 gin 엔진을 구성한다.
func New(postPages handlers.PostPages) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.Recovery())
	r.SetHTMLTemplate(views.Templates())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", handlers.HealthHandler(postPages))

	r.GET("/", handlers.HomeHandler(postPages))
	r.GET("/post/:slug", handlers.PostHandler(postPages))

	api := r.Group("/api")
	{
		api.GET("/posts/next", handlers.NextPageHandler(postPages))
	}

	return r
}

// WithCORS 는 /api 호출을 위한 CORS 처리를 엔진 앞단에 붙인다.
// allowedOrigins 가 비어 있으면 모든 origin 을 허용한다.
func WithCORS(engine http.Handler, cfg config.HTTPConfig) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	}
	if len(cfg.AllowedOrigins) > 0 {
		opts.AllowedOrigins = cfg.AllowedOrigins
	} else {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler(engine)
}
