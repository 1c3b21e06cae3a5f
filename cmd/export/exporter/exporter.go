// Package exporter writes the blog as static HTML files.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/clients/prismicclient"
	"spacetraveling/cmd/web/views"
)

// Pages 는 export 에 필요한 services.PostService 의 메서드 집합이다.
type Pages interface {
	WalkHome(ctx context.Context, visit func(loaded int, home views.Home) error) error
	Post(ctx context.Context, uid string) (views.Post, error)
	StaticPaths(ctx context.Context) ([]string, error)
}

// Result 는 한 번의 export 에서 생성된 파일 수를 요약한다.
type Result struct {
	HomePages int
	Posts     int
	Fallbacks int
}

type Exporter struct {
	pages  Pages
	tmpl   *template.Template
	outDir string
}

func New(pages Pages, tmpl *template.Template, outDir string) *Exporter {
	return &Exporter{pages: pages, tmpl: tmpl, outDir: outDir}
}

// HomePagePath 는 n 번째 목록 페이지의 URL 경로다. 첫 페이지는 "/" 이다.
func HomePagePath(n int) string {
	if n <= 1 {
		return "/"
	}
	return "/page/" + strconv.Itoa(n) + "/"
}

// Run 은 목록 페이지들과 StaticPaths 의 포스트 페이지를 outDir 에 쓴다.
// 목록 조회 후 사라진 포스트(ErrNotFound)는 fallback 페이지로 남기고,
// 그 외 CMS 오류는 원인을 감싼 채 즉시 중단한다.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	var res Result

	err := e.pages.WalkHome(ctx, func(loaded int, home views.Home) error {
		if home.LoadMoreHref != "" {
			home.LoadMoreHref = HomePagePath(loaded + 2)
		}
		if err := e.write(HomePagePath(loaded+1), views.HomeTemplate, home); err != nil {
			return err
		}
		res.HomePages++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("export home: %w", err)
	}

	uids, err := e.pages.StaticPaths(ctx)
	if err != nil {
		return res, fmt.Errorf("export static paths: %w", err)
	}
	for _, uid := range uids {
		postPath := views.PostHref(uid) + "/"
		post, err := e.pages.Post(ctx, uid)
		switch {
		case errors.Is(err, prismicclient.ErrNotFound):
			logger.WarnWithFields("post disappeared during export, writing fallback", logger.Fields{"uid": uid})
			if err := e.write(postPath, views.FallbackTemplate, views.BuildFallback()); err != nil {
				return res, err
			}
			res.Fallbacks++
			continue
		case err != nil:
			return res, fmt.Errorf("export post %s: %w", uid, err)
		}
		if err := e.write(postPath, views.PostTemplate, post); err != nil {
			return res, err
		}
		res.Posts++
	}

	logger.InfoWithFields("export finished", logger.Fields{
		"out_dir":    e.outDir,
		"home_pages": res.HomePages,
		"posts":      res.Posts,
		"fallbacks":  res.Fallbacks,
	})
	return res, nil
}

// write 는 urlPath 아래 index.html 로 템플릿을 렌더링한다.
func (e *Exporter) write(urlPath, name string, data any) error {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", urlPath, err)
	}
	dir := filepath.Join(e.outDir, filepath.FromSlash(urlPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0o644)
}
