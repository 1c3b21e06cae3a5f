package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DefaultHTTPAddr      = ":3000"
	DefaultHomePageSize  = 1
	DefaultMaxLoadMore   = 50
	DefaultTimezone      = "America/Sao_Paulo"
	DefaultExportDir     = "out"
	DefaultClientTimeout = 10 * time.Second
)

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
	Prismic PrismicConfig `yaml:"prismic"`
	Blog    BlogConfig    `yaml:"blog"`
	Export  ExportConfig  `yaml:"export"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info notice warn warning error fatal panic"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// AllowedOrigins 는 /api 경로에 대한 CORS 허용 origin 목록이다. 비어 있으면 모두 허용한다.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PrismicConfig 는 headless CMS(Prismic v2 REST API) 접속 정보를 담는다.
type PrismicConfig struct {
	// Endpoint 예: https://spacetraveling.cdn.prismic.io/api/v2
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type BlogConfig struct {
	// HomePageSize 는 홈 화면 첫 페이지 및 "Carregar mais posts" 한 번에 불러오는 포스트 수이다.
	HomePageSize int `yaml:"home_page_size" validate:"gte=1,lte=100"`
	// MaxLoadMore 는 ?more=N 파라미터의 상한이다.
	MaxLoadMore int    `yaml:"max_load_more" validate:"gte=0"`
	Timezone    string `yaml:"timezone"`
}

type ExportConfig struct {
	OutDir string `yaml:"out_dir"`
}

var config *AppConfig

// InitApp 는 .env 와 config.yaml 을 읽어 전역 설정을 초기화한다.
// 설정이 유효하지 않으면 panic 한다.
func InitApp() {
	cfg, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	config = cfg
}

// Load 는 baseDir 의 .env / config.yaml 을 읽고, 환경변수 override 와 기본값을 적용한 뒤 검증한다.
// config.yaml 이 없으면 기본값과 환경변수만으로 구성한다.
func Load(baseDir string) (*AppConfig, error) {
	// load environment variables
	_ = godotenv.Load(filepath.Join(baseDir, ENV_FILE))

	var c AppConfig
	data, err := os.ReadFile(filepath.Join(baseDir, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", CONFIG_FILE, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config: read %s: %w", CONFIG_FILE, err)
	}

	applyEnv(&c)
	applyDefaults(&c)

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return &c, nil
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("PRISMIC_API_ENDPOINT"); v != "" {
		c.Prismic.Endpoint = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("HOME_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Blog.HomePageSize = n
		}
	}
}

func applyDefaults(c *AppConfig) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Prismic.Timeout <= 0 {
		c.Prismic.Timeout = DefaultClientTimeout
	}
	if c.Blog.HomePageSize == 0 {
		c.Blog.HomePageSize = DefaultHomePageSize
	}
	if c.Blog.MaxLoadMore == 0 {
		c.Blog.MaxLoadMore = DefaultMaxLoadMore
	}
	if c.Blog.Timezone == "" {
		c.Blog.Timezone = DefaultTimezone
	}
	if c.Export.OutDir == "" {
		c.Export.OutDir = DefaultExportDir
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Location 은 날짜 표시용 time zone 을 반환한다. 로드에 실패하면 UTC 를 사용한다.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Blog.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}
