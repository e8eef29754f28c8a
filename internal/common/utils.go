package common

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/caching"
	"github.com/dtnitsch/cp-hints/pkg/db"
	"github.com/dtnitsch/cp-hints/pkg/fetcher"
	"github.com/dtnitsch/cp-hints/pkg/gemini"
	"github.com/dtnitsch/cp-hints/pkg/relay"
	"github.com/dtnitsch/cp-hints/pkg/settings"
)

// EnvAPIKey overrides the stored API key when set.
const EnvAPIKey = "GEMINI_API_KEY"

const defaultFetchTimeout = 30 * time.Second

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// NewLogger builds the JSON stderr logger for a command.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// Runtime is what every command needs: config, logger, database and the
// settings store layered over the environment.
type Runtime struct {
	Config *models.Config
	Logger *slog.Logger
	DB     *db.DB
	Store  settings.Store
}

// Setup loads config (flags override the file) and opens the database.
func Setup(c *cli.Context) (*Runtime, error) {
	logger := NewLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("db"); v != "" {
		cfg.DBPath = v
	}
	if v := c.String("model"); v != "" {
		cfg.Model = v
	}
	if v := c.String("endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if c.IsSet("settle-delay") {
		cfg.SettleDelay = c.Duration("settle-delay")
	}
	if v := c.String("addr"); v != "" {
		cfg.ListenAddr = v
	}
	if c.IsSet("max-age") {
		cfg.CacheTTL = c.Duration("max-age")
	}
	if c.Bool("force-fetch") {
		cfg.CacheTTL = 0
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", database.Path())

	store := settings.NewEnvStore(settings.NewSQLStore(database), map[string]string{
		settings.KeyAPIKey: os.Getenv(EnvAPIKey),
	})

	return &Runtime{Config: cfg, Logger: logger, DB: database, Store: store}, nil
}

func (rt *Runtime) Close() error {
	return rt.DB.Close()
}

// NewRelay wires the relay to the completion endpoint and the history table.
func (rt *Runtime) NewRelay() *relay.Relay {
	client := gemini.NewClient(gemini.Config{
		BaseURL: rt.Config.Endpoint,
		Model:   rt.Config.Model,
		Timeout: rt.Config.RequestTimeout,
	})
	return relay.New(rt.Logger, rt.Store, client).WithRecorder(relay.NewDBRecorder(rt.DB))
}

// LoadPage reads the page from file when given, otherwise fetches pageURL
// through the page cache. pageURL is required either way since extraction
// dispatches on its host.
func (rt *Runtime) LoadPage(ctx context.Context, rawURL, file string) (*fetcher.Page, *url.URL, error) {
	pageURL, err := ParseProblemURL(rawURL)
	if err != nil {
		return nil, nil, err
	}

	f := fetcher.NewFetcher(defaultFetchTimeout)
	if file != "" {
		page, err := f.LoadFile(file)
		return page, pageURL, err
	}

	cacheDir := rt.Config.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(filepath.Dir(rt.DB.Path()), "cp-hints-cache")
	}
	cache, err := caching.NewCache(cacheDir, rt.Config.CacheTTL)
	if err != nil {
		rt.Logger.Warn("page cache disabled", "error", err)
	} else {
		f.WithCache(cache)
	}

	page, err := f.GetPage(ctx, pageURL.String())
	if err != nil {
		return nil, nil, err
	}
	return page, pageURL, nil
}

// ParseProblemURL sanitizes a pasted URL and requires an http(s) host.
func ParseProblemURL(rawURL string) (*url.URL, error) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" {
		return nil, fmt.Errorf("no URL provided")
	}
	if strings.Contains(cleaned, " ") {
		return nil, fmt.Errorf("invalid URL %q: contains spaces", rawURL)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return nil, fmt.Errorf("invalid URL %q: bad host", rawURL)
	}
	return parsed, nil
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown link syntax.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}
