package gotiktoken

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environment variables recognized by the fetcher, named after the
// teacher's TIKTOKEN_GO_* / TIKTOKEN_* variables.
const (
	envCacheDir    = "GOTIKTOKEN_CACHE_DIR"
	envEncBase     = "GOTIKTOKEN_ENCODINGS_BASE"
	envOffline     = "GOTIKTOKEN_OFFLINE"
	envHTTPTimeout = "GOTIKTOKEN_HTTP_TIMEOUT" // seconds
)

const (
	defaultBaseURL = "https://openaipublic.blob.core.windows.net/encodings/"
	defaultTimeout = 30 * time.Second
)

// config holds the resolved environment for one fetcher instance.
type config struct {
	cacheDir    string
	baseURL     string
	localDir    string // if set, vocabulary files are read from here instead of the network
	offline     bool
	httpTimeout time.Duration
}

func loadConfig() (config, error) {
	cfg := config{baseURL: defaultBaseURL, httpTimeout: defaultTimeout}

	if b := os.Getenv(envEncBase); b != "" {
		if looksLikeURL(b) {
			cfg.baseURL = ensureTrailingSlash(b)
		} else {
			cfg.localDir = b
		}
	}

	cfg.offline = os.Getenv(envOffline) == "1"

	if v := os.Getenv(envHTTPTimeout); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			cfg.httpTimeout = time.Duration(s) * time.Second
		}
	}

	dir, err := resolveCacheDir()
	if err != nil {
		return config{}, err
	}
	cfg.cacheDir = dir
	return cfg, nil
}

// resolveCacheDir respects GOTIKTOKEN_CACHE_DIR or falls back to a
// predictable temp directory, mirroring the teacher's resolveCacheDir.
func resolveCacheDir() (string, error) {
	if d := os.Getenv(envCacheDir); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", err
		}
		return d, nil
	}
	primary := filepath.Join(os.TempDir(), "gotiktoken-cache")
	if err := os.MkdirAll(primary, 0o755); err != nil {
		return "", err
	}
	return primary, nil
}

func ensureTrailingSlash(s string) string {
	if !strings.HasSuffix(s, "/") {
		return s + "/"
	}
	return s
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
