package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds everything the API server reads from the environment.
type Settings struct {
	Port            string
	SupabaseURL     string
	SupabaseKey     string
	CORSOrigins     []string
	RedisURL        string
	RateLimitMax    int
	RateLimitWindow time.Duration
	// TrustedProxies are the peers whose X-Forwarded-For header is believed.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []netip.Prefix
}

const (
	DefaultPort            = "5000"
	DefaultRateLimitMax    = 100
	DefaultRateLimitWindow = 15 * time.Minute
)

var DefaultCORSOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// Load reads Settings from the process environment. Supabase credentials are
// required; everything else has a default.
func Load() (Settings, error) {
	s := Settings{
		Port:            getEnv("PORT", DefaultPort),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		CORSOrigins:     DefaultCORSOrigins,
		RedisURL:        os.Getenv("REDIS_URL"),
		RateLimitMax:    DefaultRateLimitMax,
		RateLimitWindow: DefaultRateLimitWindow,
	}

	if s.SupabaseURL == "" || s.SupabaseKey == "" {
		return s, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		s.CORSOrigins = splitList(raw)
	}

	if raw := os.Getenv("RATE_LIMIT_MAX"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return s, fmt.Errorf("invalid RATE_LIMIT_MAX %q", raw)
		}
		s.RateLimitMax = n
	}

	if raw := os.Getenv("RATE_LIMIT_WINDOW"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return s, fmt.Errorf("invalid RATE_LIMIT_WINDOW %q", raw)
		}
		s.RateLimitWindow = d
	}

	if raw := os.Getenv("TRUSTED_PROXIES"); raw != "" {
		prefixes, err := parsePrefixes(splitList(raw))
		if err != nil {
			return s, err
		}
		s.TrustedProxies = prefixes
	}

	return s, nil
}

// parsePrefixes accepts CIDRs and bare addresses; a bare address becomes a
// single-host prefix.
func parsePrefixes(items []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(items))
	for _, item := range items {
		if p, err := netip.ParsePrefix(item); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", item)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
