package website

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// NormalizeURL trims the raw website string and ensures it carries a scheme
// and a host. Place records store websites in whatever shape the API
// returned them, so the bare-domain case is common.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsRune(raw, ' ') {
		return "", eris.Errorf("website: invalid URL format: %q", raw)
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", eris.Errorf("website: invalid URL format: %q", raw)
	}
	return raw, nil
}
