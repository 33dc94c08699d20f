package website

import (
	"context"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// robotsAllowed checks /robots.txt at the site root. The check fails open:
// an unreachable or unparseable robots.txt never blocks the crawl.
func (e *Engine) robotsAllowed(ctx context.Context, site string) bool {
	base, err := url.Parse(site)
	if err != nil {
		return true
	}
	robotsURL := base.Scheme + "://" + base.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)

	resp, err := e.http.Do(req)
	if err != nil {
		e.log.Warn("could not read robots.txt, proceeding")
		return true
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		e.log.Warn("could not parse robots.txt, proceeding")
		return true
	}

	path := base.Path
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, e.cfg.UserAgent)
}
