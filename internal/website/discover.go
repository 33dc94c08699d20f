package website

import (
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// URL path fragments that mark informational pages worth crawling.
var priorityKeywords = []string{
	"sobre", "about", "quem-somos",
	"contato", "contact", "fale-conosco",
	"servico", "service", "servicos",
	"produto", "product", "produtos",
	"empresa", "company",
}

var sitemapKeywords = append([]string{"historia"}, priorityKeywords...)

// Sitemap entries matching these are blog posts, pagination, taxonomy
// pages and the like, never company information.
var sitemapExcludes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/blog/`),
	regexp.MustCompile(`(?i)/news/`),
	regexp.MustCompile(`(?i)/noticia/`),
	regexp.MustCompile(`(?i)/artigo/`),
	regexp.MustCompile(`(?i)/page/\d+`),
	regexp.MustCompile(`(?i)/p/\d+`),
	regexp.MustCompile(`(?i)/\d{4}/\d{2}/`),
	regexp.MustCompile(`(?i)/category/`),
	regexp.MustCompile(`(?i)/tag/`),
	regexp.MustCompile(`(?i)/author/`),
	regexp.MustCompile(`\?`),
	regexp.MustCompile(`#`),
}

var sitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/sitemap1.xml",
}

var commonPaths = []string{
	"/", "/index.html", "/index.php",
	"/sobre", "/sobre-nos", "/quem-somos", "/about", "/about-us",
	"/contato", "/fale-conosco", "/contact",
	"/produtos", "/products", "/servicos", "/services",
	"/ofertas", "/offers", "/empresa", "/company",
}

var navClassRe = regexp.MustCompile(`(?i)nav|menu|header`)

// discoverPages collects candidate URLs from homepage navigation, the
// sitemap and a fixed list of common paths, validates each candidate with a
// real fetch, and keeps the largest pages.
func (e *Engine) discoverPages(ctx context.Context, site string) []string {
	candidates := make(map[string]bool)
	for _, u := range e.discoverFromHomepage(ctx, site) {
		candidates[u] = true
	}
	for _, u := range e.discoverFromSitemap(ctx, site) {
		candidates[u] = true
	}
	for _, u := range commonPathPages(site, e.cfg.MaxPages) {
		candidates[u] = true
	}
	e.log.Info("collected candidate pages", zap.Int("candidates", len(candidates)))

	type page struct {
		url  string
		size int
	}
	var valid []page
	for u := range candidates {
		if err := e.limiter.Wait(ctx); err != nil {
			break
		}
		html, err := e.fetchPage(ctx, u)
		if err != nil {
			continue
		}
		valid = append(valid, page{url: u, size: len(html)})
	}

	// Pages with more content first.
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].size != valid[j].size {
			return valid[i].size > valid[j].size
		}
		return valid[i].url < valid[j].url
	})
	if len(valid) > e.cfg.MaxPages {
		valid = valid[:e.cfg.MaxPages]
	}

	urls := make([]string, len(valid))
	for i, p := range valid {
		urls[i] = p.url
	}
	return urls
}

// discoverFromHomepage pulls same-host links out of the navigation areas of
// the homepage.
func (e *Engine) discoverFromHomepage(ctx context.Context, site string) []string {
	html, err := e.fetchPage(ctx, site)
	if err != nil {
		e.log.Warn("homepage fetch for navigation crawl failed", zap.Error(err))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	base, err := url.Parse(site)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	collect := func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || skippedHref(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host {
			return
		}
		clean := strings.TrimRight(abs.Scheme+"://"+abs.Host+abs.Path, "/")
		if clean == "" || seen[clean] {
			return
		}
		seen[clean] = true
		links = append(links, clean)
	}

	doc.Find("nav, header, footer, menu").Find("a[href]").Each(collect)
	doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return navClassRe.MatchString(s.AttrOr("class", ""))
	}).Find("a[href]").Each(collect)

	return prioritizeLinks(links)
}

func skippedHref(href string) bool {
	for _, prefix := range []string{"#", "javascript:", "mailto:", "tel:"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// prioritizeLinks orders links by keyword relevance, preferring paths
// closer to the site root.
func prioritizeLinks(links []string) []string {
	score := func(link string) float64 {
		u, err := url.Parse(link)
		if err != nil {
			return 0
		}
		path := foldAccents(strings.ToLower(u.Path))
		var matches float64
		for _, kw := range priorityKeywords {
			if strings.Contains(path, kw) {
				matches++
			}
		}
		return matches - 0.1*float64(strings.Count(path, "/"))
	}
	sort.SliceStable(links, func(i, j int) bool {
		return score(links[i]) > score(links[j])
	})
	return links
}

// discoverFromSitemap tries the well-known sitemap locations; the first one
// that responds with URLs wins.
func (e *Engine) discoverFromSitemap(ctx context.Context, site string) []string {
	base, err := url.Parse(site)
	if err != nil {
		return nil
	}
	root := base.Scheme + "://" + base.Host

	for _, path := range sitemapPaths {
		body, err := e.fetchPage(ctx, root+path)
		if err != nil {
			continue
		}
		locs := parseSitemapLocs(strings.NewReader(body))
		if len(locs) > 0 {
			e.log.Debug("sitemap found",
				zap.String("path", path), zap.Int("urls", len(locs)))
			return filterSitemapPages(locs)
		}
	}
	return nil
}

// parseSitemapLocs extracts every <loc> value from a sitemap or sitemap
// index document.
func parseSitemapLocs(r io.Reader) []string {
	dec := xml.NewDecoder(r)
	var locs []string
	inLoc := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return locs
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inLoc = t.Name.Local == "loc"
		case xml.CharData:
			if inLoc {
				if loc := strings.TrimSpace(string(t)); loc != "" {
					locs = append(locs, loc)
				}
			}
		case xml.EndElement:
			inLoc = false
		}
	}
}

// filterSitemapPages drops blog-style URLs and moves keyword pages to the
// front.
func filterSitemapPages(urls []string) []string {
	var priority, rest []string

outer:
	for _, raw := range urls {
		for _, re := range sitemapExcludes {
			if re.MatchString(raw) {
				continue outer
			}
		}

		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		path := foldAccents(strings.ToLower(u.Path))
		matched := false
		for _, kw := range sitemapKeywords {
			if strings.Contains(path, kw) {
				matched = true
				break
			}
		}
		if matched {
			priority = append(priority, raw)
		} else {
			rest = append(rest, raw)
		}
	}
	return append(priority, rest...)
}

// commonPathPages guesses the usual Brazilian and English informational
// paths. Useful for sites with no sitemap and JavaScript-rendered menus.
func commonPathPages(site string, limit int) []string {
	base, err := url.Parse(site)
	if err != nil {
		return nil
	}
	root := base.Scheme + "://" + base.Host

	var pages []string
	for _, path := range commonPaths {
		pages = append(pages, root+path)
		if len(pages) == limit {
			break
		}
	}
	return pages
}

// foldAccents strips combining marks so "serviços" matches "servicos".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
