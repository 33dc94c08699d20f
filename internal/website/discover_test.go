package website

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AurisAASI/backend-core/internal/model"
)

func TestFilterSitemapPages(t *testing.T) {
	t.Parallel()

	got := filterSitemapPages([]string{
		"https://x.com.br/",
		"https://x.com.br/blog/post-1",
		"https://x.com.br/page/2",
		"https://x.com.br/2024/03/lancamento",
		"https://x.com.br/produtos?ordenar=preco",
		"https://x.com.br/sobre",
		"https://x.com.br/lojas",
		"https://x.com.br/contact",
	})

	// Blog posts, pagination, date archives and query URLs are dropped;
	// keyword pages come first.
	assert.Equal(t, []string{
		"https://x.com.br/sobre",
		"https://x.com.br/contact",
		"https://x.com.br/",
		"https://x.com.br/lojas",
	}, got)
}

func TestPrioritizeLinks(t *testing.T) {
	t.Parallel()

	got := prioritizeLinks([]string{
		"https://x.com.br/institucional/equipe/interna",
		"https://x.com.br/sobre",
		"https://x.com.br/lojas",
		"https://x.com.br/produtos",
	})

	// "produtos" matches both the singular and plural keywords.
	assert.Equal(t, "https://x.com.br/produtos", got[0])
	assert.Equal(t, "https://x.com.br/sobre", got[1])
	// The deep path scores below the shallow unrelated one.
	assert.Equal(t, "https://x.com.br/institucional/equipe/interna", got[3])
}

func TestParseSitemapLocs(t *testing.T) {
	t.Parallel()

	sitemap := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://x.com.br/</loc><lastmod>2026-01-01</lastmod></url>
  <url><loc> https://x.com.br/sobre </loc></url>
</urlset>`

	got := parseSitemapLocs(strings.NewReader(sitemap))
	assert.Equal(t, []string{"https://x.com.br/", "https://x.com.br/sobre"}, got)
}

func TestParseSitemapIndexLocs(t *testing.T) {
	t.Parallel()

	index := `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://x.com.br/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`

	got := parseSitemapLocs(strings.NewReader(index))
	assert.Equal(t, []string{"https://x.com.br/sitemap-pages.xml"}, got)
}

func TestCommonPathPages(t *testing.T) {
	t.Parallel()

	got := commonPathPages("https://x.com.br/alguma/pagina", 15)
	require.Len(t, got, 15)
	assert.Equal(t, "https://x.com.br/", got[0])
	assert.Contains(t, got, "https://x.com.br/sobre")
	assert.Contains(t, got, "https://x.com.br/contato")
}

func TestFoldAccents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "servicos", foldAccents("serviços"))
	assert.Equal(t, "historia", foldAccents("história"))
	assert.Equal(t, "about", foldAccents("about"))
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>body { color: red }</style></head>
<body>
  <script>var x = 1;</script>
  <h1>Aparelhos   Auditivos</h1>
  <noscript>enable js</noscript>
  <p>Desde 1995 em São Paulo.</p>
</body></html>`

	text := extractText(html)
	assert.Contains(t, text, "Aparelhos Auditivos")
	assert.Contains(t, text, "Desde 1995 em São Paulo.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "enable js")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
	// Never splits a multi-byte rune.
	assert.Equal(t, "a", truncate("aço", 2))
}

func TestNormalizePhones(t *testing.T) {
	t.Parallel()

	extraction := &model.Extraction{Phones: []model.Phone{
		{Number: "+55 11 91234-5678"},
		{Number: "11 3456-7890", Type: "fixed"},
		{Number: "123", Type: "other"},
	}}
	normalizePhones(extraction)

	assert.Equal(t, "(11) 91234-5678", extraction.Phones[0].Number)
	assert.Equal(t, "mobile", extraction.Phones[0].Type)
	assert.Equal(t, "(11) 3456-7890", extraction.Phones[1].Number)
	assert.Equal(t, "fixed", extraction.Phones[1].Type)
	// Unparseable numbers are left alone.
	assert.Equal(t, "123", extraction.Phones[2].Number)
}
