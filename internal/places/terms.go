package places

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed niche_terms.yaml
var defaultNicheTerms []byte

// LoadTerms reads the niche→search-terms mapping. With an empty path the
// embedded default mapping is used.
func LoadTerms(path string) (map[string][]string, error) {
	data := defaultNicheTerms
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "places: read terms file %s", path)
		}
	}

	var terms map[string][]string
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, eris.Wrap(err, "places: parse terms file")
	}
	return terms, nil
}

// TermsFor returns the search terms for a niche, case-insensitively.
func TermsFor(terms map[string][]string, niche string) []string {
	return terms[strings.ToLower(niche)]
}
