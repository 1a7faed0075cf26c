package sources

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type keywordsFile struct {
	Languages  map[string][]string `yaml:"languages"`
	EventTerms []string            `yaml:"event_terms"`
}

// LoadKeywords flattens keywords.yml into a single ordered, deduplicated
// list: all per-language entries first, then the shared event terms.
// Language sections are visited in file order.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("keywords file missing, continuing without extra keywords", zap.String("path", path))
			return nil, nil
		}
		return nil, eris.Wrap(err, "sources: read keywords file")
	}

	// Decode twice: once typed for the values, once as a yaml.Node to
	// recover the language section order, which maps discard.
	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, eris.Wrap(err, "sources: parse keywords yaml")
	}

	var out []string
	for _, lang := range languageOrder(data) {
		out = append(out, kf.Languages[lang]...)
	}
	out = append(out, kf.EventTerms...)
	return dedupe(out), nil
}

func languageOrder(data []byte) []string {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "languages" {
			continue
		}
		langs := root.Content[i+1]
		if langs.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(langs.Content)/2)
		for j := 0; j+1 < len(langs.Content); j += 2 {
			order = append(order, langs.Content[j].Value)
		}
		return order
	}
	return nil
}
