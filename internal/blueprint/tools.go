package blueprint

import (
	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/manifest"
	"github.com/anvilbuild/anvil/internal/tmpl"
)

// ExpandTools renders every component's tools.<name> template against
// the summary once, in component-id order, so a later component's tool
// of the same name overrides an earlier one's.
func ExpandTools(components map[string]*manifest.Manifest, summaryDoc *document.Node) (map[string]string, error) {
	out := map[string]string{}
	engine := tmpl.New(summaryDoc.ToInterface())

	for _, id := range sortedIDs(components) {
		for name, tmplStr := range components[id].Tools() {
			rendered, err := engine.Render(tmplStr)
			if err != nil {
				return nil, err
			}
			out[name] = rendered
		}
	}

	return out, nil
}
