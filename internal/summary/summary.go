// Package summary builds, persists, and compares the Project Summary:
// the frozen, merged configuration document the resolver produces and
// the blueprint compiler, build engine, and `anvil diff` all consume.
package summary

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/resolver"
)

// Configuration is the `configuration` sub-document: host details and
// opaque user configuration passed through from internal/config.
type Configuration struct {
	HostOS        string                 `json:"host_os"`
	ExecutableExt string                 `json:"executable_extension"`
	UserConfig    map[string]interface{} `json:"user_config,omitempty"`
}

// Choice is the persisted form of a resolved choice.
type Choice struct {
	Parent     string   `json:"parent"`
	Features   []string `json:"features,omitempty"`
	Components []string `json:"components,omitempty"`
}

// Summary is the Project Summary: the aggregate document the resolver
// produces and everything downstream treats as frozen and read-only.
type Summary struct {
	ProjectName   string                 `json:"project_name"`
	ProjectOutput string                 `json:"project_output"`
	Configuration Configuration          `json:"configuration"`
	Components    map[string]interface{} `json:"components"`
	Features      []string               `json:"features"`
	Choices       map[string]Choice      `json:"choices"`
	Tools         map[string]string      `json:"tools"`
	Initial       InitialSelection       `json:"initial"`
	Host          HostInfo               `json:"host"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

func hostName() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

// InitialSelection records the user's original build-string inputs, for
// reproducibility and display.
type InitialSelection struct {
	Components []string `json:"components"`
	Features   []string `json:"features"`
}

// HostInfo is the `host` sub-document.
type HostInfo struct {
	Name string `json:"name"`
}

// Build assembles a Summary from a resolver.Result and the initial
// inputs the resolve was run with. Tool expansion (§4.2) is the
// caller's responsibility (internal/blueprint), since it requires the
// template engine; Build leaves Tools empty for the caller to fill.
func Build(result *resolver.Result, projectName, outputDir string, initialComponents, initialFeatures []string, cfg Configuration) *Summary {
	components := make(map[string]interface{}, len(result.Components))
	for id, m := range result.Components {
		components[id] = m.Raw.ToInterface()
	}

	return &Summary{
		ProjectName:   projectName,
		ProjectOutput: filepath.Join(outputDir, projectName),
		Configuration: cfg,
		Components:    components,
		Features:      result.RequiredFeatures,
		Choices:       buildChoices(result.Choices),
		Tools:         map[string]string{},
		Initial: InitialSelection{
			Components: initialComponents,
			Features:   initialFeatures,
		},
		Host: HostInfo{Name: hostName()},
		Data: map[string]interface{}{},
	}
}

func buildChoices(choices map[string]*resolver.Choice) map[string]Choice {
	out := make(map[string]Choice, len(choices))
	for name, c := range choices {
		out[name] = Choice{
			Parent:     c.Parent,
			Features:   c.Features,
			Components: c.Components,
		}
	}
	return out
}

// Path returns the path a project's summary is persisted to:
// output/<project_name>/anvil_summary.json.
func Path(outputDir, projectName string) string {
	return filepath.Join(outputDir, projectName, "anvil_summary.json")
}

// Save persists s as JSON at Path(outputDir, s.ProjectName), creating
// parent directories as needed.
func (s *Summary) Save(outputDir string) error {
	path := Path(outputDir, s.ProjectName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a previously-persisted summary, or (nil, nil) if it
// doesn't exist yet.
func Load(outputDir, projectName string) (*Summary, error) {
	path := Path(outputDir, projectName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// JSON returns s marshaled to indented JSON bytes.
func (s *Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// AsDocument converts s into a document.Node for template rendering
// contexts that expect the ordered-tree shape (blueprint pattern and
// dependency templates render against this).
func (s *Summary) AsDocument() (*document.Node, error) {
	raw, err := s.JSON()
	if err != nil {
		return nil, err
	}
	return document.ParseYAML(raw)
}
