package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// DiffRenderer renders added/removed/modified lines with the active styles.
// Kept separate from RenderDiff so callers that already have a *Styles
// (e.g. a long-lived command) don't have to thread it through every call.
type DiffRenderer struct {
	styles *Styles
}

// NewDiffRenderer creates a new DiffRenderer with default styles.
func NewDiffRenderer() *DiffRenderer {
	return &DiffRenderer{styles: GetStyles()}
}

// NewDiffRendererWithStyles creates a DiffRenderer with custom styles.
func NewDiffRendererWithStyles(styles *Styles) *DiffRenderer {
	return &DiffRenderer{styles: styles}
}

// RenderAdded renders an added component line.
func (r *DiffRenderer) RenderAdded(name string) string {
	return "  + " + r.styles.Success.Render(name)
}

// RenderRemoved renders a removed component line.
func (r *DiffRenderer) RenderRemoved(name string) string {
	return "  - " + r.styles.Error.Render(name)
}

// RenderModified renders a modified component header.
func (r *DiffRenderer) RenderModified(name string) string {
	return "  ~ " + r.styles.Warning.Render(name)
}

// RenderAddedHeader renders the "Added:" section header.
func (r *DiffRenderer) RenderAddedHeader() string { return r.styles.Success.Render("Added:") }

// RenderRemovedHeader renders the "Removed:" section header.
func (r *DiffRenderer) RenderRemovedHeader() string { return r.styles.Error.Render("Removed:") }

// RenderModifiedHeader renders the "Modified:" section header.
func (r *DiffRenderer) RenderModifiedHeader() string { return r.styles.Warning.Render("Modified:") }

// SummaryDiff is the result of comparing two project summary documents.
// It mirrors the shape the data-dependency comparator (internal/summary)
// checks pointer-by-pointer, but here it's a whole-document report meant
// for human consumption via `anvil diff`.
type SummaryDiff struct {
	Added    []string
	Removed  []string
	Modified []ModifiedItem
}

// IsEmpty reports whether the two summaries had no observable differences.
func (d *SummaryDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// CompareProjectSummaries diffs two project summary documents (YAML or JSON,
// dyff accepts either) and returns a human-oriented report. It is the engine
// behind `anvil diff`; the data-dependency comparator in internal/summary
// performs a narrower, JSON-pointer-scoped version of the same comparison
// for rebuild decisions rather than for display.
func CompareProjectSummaries(previous, current []byte) (*SummaryDiff, error) {
	prevInput, err := loadSummaryInput("previous", previous)
	if err != nil {
		return nil, fmt.Errorf("parsing previous summary: %w", err)
	}

	currInput, err := loadSummaryInput("current", current)
	if err != nil {
		return nil, fmt.Errorf("parsing current summary: %w", err)
	}

	report, err := dyff.CompareInputFiles(prevInput, currInput)
	if err != nil {
		return nil, fmt.Errorf("comparing project summaries: %w", err)
	}

	diff := &SummaryDiff{}
	for _, d := range report.Diffs {
		path := "(root)"
		if d.Path != nil {
			path = d.Path.ToGoPropertyPath()
		}

		rendered, err := renderDyffDiff(d)
		if err != nil {
			return nil, fmt.Errorf("rendering diff for %s: %w", path, err)
		}

		switch classifyDiff(d) {
		case diffKindAdded:
			diff.Added = append(diff.Added, path)
		case diffKindRemoved:
			diff.Removed = append(diff.Removed, path)
		default:
			diff.Modified = append(diff.Modified, ModifiedItem{Name: path, Diff: rendered})
		}
	}

	return diff, nil
}

type diffKind int

const (
	diffKindModified diffKind = iota
	diffKindAdded
	diffKindRemoved
)

// classifyDiff inspects a dyff Diff's details to decide whether it reads as
// a pure addition, a pure removal, or a modification. dyff itself only
// tracks per-detail Kind (ADDITION/REMOVAL/MODIFICATION/ORDERCHANGE); a Diff
// with a single ADDITION detail and no prior value is an add, and similarly
// for removal.
func classifyDiff(d dyff.Diff) diffKind {
	if len(d.Details) != 1 {
		return diffKindModified
	}
	switch d.Details[0].Kind {
	case dyff.ADDITION:
		return diffKindAdded
	case dyff.REMOVAL:
		return diffKindRemoved
	default:
		return diffKindModified
	}
}

func loadSummaryInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderDyffDiff(d dyff.Diff) (string, error) {
	report := dyff.Report{Diffs: []dyff.Diff{d}}

	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      true,
		OmitHeader:        true,
	}

	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", err
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
