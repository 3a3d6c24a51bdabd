package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// VerboseOptions controls verbose output.
type VerboseOptions struct {
	// JSON outputs structured JSON instead of human-readable text.
	JSON bool
	// Writer is the output destination.
	Writer io.Writer
}

// VerboseResult is the structured verbose output for a build invocation:
// the resolved project, which blueprints matched which targets, and the
// outcome of every task the build engine ran.
type VerboseResult struct {
	Project   VerboseProject          `json:"project"`
	Blueprint VerboseBlueprintMatches `json:"blueprintMatches"`
	Tasks     []VerboseTask           `json:"tasks"`
	Errors    []string                `json:"errors,omitempty"`
	Warnings  []string                `json:"warnings,omitempty"`
}

// VerboseProject contains the resolved project metadata.
type VerboseProject struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
	Features   []string `json:"features"`
}

// VerboseBlueprintMatches contains blueprint-to-target matching details.
type VerboseBlueprintMatches struct {
	Matches   map[string][]VerboseMatch `json:"matches"`
	Unmatched []string                  `json:"unmatched,omitempty"`
}

// VerboseMatch describes one blueprint matching one target.
type VerboseMatch struct {
	Blueprint string `json:"blueprint"`
	Reason    string `json:"reason"`
}

// VerboseTask describes the outcome of one task in the build graph.
type VerboseTask struct {
	Target   string `json:"target"`
	Command  string `json:"command"`
	Status   string `json:"status"`
	Duration string `json:"duration,omitempty"`
}

// BuildResultInfo carries the data WriteVerboseResult needs without
// internal/output importing internal/buildengine or internal/blueprint
// directly (those packages import internal/output for logging, and a
// reverse import would cycle).
type BuildResultInfo struct {
	ProjectName       string
	ProjectComponents []string
	ProjectFeatures   []string
	Matches           map[string][]MatchInfo
	Unmatched         []string
	Tasks             []TaskInfo
	Errors            []error
	Warnings          []string
}

// MatchInfo describes one blueprint-to-target match.
type MatchInfo struct {
	Blueprint string
	Reason    string
}

// TaskInfo describes one executed build task.
type TaskInfo struct {
	Target   string
	Command  string
	Status   string
	Duration string
}

// WriteVerboseResult writes verbose build output from a BuildResultInfo.
func WriteVerboseResult(result *BuildResultInfo, opts VerboseOptions) error {
	verboseResult := buildVerboseResult(result)

	if opts.JSON {
		return writeVerboseJSON(verboseResult, opts.Writer)
	}
	return writeVerboseHuman(verboseResult, opts.Writer)
}

func buildVerboseResult(result *BuildResultInfo) *VerboseResult {
	vr := &VerboseResult{
		Project: VerboseProject{
			Name:       result.ProjectName,
			Components: result.ProjectComponents,
			Features:   result.ProjectFeatures,
		},
		Blueprint: VerboseBlueprintMatches{
			Matches:   make(map[string][]VerboseMatch),
			Unmatched: result.Unmatched,
		},
		Tasks:    make([]VerboseTask, 0, len(result.Tasks)),
		Warnings: result.Warnings,
	}

	for target, matches := range result.Matches {
		for _, m := range matches {
			vr.Blueprint.Matches[target] = append(vr.Blueprint.Matches[target], VerboseMatch{
				Blueprint: m.Blueprint,
				Reason:    m.Reason,
			})
		}
	}

	for _, task := range result.Tasks {
		vr.Tasks = append(vr.Tasks, VerboseTask{
			Target:   task.Target,
			Command:  task.Command,
			Status:   task.Status,
			Duration: task.Duration,
		})
	}

	for _, err := range result.Errors {
		vr.Errors = append(vr.Errors, redactSensitive(err.Error()))
	}

	return vr
}

func writeVerboseJSON(result *VerboseResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeVerboseHuman(result *VerboseResult, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Project:\n")
	sb.WriteString(fmt.Sprintf("  Name:       %s\n", result.Project.Name))
	if len(result.Project.Components) > 0 {
		sb.WriteString(fmt.Sprintf("  Components: %s\n", strings.Join(result.Project.Components, ", ")))
	}
	if len(result.Project.Features) > 0 {
		sb.WriteString(fmt.Sprintf("  Features:   %s\n", strings.Join(result.Project.Features, ", ")))
	}
	sb.WriteString("\n")

	sb.WriteString("Blueprint Matching:\n")
	for target, matches := range result.Blueprint.Matches {
		sb.WriteString(fmt.Sprintf("  %s:\n", target))
		for _, m := range matches {
			sb.WriteString(fmt.Sprintf("    ✓ %s\n", m.Blueprint))
			if m.Reason != "" {
				sb.WriteString(fmt.Sprintf("      %s\n", m.Reason))
			}
		}
	}
	if len(result.Blueprint.Unmatched) > 0 {
		sb.WriteString("  Unmatched targets:\n")
		for _, target := range result.Blueprint.Unmatched {
			sb.WriteString(fmt.Sprintf("    ✗ %s\n", target))
		}
	}
	sb.WriteString("\n")

	if len(result.Tasks) > 0 {
		sb.WriteString("Tasks:\n")
		for _, task := range result.Tasks {
			sb.WriteString(fmt.Sprintf("  %s %s [%s]", task.Target, task.Command, task.Status))
			if task.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", task.Duration))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
		}
		sb.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range result.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", e))
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// redactSensitive keeps error text as-is but is the hook point for masking
// credentials (e.g. registry tokens) if a future command surfaces them.
func redactSensitive(s string) string {
	return s
}
