package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteVerboseHuman_Tasks(t *testing.T) {
	result := &BuildResultInfo{
		ProjectName:       "test-project",
		ProjectComponents: []string{"app"},
		ProjectFeatures:   []string{"release"},
		Matches: map[string][]MatchInfo{
			"build/app/main.o": {
				{Blueprint: "*.o", Reason: "matched regex .*\\.o$"},
			},
		},
		Tasks: []TaskInfo{
			{Target: "build/app/main.o", Command: "build", Status: "ran", Duration: "1.2s"},
			{Target: "build/app/app.elf", Command: "build", Status: "cached"},
		},
	}

	var buf bytes.Buffer
	err := writeVerboseHuman(buildVerboseResult(result), &buf)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Project:")
	assert.Contains(t, out, "test-project")
	assert.Contains(t, out, "Blueprint Matching:")
	assert.Contains(t, out, "build/app/main.o")
	assert.Contains(t, out, "Tasks:")
	assert.Contains(t, out, "ran")
	assert.Contains(t, out, "cached")
}

func TestWriteVerboseHuman_Unmatched(t *testing.T) {
	result := &BuildResultInfo{
		ProjectName: "test-project",
		Unmatched:   []string{"build/app/unknown.bin"},
	}

	var buf bytes.Buffer
	err := writeVerboseHuman(buildVerboseResult(result), &buf)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Unmatched targets:")
	assert.Contains(t, out, "build/app/unknown.bin")
}

func TestWriteVerboseJSON(t *testing.T) {
	result := &BuildResultInfo{
		ProjectName: "test-project",
		Tasks: []TaskInfo{
			{Target: "t", Command: "build", Status: "ran"},
		},
	}

	var buf bytes.Buffer
	err := writeVerboseJSON(buildVerboseResult(result), &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"project"`)
	assert.Contains(t, buf.String(), `"tasks"`)
}
