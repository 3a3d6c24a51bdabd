package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anvilerrors "github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/manifest"
)

type fakeDB struct {
	manifests map[string]string // id -> yaml
	rescanned int
}

func newFakeDB(manifests map[string]string) *fakeDB {
	return &fakeDB{manifests: manifests}
}

func (f *fakeDB) Load(id string) (*manifest.Manifest, error) {
	y, ok := f.manifests[id]
	if !ok {
		return nil, nil
	}
	return manifest.Parse([]byte(y), "/ws/"+id, "")
}

func (f *fakeDB) Rescan() error {
	f.rescanned++
	return nil
}

func TestResolve_SimpleClosure(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": "id: A\nrequires:\n  components: [B]\n",
		"B": "id: B\nrequires:\n  features: [f]\n",
		"C": "id: C\nprovides:\n  features: [f]\n",
	})

	res := New(db, []string{"A", "C"}, nil)
	result, err := res.Resolve()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A", "B", "C"}, result.RequiredComponents)
	assert.ElementsMatch(t, []string{"f"}, result.RequiredFeatures)
}

func TestResolve_ChoiceDefaultSelected(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": `
id: A
choices:
  c:
    features: [f1, f2]
    default:
      feature: f1
`,
	})

	res := New(db, []string{"A"}, nil)
	result, err := res.Resolve()
	require.NoError(t, err)

	assert.Contains(t, result.RequiredFeatures, "f1")
	require.Contains(t, result.Choices, "c")
}

func TestResolve_TwoProvidersOfSameFeature_Tolerated(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": "id: A\nprovides:\n  features: [x]\n",
		"B": "id: B\nprovides:\n  features: [x]\n",
	})

	res := New(db, []string{"A", "B"}, nil)
	result, err := res.Resolve()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, result.RequiredComponents)
}

func TestResolve_MultipleReplacementsFails(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": "id: A\nreplaces:\n  component: K\n",
		"B": "id: B\nreplaces:\n  component: K\n",
	})

	res := New(db, []string{"A", "B"}, nil)
	_, err := res.Resolve()
	assert.ErrorIs(t, err, anvilerrors.ErrMultipleReplacements)
}

func TestResolve_ReplacementRestartsAndExcludesReplaced(t *testing.T) {
	db := newFakeDB(map[string]string{
		"legacy": "id: legacy\nrequires:\n  features: [f]\n",
		"new":    "id: new\nreplaces:\n  component: legacy\nprovides:\n  features: [f]\n",
		"caller": "id: caller\nrequires:\n  components: [legacy, new]\n",
	})

	res := New(db, []string{"caller"}, nil)
	result, err := res.Resolve()
	require.NoError(t, err)

	assert.NotContains(t, result.RequiredComponents, "legacy")
	assert.Contains(t, result.RequiredComponents, "new")
}

func TestResolve_UnknownComponentTriggersOneRescanThenFails(t *testing.T) {
	db := newFakeDB(map[string]string{})

	res := New(db, []string{"ghost"}, nil)
	_, err := res.Resolve()
	assert.Error(t, err)
	assert.Equal(t, 1, db.rescanned)
}

func TestResolve_IncompleteChoiceFails(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": "id: A\nchoices:\n  c:\n    features: [f1, f2]\n",
	})

	res := New(db, []string{"A"}, nil)
	_, err := res.Resolve()
	assert.Error(t, err)
}

func TestResolve_MultipleAnswerChoiceFails(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": "id: A\nchoices:\n  c:\n    features: [f1, f2]\n",
		"B": "id: B\nprovides:\n  features: [f1]\n",
		"C": "id: C\nprovides:\n  features: [f2]\n",
	})

	res := New(db, []string{"A", "B", "C"}, nil)
	_, err := res.Resolve()
	assert.Error(t, err)
}

func TestResolve_SupportsFeatureMergesIntoComponent(t *testing.T) {
	db := newFakeDB(map[string]string{
		"driver": `
id: driver
supports:
  features:
    power_save:
      requires:
        components: [pm]
`,
		"pm": "id: pm\n",
	})

	res := New(db, []string{"driver"}, []string{"power_save"})
	result, err := res.Resolve()
	require.NoError(t, err)
	assert.Contains(t, result.RequiredComponents, "pm")
}

func TestResolve_Idempotent(t *testing.T) {
	db := newFakeDB(map[string]string{
		"A": "id: A\nrequires:\n  components: [B]\n",
		"B": "id: B\n",
	})

	res1 := New(db, []string{"A"}, nil)
	r1, err := res1.Resolve()
	require.NoError(t, err)

	res2 := New(db, []string{"A"}, nil)
	r2, err := res2.Resolve()
	require.NoError(t, err)

	assert.Equal(t, r1.RequiredComponents, r2.RequiredComponents)
	assert.Equal(t, r1.RequiredFeatures, r2.RequiredFeatures)
}
