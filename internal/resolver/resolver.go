// Package resolver implements the fixed-point closure algorithm that
// turns an initial set of components, features, and commands into a
// frozen set of required components, required features, and answered
// choices.
package resolver

import (
	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/manifest"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// Database is the subset of workspace.Database the resolver depends
// on, so tests can substitute an in-memory fake.
type Database interface {
	Load(id string) (*manifest.Manifest, error)
	Rescan() error
}

var _ Database = (*workspace.Database)(nil)

// Choice is a resolved choice: the declaring component, the listed
// options, and the default to seed if nothing else selects it.
type Choice struct {
	Name       string
	Parent     string
	Features   []string
	Components []string
	Default    *manifest.Choice
}

// Result is the frozen output of a successful resolve.
type Result struct {
	RequiredComponents []string
	RequiredFeatures   []string
	Components         map[string]*manifest.Manifest
	Choices            map[string]*Choice
	Replacements       map[string]string // replaced id -> replacement id
}

// Resolver runs the fixed-point closure over a workspace database.
type Resolver struct {
	db Database

	initialComponents []string
	initialFeatures   []string

	// uc/uf are the unprocessed-components/-features worklists, drained
	// and replenished during evaluateDependencies.
	uc []string
	uf []string

	requiredComponents map[string]bool
	requiredFeatures   map[string]bool
	components         map[string]*manifest.Manifest
	unprocessedChoices map[string]bool
	choices            map[string]*Choice
	replacements       map[string]string

	unknownComponents map[string]bool
	refreshed         bool
}

// New builds a Resolver seeded with the initial components and features.
func New(db Database, initialComponents, initialFeatures []string) *Resolver {
	return &Resolver{
		db:                db,
		initialComponents: initialComponents,
		initialFeatures:   initialFeatures,
		replacements:      map[string]string{},
		unknownComponents: map[string]bool{},
	}
}

type evalState int

const (
	stateDone evalState = iota
	stateRestart
	stateUnknown
)

// Resolve runs the closure to completion and returns the frozen result,
// or a fatal error per the resolver's failure modes.
func (r *Resolver) Resolve() (*Result, error) {
	r.reset()

	for {
		state, err := r.evaluateDependencies()
		if err != nil {
			return nil, err
		}

		switch state {
		case stateRestart:
			r.reset()
		case stateUnknown:
			if r.refreshed {
				return nil, errors.NewUnknownComponentError(firstOf(r.unknownComponents))
			}
			r.refreshed = true
			if err := r.db.Rescan(); err != nil {
				return nil, err
			}
			for id := range r.unknownComponents {
				r.uc = append(r.uc, id)
			}
			r.unknownComponents = map[string]bool{}
		case stateDone:
			return r.finalize()
		}
	}
}

func (r *Resolver) reset() {
	r.requiredComponents = map[string]bool{}
	r.requiredFeatures = map[string]bool{}
	r.components = map[string]*manifest.Manifest{}
	r.unprocessedChoices = map[string]bool{}
	r.choices = map[string]*Choice{}
	r.uc = append([]string{}, r.initialComponents...)
	r.uf = append([]string{}, r.initialFeatures...)
}

func firstOf(set map[string]bool) string {
	for k := range set {
		return k
	}
	return ""
}
