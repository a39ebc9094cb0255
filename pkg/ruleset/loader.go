// Package ruleset loads named needle sets from YAML, the persisted unit
// the CLI and run store manage. It knows nothing about matching; it
// only produces types.NeedleSet values for automaton.Build to consume.
package ruleset

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/streamsed/streamsed/pkg/types"
)

//go:embed sets/*.yml
var builtinSetsFS embed.FS

// Loader reads needle sets from YAML bytes, files, or an embedded
// filesystem of builtins.
type Loader struct {
	fs fs.FS
}

// NewLoader returns a loader backed by the embedded builtin sets.
func NewLoader() *Loader {
	return &Loader{fs: builtinSetsFS}
}

// NewLoaderWithFS returns a loader backed by a custom filesystem, for
// tests or alternate builtin-set distributions.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// LoadSet parses a single needle set from YAML bytes.
func (l *Loader) LoadSet(data []byte) (types.NeedleSet, error) {
	var f yamlNeedleSetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.NeedleSet{}, fmt.Errorf("streamsed: parsing needle-set YAML: %w", err)
	}
	return convertSet(f)
}

// LoadSetFile parses a single needle set from a YAML file path.
func (l *Loader) LoadSetFile(path string) (types.NeedleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.NeedleSet{}, fmt.Errorf("streamsed: reading needle-set file %s: %w", path, err)
	}
	return l.LoadSet(data)
}

// LoadBuiltinSets loads every *.yml file under the loader's embedded
// filesystem, returning one NeedleSet per file.
func (l *Loader) LoadBuiltinSets() ([]types.NeedleSet, error) {
	var sets []types.NeedleSet

	err := fs.WalkDir(l.fs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}
		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("streamsed: reading builtin set %s: %w", path, err)
		}
		set, err := l.LoadSet(data)
		if err != nil {
			return fmt.Errorf("streamsed: parsing builtin set %s: %w", path, err)
		}
		sets = append(sets, set)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// LoadBuiltinSet loads a single builtin set by name.
func (l *Loader) LoadBuiltinSet(name string) (types.NeedleSet, error) {
	sets, err := l.LoadBuiltinSets()
	if err != nil {
		return types.NeedleSet{}, err
	}
	for _, s := range sets {
		if s.Name == name {
			return s, nil
		}
	}
	return types.NeedleSet{}, fmt.Errorf("streamsed: no builtin needle set named %q", name)
}

func convertSet(f yamlNeedleSetFile) (types.NeedleSet, error) {
	set := types.NeedleSet{Name: f.Name, Needles: make([]types.Needle, 0, len(f.Needles))}
	for i, yn := range f.Needles {
		if yn.Pattern == "" {
			return types.NeedleSet{}, fmt.Errorf("streamsed: needle %d: empty pattern", i)
		}
		switch {
		case yn.Replace != nil && yn.Elide:
			return types.NeedleSet{}, fmt.Errorf("streamsed: needle %d (%q): specify either replace or elide, not both", i, yn.Pattern)
		case yn.Replace != nil:
			set.Needles = append(set.Needles, types.Needle{
				Pattern: []byte(yn.Pattern),
				Action:  types.Replace([]byte(*yn.Replace)),
			})
		case yn.Elide:
			set.Needles = append(set.Needles, types.Needle{
				Pattern: []byte(yn.Pattern),
				Action:  types.Elide(),
			})
		default:
			return types.NeedleSet{}, fmt.Errorf("streamsed: needle %d (%q): must specify either replace or elide", i, yn.Pattern)
		}
	}
	return set, nil
}

// FilterConfig narrows a slice of needle sets by name using an
// include-then-exclude regex filtering style.
type FilterConfig struct {
	Include []string
	Exclude []string
}

// Filter applies include/exclude regex patterns against each set's Name.
// Empty Include means "include all".
func Filter(sets []types.NeedleSet, cfg FilterConfig) ([]types.NeedleSet, error) {
	include, err := compileAll(cfg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	out := sets
	if len(include) > 0 {
		out = filterBy(out, include, true)
	}
	if len(exclude) > 0 {
		out = filterBy(out, exclude, false)
	}
	return out, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var res []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("streamsed: invalid filter pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

func filterBy(sets []types.NeedleSet, regexes []*regexp.Regexp, keepMatching bool) []types.NeedleSet {
	out := make([]types.NeedleSet, 0, len(sets))
	for _, s := range sets {
		matched := false
		for _, re := range regexes {
			if re.MatchString(s.Name) {
				matched = true
				break
			}
		}
		if matched == keepMatching {
			out = append(out, s)
		}
	}
	return out
}
