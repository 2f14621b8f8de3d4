// Package fmftree reads fmf metadata trees from a checked-out repository.
//
// It implements the subset of the fmf format needed for named lookups:
// node names derived from file paths, data inheritance from parent
// directories, "key+" merge suffixes, and virtual child nodes defined by
// "/"-prefixed keys. Discovery filters and adjust rules are out of scope.
package fmftree

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const fmfExt = ".fmf"

// Tree is an in-memory index of fmf nodes, addressable by "/"-rooted name.
type Tree struct {
	root  string
	nodes map[string]map[string]any
}

// fmfFile is one parsed metadata file before inheritance resolution.
type fmfFile struct {
	name string // node name derived from the file path
	dir  string // slash-separated directory relative to the tree root
	main bool   // true for main.fmf files, which name their directory
	data map[string]any
}

// Load reads the fmf tree rooted at dir. The directory must carry an
// .fmf/version marker, like any fmf metadata root.
func Load(dir string) (*Tree, error) {
	if _, err := os.Stat(filepath.Join(dir, ".fmf", "version")); err != nil {
		return nil, fmt.Errorf("no fmf metadata found in %q", dir)
	}

	files, err := collectFiles(dir)
	if err != nil {
		return nil, err
	}

	tree := &Tree{root: dir, nodes: make(map[string]map[string]any)}

	// Index main.fmf data per directory so inheritance can walk the
	// ancestor chain of any leaf.
	mains := make(map[string]map[string]any)
	for _, f := range files {
		if f.main {
			mains[f.dir] = f.data
		}
	}

	for _, f := range files {
		data := inherit(mains, f)
		tree.addNode(f.name, data)
	}

	return tree, nil
}

// Root returns the directory the tree was loaded from.
func (t *Tree) Root() string { return t.root }

// Find returns the resolved data of the named node.
func (t *Tree) Find(name string) (map[string]any, bool) {
	node, ok := t.nodes[name]
	return node, ok
}

// Names lists all node names in lexical order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.nodes))
	for name := range t.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// addNode registers a node, expanding "/"-prefixed keys into virtual
// children that inherit the remaining data.
func (t *Tree) addNode(name string, data map[string]any) {
	base := make(map[string]any)
	var childKeys []string
	for k, v := range data {
		if strings.HasPrefix(k, "/") {
			childKeys = append(childKeys, k)
			continue
		}
		base[k] = v
	}

	if len(childKeys) == 0 {
		t.nodes[name] = base
		return
	}

	// A node with virtual children is a branch; only the children are
	// addressable leaves.
	sort.Strings(childKeys)
	for _, key := range childKeys {
		childName := name + key
		if name == "/" {
			childName = key
		}
		childData, _ := data[key].(map[string]any)
		t.addNode(childName, merge(base, childData))
	}
}

// inherit resolves a file's data against the main.fmf data of each
// ancestor directory, root first.
func inherit(mains map[string]map[string]any, f fmfFile) map[string]any {
	resolved := make(map[string]any)

	chain := []string{"."}
	if f.dir != "." {
		parts := strings.Split(f.dir, "/")
		for i := range parts {
			chain = append(chain, strings.Join(parts[:i+1], "/"))
		}
	}
	for _, dir := range chain {
		if f.main && dir == f.dir {
			continue // own data is merged last, below
		}
		if main, ok := mains[dir]; ok {
			resolved = merge(resolved, main)
		}
	}

	return merge(resolved, f.data)
}

// merge applies child data over parent data. A "key+" suffix appends to or
// extends the inherited value instead of replacing it.
func merge(parent, child map[string]any) map[string]any {
	out := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		name, add := strings.CutSuffix(k, "+")
		if !add {
			out[k] = v
			continue
		}
		out[name] = combine(out[name], v)
	}
	return out
}

// combine implements the fmf "+" suffix: concatenate lists and strings,
// merge maps, sum numbers. Mismatched types fall back to the child value.
func combine(base, add any) any {
	if base == nil {
		return add
	}
	switch b := base.(type) {
	case []any:
		if a, ok := add.([]any); ok {
			return append(append([]any{}, b...), a...)
		}
		return append(append([]any{}, b...), add)
	case string:
		if a, ok := add.(string); ok {
			return b + a
		}
	case int:
		if a, ok := add.(int); ok {
			return b + a
		}
	case map[string]any:
		if a, ok := add.(map[string]any); ok {
			return merge(b, a)
		}
	}
	return add
}

func collectFiles(root string) ([]fmfFile, error) {
	var files []fmfFile

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == ".fmf" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != fmfExt {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		data, readErr := readFmfFile(p)
		if readErr != nil {
			return fmt.Errorf("parse %s: %w", rel, readErr)
		}

		files = append(files, fmfFile{
			name: nodeName(rel),
			dir:  path.Dir(rel),
			main: strings.TrimSuffix(path.Base(rel), fmfExt) == "main",
			data: data,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk fmf tree: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

// nodeName derives the "/"-rooted node name from a relative file path.
// "main.fmf" names its directory; other files name themselves.
func nodeName(rel string) string {
	trimmed := strings.TrimSuffix(rel, fmfExt)
	dir, base := path.Split(trimmed)
	dir = strings.TrimSuffix(dir, "/")
	if base == "main" {
		if dir == "" {
			return "/"
		}
		return "/" + dir
	}
	if dir == "" {
		return "/" + base
	}
	return "/" + dir + "/" + base
}

func readFmfFile(p string) (map[string]any, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
