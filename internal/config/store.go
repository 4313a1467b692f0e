package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Option configures Load.
type Option func(*options)

type options struct {
	baseDir string
}

// WithBaseDir sets the directory the VERSION search starts from and the
// default logpath. It defaults to the directory of the running executable.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// Store holds the current settings snapshot. It is created once at process
// start and handed to every collaborator that needs configuration.
type Store struct {
	baseDir string
	fields  []field

	mu       sync.RWMutex
	settings Settings
}

// Load reads every setting from the environment and discovers the version.
func Load(opts ...Option) *Store {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.baseDir == "" {
		o.baseDir = defaultBaseDir()
	}

	st := &Store{
		baseDir: o.baseDir,
		fields:  fields(o.baseDir),
	}
	st.settings = st.read()
	return st
}

// Reload re-reads every setting and the version from the current
// environment, replacing the previous snapshot as a whole. Readers observe
// either the old or the new snapshot.
func (st *Store) Reload() {
	next := st.read()

	st.mu.Lock()
	st.settings = next
	st.mu.Unlock()
}

func (st *Store) read() Settings {
	var s Settings
	s.Version = FindVersion(st.baseDir)
	for _, f := range st.fields {
		f.apply(&s)
	}
	return s
}

// Settings returns a copy of the current snapshot.
func (st *Store) Settings() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.clone()
}

// BaseURL computes the base url from the current snapshot.
func (st *Store) BaseURL() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.BaseURL()
}

// Version returns the version discovered by the last Load or Reload.
func (st *Store) Version() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.Version
}

// Table describes every setting the store reads, in load order.
func (st *Store) Table() []Setting {
	out := make([]Setting, len(st.fields))
	for i, f := range st.fields {
		out[i] = f.Setting
	}
	return out
}

// Lookup returns the current value of the setting named by its environment
// variable.
func (st *Store) Lookup(name string) (any, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, f := range st.fields {
		if f.Name == name {
			return f.value(&st.settings), true
		}
	}
	return nil, false
}

// WriteYAML writes the non-secret settings to w as a YAML mapping in load
// order.
func (st *Store) WriteYAML(w io.Writer) error {
	s := st.Settings()

	doc := &yaml.Node{Kind: yaml.MappingNode}
	appendPair := func(key string, value any) error {
		var node yaml.Node
		if err := node.Encode(value); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &node)
		return nil
	}

	if err := appendPair("version", s.Version); err != nil {
		return err
	}
	for _, f := range st.fields {
		if f.Secret {
			continue
		}
		if err := appendPair(f.Name, f.value(&s)); err != nil {
			return err
		}
	}
	if err := appendPair("baseurl", s.BaseURL()); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write YAML: %w", err)
	}
	return enc.Close()
}

func defaultBaseDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
