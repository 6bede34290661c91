// Package schemas holds the JSON Schemas request bodies are validated against.
package schemas

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed *.json
var files embed.FS

const (
	Register      = "register"
	Login         = "login"
	SwapCreate    = "swap_create"
	SwapStatus    = "swap_status"
	Rating        = "rating"
	Skill         = "skill"
	ProfileUpdate = "profile_update"
	Ban           = "ban"
	AdminFlag     = "admin_flag"
	Message       = "message"
)

// Loader keeps the compiled schemas by name.
type Loader struct {
	cache map[string]*jsonschema.Schema
}

// Load compiles every embedded schema.
func Load() (*Loader, error) {
	return LoadFS(files)
}

// LoadFS compiles every *.json file at the root of fsys, keyed by file name without extension.
func LoadFS(fsys fs.FS) (*Loader, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	l := &Loader{cache: make(map[string]*jsonschema.Schema)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		l.cache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return l, nil
}

// Names lists the loaded schemas, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.cache))
	for n := range l.cache {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ValidationError lists the schema violations of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validate checks data against the named schema. Violations are returned as *ValidationError.
func (l *Loader) Validate(ctx context.Context, name string, data []byte) error {
	rs, ok := l.cache[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if !json.Valid(data) {
		return &ValidationError{Problems: []string{"invalid JSON body"}}
	}
	keyErrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if len(keyErrs) == 0 {
		return nil
	}
	problems := make([]string, 0, len(keyErrs))
	for _, ke := range keyErrs {
		field := strings.TrimPrefix(ke.PropertyPath, "/")
		if field == "" {
			problems = append(problems, ke.Message)
			continue
		}
		problems = append(problems, field+": "+ke.Message)
	}
	return &ValidationError{Problems: problems}
}
