package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phuong808/Pathfinity/models/roadmap"
)

// LoadTemplates reads every *.json pathway template under dir. Files are
// read in name order so catalog order (and therefore match tie-breaking) is
// stable across runs.
func LoadTemplates(dir string) ([]roadmap.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	templates := make([]roadmap.Template, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		var tpl roadmap.Template
		if err := json.Unmarshal(data, &tpl); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// MatchTemplate resolves a free-text program name to one template. After
// lower-casing and trimming both sides, three policies are tried in order:
// exact equality, template name contains the input, input contains the
// template name. Within each policy the first matching template in catalog
// order wins, and an exact match anywhere in the catalog beats a containment
// match. No match returns nil.
func MatchTemplate(program string, templates []roadmap.Template) *roadmap.Template {
	want := strings.ToLower(strings.TrimSpace(program))
	if want == "" {
		return nil
	}
	policies := []func(have string) bool{
		func(have string) bool { return have == want },
		func(have string) bool { return strings.Contains(have, want) },
		func(have string) bool { return strings.Contains(want, have) },
	}
	for _, match := range policies {
		for i := range templates {
			have := strings.ToLower(strings.TrimSpace(templates[i].ProgramName))
			if have == "" {
				continue
			}
			if match(have) {
				return &templates[i]
			}
		}
	}
	return nil
}
