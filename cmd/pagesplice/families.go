package main

import (
	"errors"
	"fmt"
	"strings"

	pagesplice "github.com/alnah/go-pagesplice"
	"github.com/alnah/go-pagesplice/internal/config"
	"github.com/alnah/go-pagesplice/internal/fileutil"
	"github.com/alnah/go-pagesplice/internal/hints"
)

// defaultConfigName is searched when neither --config nor PAGESPLICE_CONFIG is set.
const defaultConfigName = "pagesplice"

// loadConfig resolves the config source (flag > env > default name),
// loads it and applies the root override (flag > env > file).
func loadConfig(configFlag, rootFlag string, env *envConfig) (*config.Config, error) {
	name := configFlag
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		name = defaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}

	switch {
	case rootFlag != "":
		cfg.Root = rootFlag
	case env.Root != "":
		cfg.Root = env.Root
	}
	return cfg, nil
}

// checkRoot fails when the document root is missing; nothing can be processed.
func checkRoot(cfg *config.Config) error {
	if !fileutil.DirExists(cfg.Root) {
		return fmt.Errorf("%w: %s%s", ErrRootNotFound, cfg.Root, hints.ForRootNotFound())
	}
	return nil
}

// selectFamilies returns the named families in the order given, or every
// family when names is empty.
func selectFamilies(cfg *config.Config, names []string) ([]*config.FamilyConfig, error) {
	if len(names) == 0 {
		out := make([]*config.FamilyConfig, len(cfg.Families))
		for i := range cfg.Families {
			out[i] = &cfg.Families[i]
		}
		return out, nil
	}

	out := make([]*config.FamilyConfig, 0, len(names))
	var unknown []string
	for _, name := range names {
		f, ok := cfg.Family(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, f)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s%s", ErrUnknownFamily, strings.Join(unknown, ", "), hints.ForFamilyNotFound(cfg.FamilyNames()))
	}
	return out, nil
}

// buildFamily converts a family's config into the engine's model.
func buildFamily(cfg *config.Config, fc *config.FamilyConfig) pagesplice.Family {
	f := pagesplice.Family{
		Name:      fc.Name,
		Dir:       cfg.FamilyDir(fc),
		Encoding:  cfg.FamilyEncoding(fc),
		Canonical: fc.Canonical,
		Output:    pagesplice.Output{Suffix: fc.Output.Suffix},
	}

	for _, d := range fc.Documents {
		f.Documents = append(f.Documents, pagesplice.DocumentRef{Path: d.Path, Active: d.Active})
	}

	for _, rs := range fc.Rules {
		set := pagesplice.RuleSet{
			Role:      rs.Role,
			Canonical: rs.Canonical,
			Required:  rs.Required,
		}
		for _, r := range rs.Rules {
			set.Rules = append(set.Rules, pagesplice.Rule{
				Name:        r.Name,
				Tags:        r.Tags,
				Attrs:       r.Attrs,
				Tokens:      r.Tokens,
				Pattern:     r.Pattern,
				Placeholder: r.Placeholder,
				Companion:   r.Companion,
				Priority:    r.Priority,
				Mode:        pagesplice.MatchMode(strings.ToLower(r.Mode)),
			})
		}
		f.RuleSets = append(f.RuleSets, set)
	}

	if fc.Reorder != nil {
		f.Reorder = buildReorder(fc.Reorder)
	}

	for _, s := range fc.Substitutions {
		f.Substitutions = append(f.Substitutions, pagesplice.Substitution{
			Name:     s.Name,
			Literal:  s.Literal,
			Pattern:  s.Pattern,
			Replace:  s.Replace,
			Unless:   s.Unless,
			Required: s.Required,
		})
	}

	return f
}

func buildReorder(rc *config.ReorderConfig) *pagesplice.Reorder {
	r := &pagesplice.Reorder{Name: rc.Name, Order: rc.Order}
	for _, m := range rc.Markers {
		r.Catalog = append(r.Catalog, pagesplice.Marker{Name: m.Name, Literal: m.Literal, Required: m.Required})
	}
	return r
}
