package mission

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/engine"
	"missionreview/internal/rules"
	"missionreview/internal/source"
)

const (
	sqmName         = "mission.sqm"
	descriptionName = "description.ext"

	defaultTemplate = 2
)

// Mission types as stored in synixe_type.
const (
	TypeContract    = 0
	TypeSubContract = 1
	TypeTraining    = 2
	TypeSpecial     = 3
)

// Options configure a mission check.
type Options struct {
	Rules    rules.Config
	Briefing BriefingOptions
}

func DefaultOptions() Options {
	return Options{Rules: rules.DefaultConfig(), Briefing: DefaultBriefing()}
}

// Check reviews the mission folder at dir.
//
// Problems with the mission are returned as diagnostics. The error is
// reserved for failures that stop the review itself: an unreadable file
// while positioning a diagnostic, or a mission.sqm without entities
// (wrapping engine.ErrMissingEntities). Diagnostics gathered before such a
// failure are still returned.
func Check(ctx context.Context, dir string, opts Options) ([]diag.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fset := source.NewFileSet()
	r := &reporter{}

	sqm, ok := r.load(fset, filepath.Join(dir, sqmName), sqmName)
	if !ok {
		return r.result()
	}
	root, ok := r.load(fset, filepath.Join(dir, descriptionName), descriptionName)
	if !ok {
		return r.result()
	}
	cfg, ok := r.load(fset, filepath.Join(dir, "edit_me", descriptionName), descriptionName)
	if !ok {
		return r.result()
	}

	version := int32(defaultTemplate)
	if v, _, found := ast.GetNumber(root.doc, "synixe_template"); found {
		version = v
	}
	// Template folders ship the stock description and briefing.
	edited := !strings.HasPrefix(filepath.Base(dir), "TT")
	switch version {
	case 2:
		if edited {
			checkDescription(r, cfg)
		}
		checkTime(r, sqm, cfg)
	case 3:
		if edited {
			checkDescription(r, cfg)
			checkBriefing(r, dir, opts.Briefing)
		}
		checkTime(r, sqm, cfg)
	default:
		r.at(root, source.Span{}, diag.LevelError, fmt.Sprintf("Unknown synixe_template %d", version))
	}

	missionType, typeSpan, _ := ast.GetNumber(cfg.doc, "synixe_type")
	noVehicles, _, _ := ast.GetNumber(cfg.doc, "synixe_no_vehicles")
	set, known := ruleSet(dir, version, missionType, noVehicles == 1, opts.Rules)
	if !known {
		r.at(cfg, typeSpan, diag.LevelError, fmt.Sprintf("Unknown synixe_type %d", missionType))
	}
	if r.err != nil {
		return r.result()
	}
	if err := ctx.Err(); err != nil {
		return r.out, err
	}

	found, err := engine.Run(&engine.Context{Dir: dir, Path: sqm.path, Mapping: sqm.processed}, sqm.doc, set)
	r.out = append(r.out, found...)
	if err != nil {
		return r.out, fmt.Errorf("%s: %w", sqm.path, err)
	}
	return r.out, nil
}

// ruleSet builds fresh rules for one run. known is false for an
// unrecognised mission type, in which case only the type-independent rules
// are returned.
func ruleSet(dir string, version, missionType int32, noVehicles bool, cfg rules.Config) (set []engine.Rule, known bool) {
	players := rules.ExpectedPlayers(filepath.Base(dir))
	markers := version == 2

	known = true
	switch missionType {
	case TypeContract, TypeSubContract:
		set = append(set,
			rules.NewPlayers(cfg, players, true),
			rules.NewShops(cfg),
			rules.NewSpectator(cfg),
			rules.NewSpawners(rules.SpawnerOptions{Markers: markers, Expected: true, AcknowledgedLand: noVehicles}),
		)
	case TypeTraining:
		set = append(set,
			rules.NewPlayers(cfg, players, true),
			rules.NewShops(cfg),
			rules.NewSpawners(rules.SpawnerOptions{Markers: markers}),
		)
	case TypeSpecial:
		set = append(set,
			rules.NewSpawners(rules.SpawnerOptions{Markers: markers}),
			rules.NewPlayers(cfg, players, false),
		)
	default:
		known = false
	}
	for _, f := range cfg.Forbidden {
		set = append(set, rules.NewForbidden(f))
	}
	set = append(set, rules.NewTriggers(cfg))

	return slices.DeleteFunc(set, func(r engine.Rule) bool {
		return slices.Contains(cfg.Disable, r.Name())
	}), known
}
