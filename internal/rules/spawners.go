package rules

import (
	"fmt"
	"strings"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/engine"
	"missionreview/internal/source"
)

// SpawnerKind is the vehicle category a garage spawner serves.
type SpawnerKind uint8

const (
	SpawnLand SpawnerKind = iota
	SpawnAir
	SpawnSea
	SpawnThing
	spawnKinds
)

var spawnerNames = [spawnKinds]string{"land", "air", "sea", "thing"}

func (k SpawnerKind) String() string {
	if k < spawnKinds {
		return spawnerNames[k]
	}
	return fmt.Sprintf("SpawnerKind(%d)", k)
}

var spawnerSizes = []string{"large", "medium", "small"}

// SpawnerOptions selects which spawner form to look for and whether
// spawners belong on the mission at all.
type SpawnerOptions struct {
	// Markers switches to the legacy marker form (spawn_land and friends);
	// otherwise garage objects are expected.
	Markers bool
	// Expected is true for mission types that ship vehicles.
	Expected bool
	// AcknowledgedLand marks a mission without vehicles: neither the land
	// nor the thing spawner is required.
	AcknowledgedLand bool
}

// Spawners records which garage spawner kinds a mission contains.
type Spawners struct {
	opts SpawnerOptions
	seen [spawnKinds]bool
}

func NewSpawners(opts SpawnerOptions) *Spawners {
	return &Spawners{opts: opts}
}

func (s *Spawners) Name() string { return "spawners" }

func (s *Spawners) OnEntity(_ *engine.Context, entity *ast.Class, dataType string) error {
	if kind, ok := s.classify(entity, dataType); ok {
		s.seen[kind] = true
	}
	return nil
}

func (s *Spawners) classify(entity *ast.Class, dataType string) (SpawnerKind, bool) {
	if s.opts.Markers {
		if dataType != "Marker" {
			return 0, false
		}
		name, _, ok := ast.GetString(entity, "name")
		if !ok {
			return 0, false
		}
		for k := SpawnerKind(0); k < spawnKinds; k++ {
			if name == "spawn_"+spawnerNames[k] {
				return k, true
			}
		}
		return 0, false
	}

	if dataType != "Object" {
		return 0, false
	}
	class, _, ok := ast.GetString(entity, "type")
	if !ok {
		return 0, false
	}
	rest, ok := strings.CutPrefix(class, "crate_client_garage_")
	if !ok {
		return 0, false
	}
	for k := SpawnerKind(0); k < spawnKinds; k++ {
		for _, size := range spawnerSizes {
			if rest == spawnerNames[k]+"_"+size {
				return k, true
			}
		}
	}
	return 0, false
}

func (s *Spawners) Finalize(ctx *engine.Context) ([]diag.Diagnostic, error) {
	var msgs []string
	if s.opts.Expected {
		if !s.seen[SpawnLand] && !s.opts.AcknowledgedLand {
			msgs = append(msgs, "No land spawner found")
		}
		if !s.seen[SpawnThing] && !s.opts.AcknowledgedLand {
			msgs = append(msgs, "No thing spawner found")
		}
	} else {
		for k := SpawnerKind(0); k < spawnKinds; k++ {
			if s.seen[k] {
				name := spawnerNames[k]
				msgs = append(msgs, fmt.Sprintf("%s%s spawner found, but spawners are not allowed on this mission type",
					strings.ToUpper(name[:1]), name[1:]))
			}
		}
	}

	out := make([]diag.Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		d, err := ctx.Diagnostic(source.Span{}, diag.LevelError, m)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
