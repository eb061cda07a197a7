package rules

import (
	"fmt"
	"strconv"
	"strings"

	"missionreview/internal/ast"
	"missionreview/internal/diag"
	"missionreview/internal/engine"
	"missionreview/internal/source"
)

// Players counts playable units and compares the count with the number
// encoded in the mission folder name. When contractors are required every
// playable unit must also use the contractor class and description.
type Players struct {
	cfg                Config
	expected           int
	requireContractors bool

	count    int
	messages []diag.Diagnostic
}

func NewPlayers(cfg Config, expected int, requireContractors bool) *Players {
	return &Players{cfg: cfg, expected: expected, requireContractors: requireContractors}
}

// ExpectedPlayers reads the player count from a folder name such as
// "CO30_Brett_Harmonics": the digits of the part before the first '_'.
// It returns 1 when there are none.
func ExpectedPlayers(dirName string) int {
	prefix, _, found := strings.Cut(dirName, "_")
	if !found {
		return 1
	}
	var digits strings.Builder
	for _, r := range prefix {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 1
	}
	return n
}

func (p *Players) Name() string { return "players" }

func (p *Players) OnEntity(ctx *engine.Context, entity *ast.Class, dataType string) error {
	if dataType != "Object" {
		return nil
	}
	attrs := ast.GetClass(entity, "Attributes")
	if playable, _, ok := ast.GetNumber(attrs, "isPlayable"); !ok || playable != 1 {
		return nil
	}
	p.count++
	if !p.requireContractors {
		return nil
	}

	if desc, span, ok := ast.GetString(attrs, "description"); ok && desc != p.cfg.ContractorDescription {
		if err := p.add(ctx, span, fmt.Sprintf("Player description should be '%s'", p.cfg.ContractorDescription)); err != nil {
			return err
		}
	}
	if class, span, ok := ast.GetString(entity, "type"); ok && class != p.cfg.ContractorClass {
		if err := p.add(ctx, span, fmt.Sprintf("Player class should be '%s'", p.cfg.ContractorClass)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Players) add(ctx *engine.Context, span source.Span, msg string) error {
	d, err := ctx.Diagnostic(span, diag.LevelError, msg)
	if err != nil {
		return err
	}
	p.messages = append(p.messages, d)
	return nil
}

func (p *Players) Finalize(ctx *engine.Context) ([]diag.Diagnostic, error) {
	out := p.messages
	if p.count != p.expected {
		d, err := ctx.Diagnostic(source.Span{}, diag.LevelError, fmt.Sprintf("Expected %d players, found %d", p.expected, p.count))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
