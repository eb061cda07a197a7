package engine

import (
	"missionreview/internal/ast"
	"missionreview/internal/diag"
)

// Rule is the minimal contract: a name and a finalizer.
type Rule interface {
	Name() string
	Finalize(ctx *Context) ([]diag.Diagnostic, error)
}

// EntityRule observes every entity during the first phase.
type EntityRule interface {
	Rule
	OnEntity(ctx *Context, entity *ast.Class, dataType string) error
}

// LinkRule observes every link during the second phase.
type LinkRule interface {
	Rule
	OnLink(ctx *Context, link *ast.Class) error
}
