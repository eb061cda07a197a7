package lexer

import (
	"missionreview/internal/source"
)

// Reporter: тонкий интерфейс, чтобы не тянуть diag сюда.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil
}

func (lx *Lexer) report(kind string, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}
