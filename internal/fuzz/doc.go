// Package fuzztests houses Go fuzz harnesses for the config-file front end
// (preprocessor -> lexer -> parser). They guard against panics, hangs and
// broken span invariants on arbitrary mission.sqm and description.ext input.
//
// Не делает: генерацию корпусов, запуск правил, выполнение CLI.
//
// Зависимости: internal/source, internal/preproc, internal/lexer,
// internal/parser, internal/testkit.

package fuzztests
