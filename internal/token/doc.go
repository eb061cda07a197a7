// Package token defines lexical token kinds for the config language used by
// mission.sqm and description.ext.
// Invariants:
//   - Token.Span offsets are character offsets into the preprocessed file.
//   - Token.Text is the raw source text of the token (quotes included for strings).
//   - Keywords are case-sensitive: only "class" and "delete" are reserved.
package token
