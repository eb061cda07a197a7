package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"missionreview/internal/source"
	"missionreview/internal/token"
)

type TokenOutput struct {
	Kind  string         `json:"kind"`
	Text  string         `json:"text,omitempty"`
	Start source.LineCol `json:"start"`
	End   source.LineCol `json:"end"`
}

// FormatTokensPretty выводит токены построчно, до EOF включительно.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%4d: %-12s", i+1, tok.Kind); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		output = append(output, TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Start: start, End: end})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
