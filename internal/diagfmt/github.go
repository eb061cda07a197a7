package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"missionreview/internal/diag"
)

var (
	ghDataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	ghPropertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// GitHub prints one workflow command per diagnostic, the format the
// Actions runner turns into file annotations. Columns are only given for
// single-line ranges; the runner ignores them otherwise.
func GitHub(w io.Writer, bag *diag.Bag) error {
	for _, d := range bag.Items() {
		props := []string{
			"file=" + ghPropertyEscaper.Replace(filepath.ToSlash(d.Path)),
			fmt.Sprintf("line=%d", d.StartLine),
			fmt.Sprintf("endLine=%d", d.EndLine),
		}
		if d.StartLine == d.EndLine {
			props = append(props,
				fmt.Sprintf("col=%d", d.StartColumn),
				fmt.Sprintf("endColumn=%d", d.EndColumn),
			)
		}
		if d.Title != "" {
			props = append(props, "title="+ghPropertyEscaper.Replace(d.Title))
		}
		if _, err := fmt.Fprintf(w, "::%s %s::%s\n", d.Level, strings.Join(props, ","), ghDataEscaper.Replace(d.Message)); err != nil {
			return err
		}
	}
	return nil
}
