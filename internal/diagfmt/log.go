package diagfmt

import (
	"fmt"
	"io"
	"os"

	"missionreview/internal/diag"
)

// Log writes one annotation record per diagnostic.
func Log(w io.Writer, bag *diag.Bag) (int, error) {
	return diag.WriteRecords(w, bag.Items())
}

// WriteLog replaces the file at path with the annotation log of bag and
// returns the number of records written.
func WriteLog(path string, bag *diag.Bag) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Log(f, bag)
}
