package diag

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Separator joins the fields of a Record.
const Separator = "||"

const recordFields = 8

// Record serialises d as start_line||end_line||start_col||end_col||level||title||message||path
// without the trailing newline. Newlines and separators inside text fields are
// flattened so a record always stays on one line.
func (d Diagnostic) Record() string {
	var sb strings.Builder
	sb.Grow(64 + len(d.Message) + len(d.Path))
	sb.WriteString(strconv.FormatUint(uint64(d.StartLine), 10))
	sb.WriteString(Separator)
	sb.WriteString(strconv.FormatUint(uint64(d.EndLine), 10))
	sb.WriteString(Separator)
	sb.WriteString(strconv.FormatUint(uint64(d.StartColumn), 10))
	sb.WriteString(Separator)
	sb.WriteString(strconv.FormatUint(uint64(d.EndColumn), 10))
	sb.WriteString(Separator)
	sb.WriteString(d.Level.String())
	sb.WriteString(Separator)
	sb.WriteString(sanitize(d.Title))
	sb.WriteString(Separator)
	sb.WriteString(sanitize(d.Message))
	sb.WriteString(Separator)
	sb.WriteString(sanitize(d.Path))
	return sb.String()
}

// ParseRecord is the inverse of Record.
func ParseRecord(line string) (Diagnostic, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), Separator)
	if len(parts) != recordFields {
		return Diagnostic{}, fmt.Errorf("expected %d fields, got %d", recordFields, len(parts))
	}
	var nums [4]uint32
	for i := range nums {
		v, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return Diagnostic{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		nums[i] = uint32(v)
	}
	level, err := ParseLevel(parts[4])
	if err != nil {
		return Diagnostic{}, err
	}
	return Diagnostic{
		StartLine:   nums[0],
		EndLine:     nums[1],
		StartColumn: nums[2],
		EndColumn:   nums[3],
		Level:       level,
		Title:       parts[5],
		Message:     parts[6],
		Path:        parts[7],
	}, nil
}

// WriteRecords writes one record per line and returns how many were written.
func WriteRecords(w io.Writer, items []Diagnostic) (int, error) {
	bw := bufio.NewWriter(w)
	for i, d := range items {
		if _, err := bw.WriteString(d.Record()); err != nil {
			return i, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return i, err
		}
	}
	return len(items), bw.Flush()
}

// ReadRecords parses every non-empty line of r.
func ReadRecords(r io.Reader) ([]Diagnostic, error) {
	var out []Diagnostic
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		d, err := ParseRecord(line)
		if err != nil {
			return out, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, d)
	}
	return out, sc.Err()
}

func sanitize(s string) string {
	if !strings.ContainsAny(s, "\r\n|") {
		return s
	}
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, Separator, "| |")
}
