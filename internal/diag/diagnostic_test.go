package diag

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"missionreview/internal/source"
)

type fakeMapping map[uint32]source.LineCol

func (m fakeMapping) OriginalPosition(off uint32) (source.Position, bool) {
	lc, ok := m[off]
	return source.Position{Path: "mission.sqm", LineCol: lc}, ok
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mission.sqm")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestNewZeroSpanWithoutMapping(t *testing.T) {
	path := writeFile(t, "version=54;\nclass Mission {};\n")
	d, err := New(nil, path, source.Span{}, "unanchored", LevelWarning)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 1 || d.StartColumn != 1 || d.EndLine != 1 || d.EndColumn != 1 {
		t.Fatalf("expected 1:1-1:1, got %+v", d)
	}
	if d.Title != "" || d.Level != LevelWarning || d.Message != "unanchored" || d.Path != path {
		t.Fatalf("unexpected fields: %+v", d)
	}
}

func TestNewZeroSpanSkipsMapping(t *testing.T) {
	path := writeFile(t, "// header\nversion=54;\n")
	// processed offset 0 is "version" on line 2 of the original
	m := fakeMapping{0: {Line: 2, Col: 1}}
	d, err := New(m, path, source.Span{}, "unanchored", LevelError)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 1 || d.StartColumn != 1 || d.EndLine != 1 || d.EndColumn != 1 {
		t.Fatalf("expected 1:1-1:1, got %+v", d)
	}

	// a real span at offset 0 still goes through the mapping
	m[7] = source.LineCol{Line: 2, Col: 8}
	d, err = New(m, path, source.Span{Start: 0, End: 7}, "anchored", LevelError)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 2 || d.StartColumn != 1 || d.EndColumn != 8 {
		t.Fatalf("expected 2:1-2:8, got %+v", d)
	}
}

func TestNewUsesMappingWhenBothEndsResolve(t *testing.T) {
	m := fakeMapping{5: {Line: 3, Col: 2}, 12: {Line: 3, Col: 9}}
	// The path does not exist: a successful mapping never touches the disk.
	d, err := New(m, filepath.Join(t.TempDir(), "missing.sqm"), source.Span{Start: 5, End: 12}, "m", LevelError)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 3 || d.StartColumn != 2 || d.EndLine != 3 || d.EndColumn != 9 {
		t.Fatalf("expected 3:2-3:9, got %+v", d)
	}
}

func TestNewFallsBackWhenOneEndUnmapped(t *testing.T) {
	path := writeFile(t, "ab\ncdef\n")
	m := fakeMapping{3: {Line: 9, Col: 9}}
	d, err := New(m, path, source.Span{Start: 3, End: 6}, "m", LevelNotice)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 2 || d.StartColumn != 1 || d.EndLine != 2 || d.EndColumn != 4 {
		t.Fatalf("expected 2:1-2:4, got %+v", d)
	}
}

func TestNewFallbackCountsCharacters(t *testing.T) {
	path := writeFile(t, "ü=1;\nname=\"x\";")
	// offset 5 is 'n' on line 2
	d, err := New(nil, path, source.Span{Start: 5, End: 9}, "m", LevelNotice)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 2 || d.StartColumn != 1 || d.EndColumn != 5 {
		t.Fatalf("unexpected %+v", d)
	}
}

func TestNewFallbackPastEndStaysAtOrigin(t *testing.T) {
	path := writeFile(t, "abc")
	d, err := New(nil, path, source.Span{Start: 1, End: 50}, "m", LevelNotice)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartColumn != 2 || d.EndLine != 1 || d.EndColumn != 1 {
		t.Fatalf("unexpected %+v", d)
	}
}

func TestNewFallbackEndAtEOF(t *testing.T) {
	path := writeFile(t, "ab\ncd")
	d, err := New(nil, path, source.Span{Start: 3, End: 5}, "m", LevelNotice)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.StartLine != 2 || d.StartColumn != 1 || d.EndLine != 2 || d.EndColumn != 3 {
		t.Fatalf("expected 2:1-2:3, got %+v", d)
	}
}

func TestNewFallbackUnreadable(t *testing.T) {
	_, err := New(nil, filepath.Join(t.TempDir(), "gone.sqm"), source.Span{}, "m", LevelError)
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	d := Diagnostic{
		Path: "contracts/CO10_Test/mission.sqm", StartLine: 4, EndLine: 5, StartColumn: 2, EndColumn: 7,
		Level: LevelWarning, Title: "Trigger", Message: "Trigger not set to server only",
	}
	line := d.Record()
	want := "4||5||2||7||warning||Trigger||Trigger not set to server only||contracts/CO10_Test/mission.sqm"
	if line != want {
		t.Fatalf("Record() = %q, want %q", line, want)
	}
	back, err := ParseRecord(line + "\n")
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestRecordFlattensSeparators(t *testing.T) {
	d := Diagnostic{StartLine: 1, EndLine: 1, StartColumn: 1, EndColumn: 1, Message: "a||b\nc", Path: "p"}
	if _, err := ParseRecord(d.Record()); err != nil {
		t.Fatalf("record must stay parseable: %v (%q)", err, d.Record())
	}
}

func TestReadWriteRecords(t *testing.T) {
	items := []Diagnostic{
		{Path: "a", StartLine: 1, EndLine: 1, StartColumn: 1, EndColumn: 2, Level: LevelError, Message: "x"},
		{Path: "b", StartLine: 2, EndLine: 3, StartColumn: 1, EndColumn: 1, Level: LevelNotice, Message: "y"},
	}
	var sb strings.Builder
	n, err := WriteRecords(&sb, items)
	if err != nil || n != 2 {
		t.Fatalf("WriteRecords: %d %v", n, err)
	}
	got, err := ReadRecords(strings.NewReader(sb.String() + "\n"))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Fatalf("unexpected %+v", got)
	}
	if _, err := ReadRecords(strings.NewReader("1||2||3\n")); err == nil {
		t.Fatal("expected error for short record")
	}
}

func TestBagSortDedupFilter(t *testing.T) {
	b := NewBag(0)
	b.Add(Diagnostic{Path: "b", StartLine: 1, Level: LevelNotice, Message: "n"})
	b.Add(Diagnostic{Path: "a", StartLine: 2, Level: LevelWarning, Message: "w"})
	b.Add(Diagnostic{Path: "a", StartLine: 2, Level: LevelError, Message: "e"})
	b.Add(Diagnostic{Path: "a", StartLine: 2, Level: LevelError, Message: "e"})
	b.Sort()
	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", b.Len())
	}
	if b.Items()[0].Message != "e" || b.Items()[2].Path != "b" {
		t.Fatalf("unexpected order %+v", b.Items())
	}
	if !b.HasErrors() {
		t.Fatal("expected errors")
	}
	b.Filter(func(d Diagnostic) bool { return d.Level != LevelError })
	if b.HasErrors() || b.Len() != 2 {
		t.Fatalf("filter failed: %+v", b.Items())
	}
	b.Promote()
	if !b.HasErrors() || b.Count()[LevelNotice] != 1 {
		t.Fatalf("promote failed: %+v", b.Items())
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if n := b.AddAll([]Diagnostic{{Message: "1"}, {Message: "2"}}); n != 1 {
		t.Fatalf("expected 1 accepted, got %d", n)
	}
}

func TestCollectorKeepsBlocksContiguous(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for run := 0; run < 8; run++ {
		run := run
		wg.Add(1)
		go func() {
			defer wg.Done()
			block := make([]Diagnostic, 5)
			for i := range block {
				block[i] = Diagnostic{Path: string(rune('a' + run)), StartLine: uint32(i + 1)}
			}
			c.Append(block...)
		}()
	}
	wg.Wait()
	items := c.Bag().Items()
	if len(items) != 40 {
		t.Fatalf("expected 40 items, got %d", len(items))
	}
	for i := 0; i < len(items); i += 5 {
		for j := 1; j < 5; j++ {
			if items[i+j].Path != items[i].Path || items[i+j].StartLine != uint32(j+1) {
				t.Fatalf("block starting at %d interleaved", i)
			}
		}
	}
}
