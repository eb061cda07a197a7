package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, preprocessor output, etc.).
	FileVirtual FileFlags = 1 << iota // не с диска
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
// Offsets into a File are character (rune) offsets, not byte offsets.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // rune offsets of every '\n'
	Len     uint32   // rune count
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Position is a LineCol bound to the path of the file it belongs to.
type Position struct {
	Path string
	LineCol
}

// Mapping translates offsets of a processed text back to the original files.
// The second result is false when the offset has no known origin.
type Mapping interface {
	OriginalPosition(offset uint32) (Position, bool)
}
