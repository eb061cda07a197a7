package preproc

import (
	"sort"

	"missionreview/internal/source"
)

// segment is a run of output characters with a single origin.
// Verbatim segments map 1:1; expansion segments map every offset to the use site.
type segment struct {
	out      uint32
	length   uint32
	file     source.FileID
	orig     uint32
	origEnd  uint32
	expanded bool
}

type builder struct {
	out  []rune
	segs []segment
}

func (b *builder) pos() uint32 {
	return uint32(len(b.out)) //nolint:gosec // bounded by source sizes
}

func (b *builder) emitVerbatim(r rune, file source.FileID, orig uint32) {
	at := b.pos()
	b.out = append(b.out, r)
	if n := len(b.segs); n > 0 {
		last := &b.segs[n-1]
		if !last.expanded && last.file == file && last.out+last.length == at && last.orig+last.length == orig {
			last.length++
			return
		}
	}
	b.segs = append(b.segs, segment{out: at, length: 1, file: file, orig: orig})
}

func (b *builder) emitExpanded(text string, file source.FileID, origStart, origEnd uint32) {
	runes := []rune(text)
	if len(runes) == 0 {
		return
	}
	at := b.pos()
	b.out = append(b.out, runes...)
	b.segs = append(b.segs, segment{
		out:      at,
		length:   uint32(len(runes)), //nolint:gosec // bounded by source sizes
		file:     file,
		orig:     origStart,
		origEnd:  origEnd,
		expanded: true,
	})
}

// OriginalPosition implements source.Mapping.
func (p *Processed) OriginalPosition(off uint32) (source.Position, bool) {
	if len(p.segs) == 0 {
		return source.Position{}, false
	}
	// последний сегмент с out <= off
	i := sort.Search(len(p.segs), func(i int) bool { return p.segs[i].out > off }) - 1
	if i < 0 {
		return source.Position{}, false
	}
	seg := p.segs[i]
	rel := off - seg.out
	switch {
	case rel < seg.length && seg.expanded:
		return p.fs.Position(seg.file, seg.orig), true
	case rel < seg.length:
		return p.fs.Position(seg.file, seg.orig+rel), true
	case rel == seg.length && seg.expanded:
		return p.fs.Position(seg.file, seg.origEnd), true
	case rel == seg.length:
		return p.fs.Position(seg.file, seg.orig+rel), true
	}
	return source.Position{}, false
}
