package diag

import (
	"cmp"
	"slices"
)

// Bag is an ordered, optionally bounded, list of diagnostics.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a bag holding at most max items; max <= 0 means unbounded.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если лимит достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddAll adds items until the limit is hit and reports how many were taken.
func (b *Bag) AddAll(items []Diagnostic) int {
	n := 0
	for _, d := range items {
		if !b.Add(d) {
			break
		}
		n++
	}
	return n
}

// HasErrors reports whether any item is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Level >= LevelError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any item is at least a warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Level >= LevelWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Count returns the number of items per level.
func (b *Bag) Count() map[Level]int {
	out := make(map[Level]int, 3)
	for i := range b.items {
		out[b.items[i].Level]++
	}
	return out
}

// Sort orders by path, position, then level (errors first) and message.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmpOr(
			cmp.Compare(x.Path, y.Path),
			cmp.Compare(x.StartLine, y.StartLine),
			cmp.Compare(x.StartColumn, y.StartColumn),
			cmp.Compare(x.EndLine, y.EndLine),
			cmp.Compare(x.EndColumn, y.EndColumn),
			cmp.Compare(y.Level, x.Level),
			cmp.Compare(x.Message, y.Message),
		)
	})
}

// Dedup drops exact duplicates, keeping the first occurrence.
func (b *Bag) Dedup() {
	seen := make(map[Diagnostic]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}

// Filter keeps only the items for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Promote raises every warning to an error.
func (b *Bag) Promote() {
	for i := range b.items {
		if b.items[i].Level == LevelWarning {
			b.items[i].Level = LevelError
		}
	}
}

// cmpOr returns the first non-zero comparison result (cmp.Or, Go 1.22).
func cmpOr(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
