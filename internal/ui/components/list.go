package components

// Viewport tracks which slice of a long list is on screen. The cursor is
// owned by the caller; Follow scrolls so it stays visible.
type Viewport struct {
	Offset   int
	PageSize int
}

// NewViewport creates a viewport showing pageSize rows.
func NewViewport(pageSize int) Viewport {
	if pageSize < 1 {
		pageSize = 1
	}
	return Viewport{PageSize: pageSize}
}

// Follow scrolls the minimum amount needed to show cursor within total rows.
func (v *Viewport) Follow(cursor, total int) {
	if v.PageSize < 1 {
		v.PageSize = 1
	}
	if total <= v.PageSize || cursor < 0 {
		v.Offset = 0
		return
	}
	if cursor < v.Offset {
		v.Offset = cursor
	}
	if cursor >= v.Offset+v.PageSize {
		v.Offset = cursor - v.PageSize + 1
	}
	if maxOffset := total - v.PageSize; v.Offset > maxOffset {
		v.Offset = maxOffset
	}
}

// Range returns the visible [start, end) bounds for total rows.
func (v Viewport) Range(total int) (int, int) {
	start := v.Offset
	if start > total {
		start = total
	}
	end := start + v.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// RowAt maps a visible row to its absolute index, or -1 when out of range.
func (v Viewport) RowAt(rel, total int) int {
	start, end := v.Range(total)
	abs := start + rel
	if rel < 0 || abs >= end {
		return -1
	}
	return abs
}
