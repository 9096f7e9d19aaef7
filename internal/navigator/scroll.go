package navigator

// RowCount returns the number of rows the cursor of f can move over
func RowCount(f *Frame) int {
	switch v := f.View.(type) {
	case *MainMenu:
		return len(MenuItems)
	case *DatabaseList:
		return len(v.Visible)
	case *CollectionList:
		return len(v.Visible)
	case *CollectionProperties:
		return len(v.Lines)
	case *CollectionContent:
		return v.Count()
	case *QueryView:
		return len(v.Rows)
	case *GraphList:
		return len(v.Visible)
	case *GraphDetail:
		return len(v.Lines)
	default:
		return 0
	}
}

// Scroll moves the cursor of the top frame by delta rows. On the document
// view, moving past the loaded documents requests the next page.
func (n *Navigator) Scroll(delta int) {
	f := n.Top()
	f.Cursor += delta
	n.clamp(f)
	n.maybeFetchPage(f)
}

// ScrollTo moves the cursor to an absolute row. Negative values count from
// the end.
func (n *Navigator) ScrollTo(row int) {
	f := n.Top()
	if row < 0 {
		row = RowCount(f) + row
	}
	f.Cursor = row
	n.clamp(f)
	n.maybeFetchPage(f)
}

// PageDown scrolls one visible page forward
func (n *Navigator) PageDown() {
	n.Scroll(n.height)
}

// PageUp scrolls one visible page back
func (n *Navigator) PageUp() {
	n.Scroll(-n.height)
}

// clamp keeps the cursor inside the row range and the window around it
func (n *Navigator) clamp(f *Frame) {
	count := RowCount(f)
	if f.Cursor >= count {
		f.Cursor = count - 1
	}
	if f.Cursor < 0 {
		f.Cursor = 0
	}
	n.ensureVisible(f)
}

func (n *Navigator) ensureVisible(f *Frame) {
	if f.Cursor < f.Offset {
		f.Offset = f.Cursor
	}
	if f.Cursor >= f.Offset+n.height {
		f.Offset = f.Cursor - n.height + 1
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// maybeFetchPage requests the next contiguous page when the cursor is past
// the loaded documents and no fetch is in flight for the frame
func (n *Navigator) maybeFetchPage(f *Frame) {
	v, ok := f.View.(*CollectionContent)
	if !ok || f.Loading {
		return
	}
	if f.Cursor < len(v.Documents) || !v.HasMore() {
		return
	}
	n.submit(f, PageRequest{
		Database:   v.Database,
		Collection: v.Collection,
		Offset:     v.NextOffset,
		Limit:      v.PageSize,
	})
}
