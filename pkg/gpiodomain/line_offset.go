package gpiodomain

// Offset returns the line's offset within its chip (Number - chip.Base).
func (l *Line) Offset() int {
	return l.offset
}
