package tui

// dropdown is a single-choice list cycled with the arrow keys.
type dropdown struct {
	label   string
	options []string
	index   int
}

func (d *dropdown) Selected() string {
	if d.index < 0 || d.index >= len(d.options) {
		return ""
	}
	return d.options[d.index]
}

// Reset replaces the options and selects index, clamped to the new list.
func (d *dropdown) Reset(options []string, index int) {
	d.options = options
	d.index = 0
	if index > 0 && index < len(options) {
		d.index = index
	}
}

// Choose selects option when present and reports whether it was.
func (d *dropdown) Choose(option string) bool {
	for i, o := range d.options {
		if o == option {
			d.index = i
			return true
		}
	}
	return false
}

// Cycle moves the selection by delta, wrapping, and reports whether it moved.
func (d *dropdown) Cycle(delta int) bool {
	n := len(d.options)
	if n < 2 {
		return false
	}
	d.index = ((d.index+delta)%n + n) % n
	return true
}
