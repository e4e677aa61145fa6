package markup

// Button is a single URL button declared in a note body.
type Button struct {
	Label string
	URL   string
}

// Row is rendered as one inline keyboard row.
type Row []Button

// Layout is the ordered list of rows, in order of first appearance.
type Layout []Row

// Len returns the total number of buttons across all rows.
func (l Layout) Len() int {
	n := 0
	for _, r := range l {
		n += len(r)
	}
	return n
}

func (l Layout) Empty() bool { return l.Len() == 0 }

// Parsed is the result of Parse: display text with the button directives
// removed, plus the button layout.
type Parsed struct {
	Text    string
	Buttons Layout
}
