package patrol

// Heading is one of the four cardinal travel directions. The numeric order is
// the clockwise turning order, so turning right is index rotation modulo 4.
type Heading int

const (
	Up Heading = iota
	Right
	Down
	Left
)

// headingDeltas maps each heading to its (row, col) step.
var headingDeltas = [4]Coord{
	Up:    {Row: -1, Col: 0},
	Right: {Row: 0, Col: 1},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
}

var headingNames = [4]string{"up", "right", "down", "left"}

var headingMarkers = [4]rune{'^', '>', 'v', '<'}

// TurnRight returns the heading after a 90 degree clockwise rotation.
func (h Heading) TurnRight() Heading {
	return (h + 1) % 4
}

// Reverse returns the opposite heading.
func (h Heading) Reverse() Heading {
	return (h + 2) % 4
}

// Delta returns the row and column offset of a single step.
func (h Heading) Delta() Coord {
	return headingDeltas[h]
}

// Vertical reports whether the heading moves along a column.
func (h Heading) Vertical() bool {
	return h == Up || h == Down
}

// Valid reports whether h is one of the four cardinal headings.
func (h Heading) Valid() bool {
	return h >= Up && h <= Left
}

func (h Heading) String() string {
	if !h.Valid() {
		return "unknown"
	}
	return headingNames[h]
}

// Marker returns the grid character used for an agent facing h.
func (h Heading) Marker() rune {
	return headingMarkers[h]
}

// HeadingFromMarker parses one of '^', '>', 'v', '<'.
func HeadingFromMarker(r rune) (Heading, bool) {
	for i, m := range headingMarkers {
		if m == r {
			return Heading(i), true
		}
	}
	return 0, false
}
