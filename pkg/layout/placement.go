package layout

// Placement is the rectangle assigned to one image. Coordinates are in
// points with a bottom-left origin; (X, Y) is the lower-left corner.
type Placement struct {
	Index  int     `json:"index"`
	Path   string  `json:"path,omitempty"`
	Page   int     `json:"page"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (p Placement) Right() float64 { return p.X + p.Width }

// Top returns the y coordinate of the top edge.
func (p Placement) Top() float64 { return p.Y + p.Height }

// TopDownY converts the placement to a top-left origin, returning the
// distance from the top of the page to the image's top edge.
func (p Placement) TopDownY(pageHeight float64) float64 { return pageHeight - p.Top() }

// Layout is the packed result of a run.
type Layout struct {
	Geometry   Geometry    `json:"geometry"`
	Placements []Placement `json:"placements"`
}

// Pages returns the number of pages the placements span. A layout with no
// placements spans zero pages.
func (l Layout) Pages() int {
	if len(l.Placements) == 0 {
		return 0
	}
	return l.Placements[len(l.Placements)-1].Page + 1
}

// PagePlacements returns the placements on the given page, in input order.
func (l Layout) PagePlacements(page int) []Placement {
	var out []Placement
	for _, p := range l.Placements {
		if p.Page == page {
			out = append(out, p)
		}
	}
	return out
}
