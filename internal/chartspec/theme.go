package chartspec

// ChartTheme holds the palette and typography applied by renderers.
type ChartTheme struct {
	Name       string
	Width      int
	Height     int
	Font       string
	MarkColor  string
	AxisColor  string
	GridColor  string
	Background string
	Category   []string
	Sequential []string
}

// Theme returns the "Urban" theme: blue marks, grey secondary, Lato type.
func Theme() ChartTheme {
	return ChartTheme{
		Name:       "Urban",
		Width:      685,
		Height:     380,
		Font:       "Lato",
		MarkColor:  "#1696d2",
		AxisColor:  "#000000",
		GridColor:  "#DEDDDD",
		Background: "#FFFFFF",
		Category: []string{
			"#1696d2", "#d2d2d2", "#000000", "#fdbf11",
			"#ec008b", "#55b748", "#5c5859", "#db2b27",
		},
		Sequential: []string{"#cfe8f3", "#a2d4ec", "#73bfe2", "#46abdb", "#1696d2", "#12719e"},
	}
}
