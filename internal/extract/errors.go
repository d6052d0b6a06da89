package extract

import (
	"fmt"
	"strings"
)

// Diagnostics describes an HTML document that yielded no mindmap data
type Diagnostics struct {
	HasScript    bool `json:"has_script"`
	HasMarkmap   bool `json:"has_markmap"`
	HasD3        bool `json:"has_d3"`
	HasSVG       bool `json:"has_svg"`
	FileSize     int  `json:"file_size"`
	FirstScript  int  `json:"first_script"`
	FirstMarkmap int  `json:"first_markmap"`
}

// ExtractionError is returned when no strategy recovers a tree
type ExtractionError struct {
	Diagnostics Diagnostics
}

func (e *ExtractionError) Error() string {
	d := e.Diagnostics
	return fmt.Sprintf("could not find markmap data in HTML file (script tags: %t, markmap references: %t, d3 references: %t, svg elements: %t); "+
		"make sure this is a markmap HTML file exported from marky or another markmap tool",
		d.HasScript, d.HasMarkmap, d.HasD3, d.HasSVG)
}

func diagnose(doc string) Diagnostics {
	lower := strings.ToLower(doc)
	return Diagnostics{
		HasScript:    strings.Contains(doc, "<script"),
		HasMarkmap:   strings.Contains(lower, "markmap"),
		HasD3:        strings.Contains(lower, "d3"),
		HasSVG:       strings.Contains(doc, "<svg"),
		FileSize:     len(doc),
		FirstScript:  strings.Index(doc, "<script"),
		FirstMarkmap: strings.Index(lower, "markmap"),
	}
}
