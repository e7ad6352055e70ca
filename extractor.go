package pagesplice

// Segment is a named, contiguous span of a document.
type Segment struct {
	Name    string
	Ordinal int
	Start   int
	End     int
	Text    string
}

// Extraction maps segment names to their exact text.
// Prefix holds everything before the first located marker.
type Extraction struct {
	Prefix    string
	Segments  map[string]Segment
	Locations []Location
}

// Extract splits text along the catalog markers.
//
// A segment runs from its marker to the next declared marker. If the next
// marker is absent (or the segment is last) it runs to the end of the text.
// Absent markers produce no segment. If the next declared marker occurs
// before this one, the span is empty; catalogs must be declared in document
// order for the split to be meaningful.
func Extract(text string, catalog Catalog) *Extraction {
	locs := Locate(text, catalog)
	ex := &Extraction{
		Segments:  make(map[string]Segment, len(locs)),
		Locations: locs,
	}

	prefixEnd := len(text)
	for _, l := range locs {
		if l.Found() && l.Offset < prefixEnd {
			prefixEnd = l.Offset
		}
	}
	ex.Prefix = text[:prefixEnd]

	for i, l := range locs {
		if !l.Found() {
			continue
		}
		end := len(text)
		if i+1 < len(locs) && locs[i+1].Found() {
			end = locs[i+1].Offset
		}
		if end < l.Offset {
			end = l.Offset
		}
		ex.Segments[l.Marker.Name] = Segment{
			Name:    l.Marker.Name,
			Ordinal: l.Ordinal,
			Start:   l.Offset,
			End:     end,
			Text:    text[l.Offset:end],
		}
	}

	return ex
}

// Ordered returns the extracted segments in catalog order.
func (e *Extraction) Ordered() []Segment {
	segs := make([]Segment, 0, len(e.Segments))
	for _, l := range e.Locations {
		if seg, ok := e.Segments[l.Marker.Name]; ok {
			segs = append(segs, seg)
		}
	}
	return segs
}

// Missing returns the names of catalog markers absent from the text.
func (e *Extraction) Missing() []string {
	var names []string
	for _, l := range e.Locations {
		if !l.Found() {
			names = append(names, l.Marker.Name)
		}
	}
	return names
}
