package domain

// Category classifies a corpus record.
type Category string

const (
	// CategoryAttraction is a sightseeing spot.
	CategoryAttraction Category = "attraction"
	// CategoryShrine is a shrine or temple.
	CategoryShrine Category = "shrine"
	// CategoryCustom is an operator-supplied record outside the scraped corpus.
	CategoryCustom Category = "custom"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAttraction, CategoryShrine, CategoryCustom:
		return true
	}
	return false
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lng float64
}

// AttractionInfo carries attraction-specific fields.
type AttractionInfo struct {
	Address      string
	OpeningHours string
	Tags         []string
}

// ShrineInfo carries shrine-specific fields.
type ShrineInfo struct {
	EnshrinedDeities []string
	Festivals        string
}

// Document is one place or shrine record in the corpus.
// Content is the text unit that was embedded; ID is unique corpus-wide.
// Many records lack coordinates, so all geo handling treats them as optional.
type Document struct {
	ID           string
	Title        string
	Content      string
	Category     Category
	Municipality string       // empty = unknown; otherwise a registry local name
	Coordinates  *Coordinates // nil = unknown
	Rating       float64      // 0 = unrated; used only as a ranking tie-break

	Attraction *AttractionInfo // set when Category == CategoryAttraction
	Shrine     *ShrineInfo     // set when Category == CategoryShrine
}

// Validate checks the corpus invariants on a document.
func (d *Document) Validate() error {
	if d.ID == "" || d.Content == "" || !d.Category.Valid() {
		return ErrInvalidDocument
	}
	return nil
}
