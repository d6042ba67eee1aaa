package meta

// Attr is one attribute of a scraped meta element. Scraped attributes
// always have a Value, possibly empty; a nil Value is left out when
// rendered.
type Attr struct {
	Name  string
	Value *string
}

// Tag holds the attributes of one meta element in source order.
type Tag []Attr

type Metadata struct {
	Title    *string
	MetaTags []Tag
	Favicon  *string
}

// Empty reports whether nothing was scraped, which is also what a failed
// scrape returns.
func (m Metadata) Empty() bool {
	return m.Title == nil && m.Favicon == nil && len(m.MetaTags) == 0
}
