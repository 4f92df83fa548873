package model

// NewsImage is one image reference attached to a news document.
type NewsImage struct {
	URL  string `json:"url" bson:"url"`
	Size string `json:"size" bson:"size"`
}

// NewsItem is a news document as returned to callers. Content, Images and
// KeyTicker are only populated when the matching include flag is set.
type NewsItem struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Date      string      `json:"date"`
	Source    string      `json:"source"`
	Headline  string      `json:"headline"`
	Summary   string      `json:"summary"`
	Content   *string     `json:"content"`
	Images    []NewsImage `json:"images"`
	KeyTicker []string    `json:"key_ticker"`
}

// SortKey is the store sort key of a news document: date descending,
// then id descending as the unique tiebreaker.
type SortKey struct {
	Date string
	ID   string
}

// IsZero reports whether the key is unset.
func (k SortKey) IsZero() bool { return k.Date == "" && k.ID == "" }

// NewsFilter narrows a news query. Empty fields are ignored.
type NewsFilter struct {
	ID        string
	KeyTicker string
}

// NewsInclude selects the optional fields to project.
type NewsInclude struct {
	TextContent bool
	KeyTicker   bool
	Images      bool
}

// NewsQuery is the keyset query issued against a news store.
type NewsQuery struct {
	Index   string
	Filter  NewsFilter
	Include NewsInclude
	Size    int
	// After, when set, resumes strictly after this key.
	After *SortKey
}

// NewsHit pairs a document with its sort key.
type NewsHit struct {
	Item NewsItem
	Sort SortKey
}

// NewsPage is the paginated response shape.
type NewsPage struct {
	Items  []NewsItem `json:"items"`
	Cursor string     `json:"cursor"`
}
