package model

// MenuEntry describes one item of a chrome region (header, sidebar).
// URL-backed entries are gated by route; URL-less entries by Feature.
type MenuEntry struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	URL      string      `json:"url,omitempty"`
	Icon     string      `json:"icon,omitempty"`
	Feature  Feature     `json:"feature,omitempty"`
	Children []MenuEntry `json:"children,omitempty"`
}
