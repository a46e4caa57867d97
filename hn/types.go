package hn

// Item is a Hacker News item (story, comment, job, poll).
// Parent is a pointer because its absence is meaningful: an item
// without a parent is a thread root.
type Item struct {
	ID      int    `json:"id"`
	Type    string `json:"type,omitempty"`
	By      string `json:"by,omitempty"`
	Time    int64  `json:"time,omitempty"`
	Text    string `json:"text,omitempty"`
	Parent  *int   `json:"parent,omitempty"`
	Kids    []int  `json:"kids,omitempty"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Score   int    `json:"score,omitempty"`
	Dead    bool   `json:"dead,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`

	// TimeISO is derived from Time during collection; the API never sets it.
	TimeISO string `json:"time_iso,omitempty"`
}

// User is a Hacker News user profile.
type User struct {
	ID        string `json:"id"`
	Created   int64  `json:"created"`
	Karma     int    `json:"karma"`
	About     string `json:"about,omitempty"`
	Submitted []int  `json:"submitted,omitempty"`
}
