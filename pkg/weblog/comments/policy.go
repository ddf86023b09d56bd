package comments

import "time"

// Policy decides whether a target still accepts comments.
// Commenting closes a fixed number of days after publication.
type Policy struct {
	CloseAfter int // days
}

// Open reports whether comments are accepted for a target with the
// given flags. True iff commenting is enabled and now is within
// CloseAfter days of the publication date (boundary inclusive).
func (p Policy) Open(enableComments bool, pubDate, now time.Time) bool {
	if !enableComments {
		return false
	}
	return now.Sub(pubDate) <= time.Duration(p.CloseAfter)*24*time.Hour
}
