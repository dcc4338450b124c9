package shorturl

import (
	"fmt"
	"strconv"
	"strings"
)

// Messages the service answers create requests with.
const (
	MsgAdded      = "Short code added."
	MsgCodeExists = "Short code already exists!"
)

// Entry describes one short URL as returned by the service.
type Entry struct {
	URL         string `json:"url"`
	ShortCode   string `json:"shortCode"`
	ShortURL    string `json:"shortURL"`
	DateCreated string `json:"dateCreated"`
	Visits      string `json:"visits"`
}

// VisitCount parses the textual visit counter.
func (e Entry) VisitCount() (int, error) {
	n, err := strconv.Atoi(e.Visits)
	if err != nil {
		return 0, fmt.Errorf("visits of %q is not a number: %w", e.ShortCode, err)
	}

	return n, nil
}

// Message is the {"msg": ...} envelope returned by mutating operations and errors.
type Message struct {
	Msg string `json:"msg"`
}

// CreateRequest is the body of POST /api/urls.
type CreateRequest struct {
	URL       string `json:"url"`
	ShortCode string `json:"shortCode"`
}

// FindByShortURL returns the first entry whose shortURL contains code.
func FindByShortURL(entries []Entry, code string) (Entry, bool) {
	if code == "" {
		return Entry{}, false
	}

	for _, e := range entries {
		if strings.Contains(e.ShortURL, code) {
			return e, true
		}
	}

	return Entry{}, false
}
