// Package feed fetches raw trade-disclosure items from the periodic RSS
// slice feed.
package feed

import (
	"context"
	"time"
)

// Item is one raw unit of the disclosure feed. Description carries the
// embedded delimited trade payload; GUID is the long-form unique reference
// with the numeric dissemination id embedded at the end.
type Item struct {
	GUID        string
	Title       string
	Description string
	Published   time.Time
}

// Fetcher yields the current feed snapshot. An empty slice is a normal,
// non-fatal outcome for a cycle.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Item, error)
}
