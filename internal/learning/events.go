/*
Package learning records suggestion feedback and turns it into ranking boosts.

The Recorder accepts feedback without blocking the caller and writes it to
the history store in batches from a background goroutine. The scorer reads a
feedback snapshot and computes a small additive boost for suggestions users
selected before, blending frequency, recency and selection rate.
*/
package learning

import (
	"time"

	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/suggest"
)

// Event is a single interaction with a suggestion.
type Event struct {
	// Query is the raw query the suggestion was shown for.
	Query string

	// Kind and Text identify the suggestion.
	Kind suggest.Kind
	Text string

	// Selected is true when the user acted on the suggestion, false when it
	// was only shown.
	Selected bool

	// Timestamp is when the interaction happened.
	Timestamp time.Time
}

// NewEvent creates an event for s stamped with the current time.
func NewEvent(query string, s suggest.Suggestion, selected bool) Event {
	return Event{
		Query:     query,
		Kind:      s.Kind(),
		Text:      s.Text,
		Selected:  selected,
		Timestamp: time.Now(),
	}
}

// ToRecord converts the event to its persisted form.
func (e Event) ToRecord() history.FeedbackRecord {
	return history.FeedbackRecord{
		Query:          e.Query,
		SuggestionKind: string(e.Kind),
		SuggestionText: e.Text,
		WasSelected:    e.Selected,
		Timestamp:      e.Timestamp,
	}
}
