// Package conversations collapses a user's flat message history into one
// summary per counterpart. The grouping and tie-break rules live here, in
// plain code, so they are testable without a database.
package conversations

import (
	"sort"

	"textbook-market/internal/models"
)

// Summary is a per-counterpart conversation record: the other participant
// and the most recent message exchanged with them.
type Summary struct {
	CounterpartID int
	Last          models.Message
}

// Aggregate derives the conversation list for userID from the messages the
// user sent or received. Messages are grouped by counterpart and each group
// is reduced to its highest-id message. The result is ordered most recently
// active first.
//
// The message id is the authoritative recency order: created_at only breaks
// display ties, so a same-timestamp burst still resolves deterministically.
func Aggregate(userID int, msgs []models.Message) []Summary {
	latest := map[int]models.Message{}
	for _, msg := range msgs {
		counterpart := msg.SenderID
		if counterpart == userID {
			counterpart = msg.ReceiverID
		}
		if last, ok := latest[counterpart]; !ok || msg.ID > last.ID {
			latest[counterpart] = msg
		}
	}

	summaries := make([]Summary, 0, len(latest))
	for counterpart, last := range latest {
		summaries = append(summaries, Summary{CounterpartID: counterpart, Last: last})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].Last, summaries[j].Last
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return summaries
}

// CounterpartIDs lists the counterpart of each summary, in order. Used to
// batch display-name lookups.
func CounterpartIDs(summaries []Summary) []int {
	ids := make([]int, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.CounterpartID)
	}
	return ids
}
