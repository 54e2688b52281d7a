// Package tracking serves the public reference-number lookup: an exact match
// against tickets first, then requests, normalized into one projection.
package tracking

import (
	"context"
	"time"

	"assetdesk/models"
	"assetdesk/store"
)

// Result types.
const (
	TypeTicket  = "Ticket"
	TypeRequest = "Request"
)

// Result is the normalized public projection of a ticket or request.
type Result struct {
	ID      string     `json:"id"`
	Type    string     `json:"type"`
	Status  string     `json:"status"`
	Subject string     `json:"subject"`
	Details string     `json:"details,omitempty"`
	Created time.Time  `json:"created"`
	Updated *time.Time `json:"updated,omitempty"`
	Notes   string     `json:"notes,omitempty"`
}

// Lookup resolves a reference code. A missing reference returns (nil, nil);
// it is a nothing-found outcome, not an error. Pure read, no auth, no side
// effects.
func Lookup(ctx context.Context, s store.Store, env store.Environment, reference string) (*Result, error) {
	if reference == "" {
		return nil, nil
	}

	docs, err := s.Query(ctx, env, models.ColTickets, store.Doc{"ticketNumber": reference}, &store.QueryOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		var t models.IncidentReport
		if err := store.Decode(docs[0], &t); err != nil {
			return nil, err
		}
		return &Result{
			ID:      t.ID,
			Type:    TypeTicket,
			Status:  t.Status,
			Subject: t.AssetName,
			Details: t.Description,
			Created: t.CreatedAt,
			Updated: t.ResolvedAt,
			Notes:   t.ResolutionNotes,
		}, nil
	}

	docs, err = s.Query(ctx, env, models.ColRequests, store.Doc{"requestNumber": reference}, &store.QueryOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		var r models.AssetRequest
		if err := store.Decode(docs[0], &r); err != nil {
			return nil, err
		}
		return &Result{
			ID:      r.ID,
			Type:    TypeRequest,
			Status:  r.Status,
			Subject: r.Category,
			Details: r.Reason,
			Created: r.CreatedAt,
			Updated: r.ResolvedAt,
			Notes:   r.ResolutionNotes,
		}, nil
	}

	return nil, nil
}
