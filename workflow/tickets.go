package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/registry"
	"assetdesk/store"
	"assetdesk/utils"
)

// TicketInput is the intake payload, shared by the public form and staff.
type TicketInput struct {
	AssetID        string
	AssetName      string
	DeviceType     string
	ReportedSerial string
	ImageBase64    string
	Location       string
	ReportedBy     string
	ReporterEmail  string
	Description    string
	Priority       string
}

// CreateTicket opens a new incident in status New.
func (e *Engine) CreateTicket(ctx context.Context, env store.Environment, in TicketInput) (models.IncidentReport, error) {
	if in.AssetName == "" || in.ReportedBy == "" || in.Description == "" {
		return models.IncidentReport{}, apperr.Validation("asset name, reporter and description are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	ticket := models.IncidentReport{
		ID:             uuid.NewString(),
		TicketNumber:   utils.NewTicketNumber(now),
		AssetID:        in.AssetID,
		AssetName:      in.AssetName,
		DeviceType:     in.DeviceType,
		ReportedSerial: in.ReportedSerial,
		ImageBase64:    in.ImageBase64,
		Location:       in.Location,
		ReportedBy:     in.ReportedBy,
		ReporterEmail:  in.ReporterEmail,
		Description:    in.Description,
		Priority:       priority,
		Status:         models.TicketNew,
		CreatedAt:      now,
	}

	doc, err := store.Encode(ticket)
	if err != nil {
		return models.IncidentReport{}, err
	}
	if err := e.store.Set(ctx, env, models.ColTickets, ticket.ID, doc); err != nil {
		return models.IncidentReport{}, err
	}
	return ticket, nil
}

// UpdateTicketStatus performs a guarded direct status change. Resolution is
// not reachable here; use ResolveRepair or ResolveReplace.
func (e *Engine) UpdateTicketStatus(ctx context.Context, env store.Environment, id, newStatus string) (models.IncidentReport, error) {
	ticket, err := e.getTicket(ctx, env, id)
	if err != nil {
		return models.IncidentReport{}, err
	}
	if !CanTransitionTicket(ticket.Status, newStatus) {
		return models.IncidentReport{}, apperr.Validation("cannot move ticket %s from %q to %q", ticket.TicketNumber, ticket.Status, newStatus)
	}

	fields := store.Doc{"status": newStatus}
	if newStatus == models.TicketRejected {
		now := time.Now().UTC()
		fields["resolvedAt"] = now
		ticket.ResolvedAt = &now
	}
	if err := e.store.Update(ctx, env, models.ColTickets, id, fields); err != nil {
		return models.IncidentReport{}, err
	}
	ticket.Status = newStatus
	return ticket, nil
}

// ResolveRepair closes the ticket as repaired. When reactivateAsset is set
// and the ticket links an asset, the asset flips back to Active in the same
// batch together with its log row.
func (e *Engine) ResolveRepair(ctx context.Context, env store.Environment, actor models.Actor, id, notes string, reactivateAsset bool) (models.IncidentReport, error) {
	ticket, err := e.getTicket(ctx, env, id)
	if err != nil {
		return models.IncidentReport{}, err
	}
	if TicketIsTerminal(ticket.Status) {
		return models.IncidentReport{}, apperr.Validation("ticket %s is already %s", ticket.TicketNumber, ticket.Status)
	}

	now := time.Now().UTC()
	batch := e.store.Batch()
	batch.Update(env, models.ColTickets, id, store.Doc{
		"status":          models.TicketResolved,
		"resolvedAt":      now,
		"resolutionNotes": notes,
	})

	if reactivateAsset && ticket.AssetID != "" {
		batch.Update(env, models.ColAssets, ticket.AssetID, store.Doc{
			"status":      models.AssetActive,
			"lastUpdated": now,
		})
		row := registry.NewLog(ticket.AssetID, models.LogTicket,
			fmt.Sprintf("Repaired under ticket %s, back in service", ticket.TicketNumber),
			actor.DisplayNameOrEmail(), "")
		if err := batchSet(batch, env, models.ColAssetLogs, row.ID, row); err != nil {
			return models.IncidentReport{}, err
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return models.IncidentReport{}, err
	}

	ticket.Status = models.TicketResolved
	ticket.ResolvedAt = &now
	ticket.ResolutionNotes = notes
	return ticket, nil
}

// ResolveReplace retires the original asset and deploys a replacement taken
// from storage, all in one batch: original Retired and unassigned,
// replacement Active at the ticket's location assigned to the reporter,
// ticket Resolved, plus Retired and Replaced log rows.
func (e *Engine) ResolveReplace(ctx context.Context, env store.Environment, actor models.Actor, id, replacementID, notes string) (models.IncidentReport, error) {
	if replacementID == "" {
		return models.IncidentReport{}, apperr.Validation("no replacement asset selected")
	}

	ticket, err := e.getTicket(ctx, env, id)
	if err != nil {
		return models.IncidentReport{}, err
	}
	if TicketIsTerminal(ticket.Status) {
		return models.IncidentReport{}, apperr.Validation("ticket %s is already %s", ticket.TicketNumber, ticket.Status)
	}
	replacement, err := e.getAsset(ctx, env, replacementID)
	if err != nil {
		return models.IncidentReport{}, err
	}

	now := time.Now().UTC()
	resolution := notes
	if resolution == "" {
		resolution = fmt.Sprintf("Replaced with asset %s", replacement.Name)
	}
	resolution = fmt.Sprintf("%s (replacement: %s)", resolution, replacementID)

	batch := e.store.Batch()
	if ticket.AssetID != "" {
		batch.Update(env, models.ColAssets, ticket.AssetID, store.Doc{
			"status":           models.AssetRetired,
			"assignedEmployee": "",
			"lastUpdated":      now,
		})
		retired := registry.NewLog(ticket.AssetID, models.LogRetired,
			fmt.Sprintf("Retired under ticket %s", ticket.TicketNumber),
			actor.DisplayNameOrEmail(), "")
		if err := batchSet(batch, env, models.ColAssetLogs, retired.ID, retired); err != nil {
			return models.IncidentReport{}, err
		}
	}

	batch.Update(env, models.ColAssets, replacementID, store.Doc{
		"status":           models.AssetActive,
		"location":         ticket.Location,
		"assignedEmployee": ticket.ReportedBy,
		"lastUpdated":      now,
	})
	replaced := registry.NewLog(replacementID, models.LogReplaced,
		fmt.Sprintf("Deployed as replacement under ticket %s for %s", ticket.TicketNumber, ticket.AssetName),
		actor.DisplayNameOrEmail(), "")
	if err := batchSet(batch, env, models.ColAssetLogs, replaced.ID, replaced); err != nil {
		return models.IncidentReport{}, err
	}

	batch.Update(env, models.ColTickets, id, store.Doc{
		"status":          models.TicketResolved,
		"resolvedAt":      now,
		"resolutionNotes": resolution,
	})

	if err := batch.Commit(ctx); err != nil {
		return models.IncidentReport{}, err
	}

	ticket.Status = models.TicketResolved
	ticket.ResolvedAt = &now
	ticket.ResolutionNotes = resolution
	return ticket, nil
}

// ListTickets returns tickets newest first, optionally filtered by status.
func (e *Engine) ListTickets(ctx context.Context, env store.Environment, status string) ([]models.IncidentReport, error) {
	var filter store.Doc
	if status != "" && status != "all" {
		filter = store.Doc{"status": status}
	}
	docs, err := e.store.Query(ctx, env, models.ColTickets, filter, &store.QueryOptions{SortField: "createdAt", SortDesc: true})
	if err != nil {
		return nil, err
	}
	tickets := make([]models.IncidentReport, 0, len(docs))
	for _, doc := range docs {
		var t models.IncidentReport
		if err := store.Decode(doc, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// GetTicket loads one ticket.
func (e *Engine) GetTicket(ctx context.Context, env store.Environment, id string) (models.IncidentReport, error) {
	return e.getTicket(ctx, env, id)
}
