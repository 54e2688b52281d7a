// Package workflow implements the lifecycle state machines: incident
// tickets, asset requests, and the handover/return/transfer signature
// protocol with its inventory side effects.
package workflow

import "assetdesk/models"

// ticketTransitions enumerates the guarded status moves reachable through a
// plain status update. Resolved is only reachable through the resolution
// policies (repair / replace), never through a direct status change.
var ticketTransitions = map[string][]string{
	models.TicketNew: {models.TicketOpen, models.TicketRejected},
	// Open / In Progress / Waiting for Parts form a freely-revisitable
	// triage substate.
	models.TicketOpen:            {models.TicketInProgress, models.TicketWaitingForParts},
	models.TicketInProgress:      {models.TicketOpen, models.TicketWaitingForParts},
	models.TicketWaitingForParts: {models.TicketOpen, models.TicketInProgress},
	models.TicketResolved:        {},
	models.TicketRejected:        {},
}

// requestTransitions: linear happy path with Rejected reachable from New or
// Pending Finance. Deployed is only reachable through Fulfill.
var requestTransitions = map[string][]string{
	models.RequestNew:            {models.RequestAcknowledged, models.RequestRejected},
	models.RequestAcknowledged:   {models.RequestPendingFinance},
	models.RequestPendingFinance: {models.RequestApproved, models.RequestRejected},
	models.RequestApproved:       {},
	models.RequestDeployed:       {},
	models.RequestRejected:       {},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionTicket reports whether a direct status update from -> to is legal.
func CanTransitionTicket(from, to string) bool {
	return allowed(ticketTransitions, from, to)
}

// CanTransitionRequest reports whether a direct status update from -> to is legal.
func CanTransitionRequest(from, to string) bool {
	return allowed(requestTransitions, from, to)
}

// TicketIsTerminal reports whether no further transitions exist.
func TicketIsTerminal(status string) bool {
	return status == models.TicketResolved || status == models.TicketRejected
}

// RequestIsTerminal reports whether no further transitions exist.
func RequestIsTerminal(status string) bool {
	return status == models.RequestDeployed || status == models.RequestRejected
}
