package transition

import "gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"

// legalTransitions is the fixed legality table. Issue reporting suspends the
// linear assigned→picked_up→delivered path; the shipment re-enters it (or is
// resolved) only from issue_reported.
var legalTransitions = map[storage.Status][]storage.Status{
	storage.StatusCreated:       {storage.StatusAssigned},
	storage.StatusAssigned:      {storage.StatusPickedUp, storage.StatusIssueReported},
	storage.StatusPickedUp:      {storage.StatusDelivered, storage.StatusIssueReported},
	storage.StatusIssueReported: {storage.StatusAssigned, storage.StatusPickedUp, storage.StatusResolved},
}

// Allowed reports whether from→to is a legal forward move. A no-op
// (from == to) is not a move and is handled separately by the guard.
func Allowed(from, to storage.Status) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
