package lifecycle

// CanRead applies the read-access rule. Callers turn a false result into
// "not found" rather than "forbidden".
func CanRead(actor Actor, ownerClientID int64, assignee *int64, s Status) bool {
	switch actor.Party() {
	case PartyAdmin:
		return true
	case PartyClient:
		return ownerClientID == actor.ID
	case PartyInspector:
		if assignee != nil {
			return *assignee == actor.ID
		}
		return s == StatusScheduled || s == StatusRescheduled
	default:
		return false
	}
}

// PoolStatuses are the statuses an unassigned inspection can be claimed from.
func PoolStatuses() []Status {
	return MustLookup(ActionStart).From
}
