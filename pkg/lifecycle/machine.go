package lifecycle

// Action names a lifecycle operation.
type Action string

const (
	ActionSchedule     Action = "agendar"
	ActionReschedule   Action = "reagendar"
	ActionReject       Action = "rejeitar"
	ActionValidate     Action = "validar"
	ActionStart        Action = "iniciar"
	ActionSubmitReport Action = "gerar_relatorio"
	ActionFinalize     Action = "finalizar"
)

// Transition is one row of the lifecycle table.
type Transition struct {
	Action Action
	Party  Party
	From   []Status
	To     Status
	// Reentrant allows the assigned inspector to repeat the action while the
	// row is already in To, with no state change.
	Reentrant bool
	// RequiresAssignment restricts the action to the inspector recorded on the row.
	RequiresAssignment bool
}

var transitions = []Transition{
	{Action: ActionSchedule, Party: PartyClient, From: []Status{StatusAwaitingScheduling}, To: StatusScheduled},
	{Action: ActionReschedule, Party: PartyClient, From: []Status{StatusAwaitingValidation, StatusRejected}, To: StatusRescheduled},
	{Action: ActionReject, Party: PartyClient, From: []Status{StatusAwaitingValidation}, To: StatusRejected},
	{Action: ActionValidate, Party: PartyClient, From: []Status{StatusAwaitingValidation}, To: StatusValidated},
	{Action: ActionStart, Party: PartyInspector, From: []Status{StatusScheduled, StatusRescheduled}, To: StatusInProgress, Reentrant: true},
	{Action: ActionSubmitReport, Party: PartyInspector, From: []Status{StatusInProgress}, To: StatusAwaitingValidation, RequiresAssignment: true},
	{Action: ActionFinalize, Party: PartyInspector, From: []Status{StatusValidated}, To: StatusFinalized, RequiresAssignment: true},
}

// Lookup returns the transition for action.
func Lookup(action Action) (Transition, bool) {
	for _, t := range transitions {
		if t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// MustLookup is Lookup for actions defined in this package.
func MustLookup(action Action) Transition {
	t, ok := Lookup(action)
	if !ok {
		panic("lifecycle: unknown action " + string(action))
	}
	return t
}

// Permits reports whether the transition may fire from s, ignoring assignment.
func (t Transition) Permits(s Status) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return t.Reentrant && s == t.To
}

// Next returns the status after applying action from s.
func Next(action Action, s Status) (Status, bool) {
	t, ok := Lookup(action)
	if !ok || !t.Permits(s) {
		return s, false
	}
	return t.To, true
}

// AvailableActions lists the actions actor may invoke on an inspection in status
// s whose assigned inspector is assignee (nil when unclaimed).
func AvailableActions(actor Actor, s Status, assignee *int64) []Action {
	party := actor.Party()
	var out []Action
	for _, t := range transitions {
		if t.Party != party || !t.Permits(s) {
			continue
		}
		if party == PartyInspector {
			own := assignee != nil && *assignee == actor.ID
			if t.RequiresAssignment && !own {
				continue
			}
			if assignee != nil && !own {
				continue
			}
			if s == t.To && !own {
				continue
			}
		}
		out = append(out, t.Action)
	}
	return out
}
