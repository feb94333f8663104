// Package lifecycle holds the inspection state machine: the closed status set,
// the transition table and the identity types that gate it.
package lifecycle

import "fmt"

// Status is the persisted inspection state. Values are the labels stored in
// the vistoria.status column and shown to users.
type Status string

const (
	StatusAwaitingScheduling Status = "Aguardando Agendamento da Vistoria"
	StatusScheduled          Status = "Vistoria Agendada"
	StatusInProgress         Status = "Em Andamento"
	StatusAwaitingValidation Status = "Aguardando Validação"
	StatusValidated          Status = "Vistoria Validada"
	StatusRejected           Status = "Vistoria Rejeitada"
	StatusRescheduled        Status = "Vistoria Reagendada"
	StatusFinalized          Status = "Vistoria Finalizada"
)

// InitialStatus is the state every inspection is created in.
const InitialStatus = StatusAwaitingScheduling

var allStatuses = []Status{
	StatusAwaitingScheduling,
	StatusScheduled,
	StatusInProgress,
	StatusAwaitingValidation,
	StatusValidated,
	StatusRejected,
	StatusRescheduled,
	StatusFinalized,
}

// AllStatuses returns every defined status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusFinalized
}

// ParseStatus validates a raw label.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("status desconhecido: %q", raw)
	}
	return s, nil
}

// Strings converts statuses for use in SQL IN clauses.
func Strings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
