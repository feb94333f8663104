package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestNext(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		from   Status
		want   Status
		ok     bool
	}{
		{"schedule from awaiting scheduling", ActionSchedule, StatusAwaitingScheduling, StatusScheduled, true},
		{"schedule twice", ActionSchedule, StatusScheduled, StatusScheduled, false},
		{"reschedule after rejection", ActionReschedule, StatusRejected, StatusRescheduled, true},
		{"reschedule while awaiting validation", ActionReschedule, StatusAwaitingValidation, StatusRescheduled, true},
		{"reschedule from scheduled", ActionReschedule, StatusScheduled, StatusScheduled, false},
		{"reject", ActionReject, StatusAwaitingValidation, StatusRejected, true},
		{"reject validated", ActionReject, StatusValidated, StatusValidated, false},
		{"validate", ActionValidate, StatusAwaitingValidation, StatusValidated, true},
		{"start scheduled", ActionStart, StatusScheduled, StatusInProgress, true},
		{"start rescheduled", ActionStart, StatusRescheduled, StatusInProgress, true},
		{"start re-entry", ActionStart, StatusInProgress, StatusInProgress, true},
		{"start awaiting scheduling", ActionStart, StatusAwaitingScheduling, StatusAwaitingScheduling, false},
		{"report from in progress", ActionSubmitReport, StatusInProgress, StatusAwaitingValidation, true},
		{"report from scheduled", ActionSubmitReport, StatusScheduled, StatusScheduled, false},
		{"finalize validated", ActionFinalize, StatusValidated, StatusFinalized, true},
		{"finalize in progress", ActionFinalize, StatusInProgress, StatusInProgress, false},
		{"finalize finalized", ActionFinalize, StatusFinalized, StatusFinalized, false},
		{"unknown action", Action("apagar"), StatusScheduled, StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(tt.action, tt.from)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionTableTargetsAreValid(t *testing.T) {
	for _, tr := range transitions {
		require.True(t, tr.To.Valid(), "target of %s", tr.Action)
		for _, f := range tr.From {
			require.True(t, f.Valid(), "source of %s", tr.Action)
			require.False(t, f.Terminal(), "%s leaves a terminal state", tr.Action)
		}
	}
}

func TestFinalizedIsTheOnlyTerminalState(t *testing.T) {
	for _, s := range AllStatuses() {
		leaves := false
		for _, tr := range transitions {
			if tr.Permits(s) && tr.To != s {
				leaves = true
			}
		}
		assert.Equal(t, s != StatusFinalized, leaves, "status %q", s)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Em Andamento")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("Concluída")
	assert.Error(t, err)
}

func TestActorParty(t *testing.T) {
	tests := []struct {
		actor Actor
		want  Party
	}{
		{Actor{ID: 1, AccountType: AccountClient}, PartyClient},
		{Actor{ID: 1, AccountType: AccountClient, Role: RoleAdministrator}, PartyClient},
		{Actor{ID: 2, AccountType: AccountEmployee, Role: RoleAdministrator}, PartyAdmin},
		{Actor{ID: 3, AccountType: AccountEmployee, Role: RoleInspector}, PartyInspector},
		{Actor{ID: 4, AccountType: AccountEmployee}, PartyNone},
		{Actor{}, PartyNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.actor.Party(), "%+v", tt.actor)
	}
}

func TestAvailableActions(t *testing.T) {
	client := Actor{ID: 10, AccountType: AccountClient}
	inspector := Actor{ID: 20, AccountType: AccountEmployee, Role: RoleInspector}
	admin := Actor{ID: 30, AccountType: AccountEmployee, Role: RoleAdministrator}

	assert.Equal(t, []Action{ActionSchedule}, AvailableActions(client, StatusAwaitingScheduling, nil))
	assert.ElementsMatch(t,
		[]Action{ActionReschedule, ActionReject, ActionValidate},
		AvailableActions(client, StatusAwaitingValidation, ptr(20)))

	assert.Equal(t, []Action{ActionStart}, AvailableActions(inspector, StatusScheduled, nil))
	assert.Empty(t, AvailableActions(inspector, StatusScheduled, ptr(21)))
	assert.ElementsMatch(t,
		[]Action{ActionStart, ActionSubmitReport},
		AvailableActions(inspector, StatusInProgress, ptr(20)))
	assert.Empty(t, AvailableActions(inspector, StatusInProgress, nil))
	assert.Equal(t, []Action{ActionFinalize}, AvailableActions(inspector, StatusValidated, ptr(20)))
	assert.Empty(t, AvailableActions(inspector, StatusValidated, ptr(21)))

	assert.Empty(t, AvailableActions(admin, StatusScheduled, nil))
}

func TestCanRead(t *testing.T) {
	client := Actor{ID: 10, AccountType: AccountClient}
	inspector := Actor{ID: 20, AccountType: AccountEmployee, Role: RoleInspector}
	admin := Actor{ID: 30, AccountType: AccountEmployee, Role: RoleAdministrator}
	roleless := Actor{ID: 40, AccountType: AccountEmployee}

	tests := []struct {
		name     string
		actor    Actor
		owner    int64
		assignee *int64
		status   Status
		want     bool
	}{
		{"admin sees anything", admin, 99, ptr(5), StatusFinalized, true},
		{"client sees own", client, 10, nil, StatusAwaitingScheduling, true},
		{"client blocked from others", client, 11, nil, StatusAwaitingScheduling, false},
		{"inspector sees assigned", inspector, 99, ptr(20), StatusAwaitingValidation, true},
		{"inspector blocked from other assignee", inspector, 99, ptr(21), StatusScheduled, false},
		{"inspector sees open scheduled", inspector, 99, nil, StatusScheduled, true},
		{"inspector sees open rescheduled", inspector, 99, nil, StatusRescheduled, true},
		{"inspector blocked from unscheduled", inspector, 99, nil, StatusAwaitingScheduling, false},
		{"employee without role", roleless, 99, nil, StatusScheduled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.actor, tt.owner, tt.assignee, tt.status))
		})
	}
}
