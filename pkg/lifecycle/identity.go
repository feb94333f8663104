package lifecycle

// AccountType distinguishes the two account tables.
type AccountType string

const (
	AccountClient   AccountType = "cliente"
	AccountEmployee AccountType = "funcionario"
)

// Role is the single active role of an employee.
type Role string

const (
	RoleNone          Role = ""
	RoleAdministrator Role = "Administrador"
	RoleInspector     Role = "Vistoriador"
)

// Valid reports whether r can be assigned to an employee.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleInspector
}

// Party is the lifecycle-level actor kind derived from account type and role.
type Party string

const (
	PartyNone      Party = ""
	PartyClient    Party = "client"
	PartyInspector Party = "inspector"
	PartyAdmin     Party = "admin"
)

// Actor is the verified identity attached to a request. It is trusted verbatim.
type Actor struct {
	ID          int64
	AccountType AccountType
	Role        Role
}

// Party resolves the actor kind. Employees without a role have no party.
func (a Actor) Party() Party {
	switch {
	case a.AccountType == AccountClient:
		return PartyClient
	case a.AccountType == AccountEmployee && a.Role == RoleAdministrator:
		return PartyAdmin
	case a.AccountType == AccountEmployee && a.Role == RoleInspector:
		return PartyInspector
	default:
		return PartyNone
	}
}
