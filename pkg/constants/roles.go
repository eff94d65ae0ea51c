// pkg/constants/roles.go
package constants

//============== USER ROLES ==============

// Коды ролей. Используются в бизнес-логике для надежности.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// HeaderTenantKey — заголовок, по которому резолвится тенант.
const HeaderTenantKey = "X-Tenant-Key"
