package role

import (
	"mineaction/internal/common/models"
)

// DefaultRoles are the built-in definitions served ahead of any stored
// role. Their route lists drive HasRouteAccess only; the route guard has its
// own table.
func DefaultRoles() []models.RoleDefinition {
	return []models.RoleDefinition{
		{
			ID:          "admin",
			Name:        models.RoleAdmin,
			Description: "Full access to every page and setting",
			Routes:      []string{"/admin", "/profile", "/reports", "/analytics", "/settings"},
			BuiltIn:     true,
		},
		{
			ID:          "supervisor",
			Name:        models.RoleSupervisor,
			Description: "Manages projects and reviews reports",
			Routes:      []string{"/profile", "/reports", "/analytics"},
			BuiltIn:     true,
		},
		{
			ID:          "operator",
			Name:        models.RoleOperator,
			Description: "Records field activities and actions",
			Routes:      []string{"/profile"},
			BuiltIn:     true,
		},
	}
}

func isBuiltIn(nameOrID string) bool {
	for _, def := range DefaultRoles() {
		if def.Name == nameOrID || def.ID == nameOrID {
			return true
		}
	}
	return false
}

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Routes      []string `json:"routes"`
}

type UpdateRoutesRequest struct {
	Routes []string `json:"routes"`
}
