package rbac

// Default policy. Editors manage content; candidate results and analytics
// stay admin-only.
var RolePermissions = map[string][]string{
	"editor": {
		"question:*",
		"test:create",
		"test:edit",
		"test:view",
	},
	"admin": {
		"*", // everything
	},
}
