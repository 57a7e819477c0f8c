package roles

// RoleInput is the create/update payload.
type RoleInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// PermissionsInput replaces a role's capability grants.
type PermissionsInput struct {
	Capabilities []string `json:"capabilities" validate:"required"`
}
