package users

// CreateInput is the payload for creating a user. The password is hashed
// before it reaches the repository.
type CreateInput struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
	BranchID int64  `json:"branchId" validate:"required,gt=0"`
	IsActive *bool  `json:"isActive"`
}

// UpdateInput is the payload for updating a user. An empty password keeps
// the current one.
type UpdateInput struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
	BranchID int64  `json:"branchId" validate:"required,gt=0"`
	IsActive *bool  `json:"isActive"`
}
