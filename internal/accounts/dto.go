package accounts

import "github.com/prensprays-byte/library-inventory-system/internal/store"

// RegisterRequest captures the fields sent to the register endpoint. Role is
// advisory: anything other than an exact "admin" produces a reader account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the redacted account shape returned to clients. Credentials are
// never part of it.
type UserDTO struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  store.Role `json:"role"`
}

// FromUser redacts a stored account into its public shape.
func FromUser(user *store.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// AuthResponse pairs a freshly signed bearer token with the authenticated
// user.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}
