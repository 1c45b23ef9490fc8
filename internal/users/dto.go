package users

// RegisterRequest is the payload accepted by POST /api/users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the payload accepted by the raw POST /api/users path.
// The password travels as plaintext and is hashed before the row is written;
// the hash itself is never accepted from or exposed to callers.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload accepted by POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token plus the authenticated user id.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}
