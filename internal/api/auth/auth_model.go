package auth

// SignupRequest represents the expected JSON body for user registration.
type SignupRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     []string `json:"role,omitempty"` // Optional role names (defaults server-side if empty).
}

// SigninRequest represents the expected JSON body for user login.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse represents the successful JSON response after login.
type SigninResponse struct {
	Token string   `json:"token"`
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
