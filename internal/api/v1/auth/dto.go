package auth

// AuthResponse is returned by register and login with a fresh token attached.
type AuthResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Balance  float64 `json:"balance"`
	Token    string  `json:"token"`
}
