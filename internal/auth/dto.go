// AngelaMos | 2026
// dto.go

package auth

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Username    string  `json:"username"               validate:"required,min=5,max=50"`
	Password    string  `json:"password"               validate:"required,min=8,max=128"`
	FullName    string  `json:"full_name"              validate:"required,min=1,max=100"`
	Email       string  `json:"email"                  validate:"required,email,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,min=8,max=20"`
	Address     *string `json:"address,omitempty"      validate:"omitempty,max=500"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsBought    bool   `json:"is_bought"`
}

type RegisterResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
