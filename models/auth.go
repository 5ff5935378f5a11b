package models

type RegisterRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RequestOTPRequest starts a phone sign-in by sending a one-time code.
type RequestOTPRequest struct {
	Phone string `json:"phone" binding:"required" validate:"required,e164"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required" validate:"required,e164"`
	Code  string `json:"code" binding:"required" validate:"required,len=6,numeric"`
}

type AuthResponse struct {
	User   *User       `json:"user"`
	Tokens interface{} `json:"tokens"`
}
