package dto

type StaffLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Email  string  `json:"email"`
	Expiry float64 `json:"expiry"`
	Iat    float64 `json:"iat"`
}
