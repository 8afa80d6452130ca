package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,strongpassword"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,strongpassword"`
}

type RequestForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,strongpassword"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,notblank,max=100"`
	Language  *string `json:"language" binding:"omitempty,oneof=pt en es"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

type CreateAdminRequest struct {
	Name     string
	Email    string
	Password string
}
