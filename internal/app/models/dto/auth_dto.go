package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"s3cretPass"`
}

// RegisterRequest represents an alumni self-registration
type RegisterRequest struct {
	Email          string `json:"email" form:"email" binding:"required,email" example:"jane@example.com"`
	Password       string `json:"password" form:"password" binding:"required,min=8" example:"s3cretPass"`
	FirstName      string `json:"firstName" form:"first_name" binding:"required,max=50" example:"Jane"`
	LastName       string `json:"lastName" form:"last_name" binding:"required,max=50" example:"Doe"`
	GraduationYear int    `json:"graduationYear" form:"graduation_year" binding:"required" example:"2015"`
	Degree         string `json:"degree" form:"degree" binding:"max=100" example:"B.Tech"`
	Department     string `json:"department" form:"department" binding:"max=100" example:"Computer Science"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn" example:"43200"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty" example:"2592000"`
}

// LoginResponse carries the issued tokens and where the client should land
type LoginResponse struct {
	Token   TokenResponse `json:"token"`
	User    UserResponse  `json:"user"`
	Landing string        `json:"landing" example:"alumni_dashboard" enums:"admin_dashboard,alumni_dashboard,pending_approval"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	UserID  int64  `json:"userId" example:"42"`
	Message string `json:"message" example:"Registration successful! Please wait for admin approval."`
}
