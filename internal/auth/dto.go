package auth

// RegisterInput carries the fields accepted on account creation.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber *string
}

// LoginInput carries the login credentials.
type LoginInput struct {
	Username string
	Password string
}

// Result is the outcome of a successful auth operation. The refresh
// token travels only in the HttpOnly cookie, never in the JSON body.
type Result struct {
	Token        string
	RefreshToken string
	Username     string
	Email        string
	Role         string
}
