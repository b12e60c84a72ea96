package users

// Identity is the authenticated user as known to the server.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Session is one authenticated user for the lifetime of the process.
type Session struct {
	Token    string   `json:"-"`
	Identity Identity `json:"identity"`
}

// Credentials is the login and register request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
