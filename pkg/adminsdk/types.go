package adminsdk

import "encoding/json"

// Credentials are the operator-entered login fields. The Username field is
// transmitted as the `email` wire attribute; see Client.Login.
type Credentials struct {
	Username string
	Password string
}

// AdminProfile is the subset of the admin account the endpoint returns after
// a successful login. It never contains the password hash.
type AdminProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Active    bool   `json:"is_active"`
}

// Session is the credential a successful login yields: an opaque bearer token
// plus the profile snapshot. RawProfile preserves the admin object exactly as
// the endpoint sent it, for storage.
type Session struct {
	Token      string
	Profile    AdminProfile
	RawProfile json.RawMessage
}

// loginRequest is the wire body for POST /api/auth/admin/login. The UI's
// username is sent as `email` — an external contract quirk preserved for
// compatibility with the deployed endpoint.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Token string          `json:"token"`
		Admin json.RawMessage `json:"admin"`
	} `json:"data"`
}
