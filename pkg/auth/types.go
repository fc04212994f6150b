package auth

// Session holds the authenticated identity's public profile fields.
// It is replaced wholesale on login/signup and cleared on logout, never
// partially updated.
type Session struct {
	// ID is the account identifier, assigned at signup.
	ID string `json:"id"`
	// Email is unique among registered accounts (case-sensitive).
	Email string `json:"email"`
	// FirstName is the account holder's given name.
	FirstName string `json:"firstName"`
	// LastName is the account holder's family name.
	LastName string `json:"lastName"`
	// CreatedAt is the signup time as an RFC 3339 string.
	CreatedAt string `json:"createdAt"`
}

// State is the auth store's observable value.
//
// The implied machine is anonymous → authenticating → authenticated:
// Loading marks the authenticating phase, Authenticated the terminal
// success state. Err carries the business rejection for the last failed
// action, empty when there is none.
type State struct {
	Session       *Session
	Authenticated bool
	Loading       bool
	Err           string
}

// persistedState is the durable subset written on every mutation.
// Loading and Err are transient and always reset to false/"" on reload.
type persistedState struct {
	Session         *Session `json:"session"`
	IsAuthenticated bool     `json:"isAuthenticated"`
}

// Action error strings surfaced through State.Err.
const (
	errInvalidCredentials = "Invalid email or password"
	errEmailTaken         = "User with this email already exists"
	errUnknownEmail       = "No account found with this email address"
)
