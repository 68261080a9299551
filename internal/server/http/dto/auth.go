package dto

// CredentialsRequest carries the staff login and password for both
// registration and sign-in.
type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
