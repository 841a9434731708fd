package model

// Role values carried in the JWT "role" claim and stored on users.
// The application only distinguishes customers from administrators.
const (
    RoleCustomer = "customer"
    RoleAdmin    = "admin"
)

// ValidRole reports whether s is a known role string.
func ValidRole(s string) bool {
    return s == RoleCustomer || s == RoleAdmin
}
