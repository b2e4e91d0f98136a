package models

// RawClaims is the verified-but-unnormalized payload of a bearer token.
// Roles keeps whatever JSON value the roles claim carried (nil when absent).
type RawClaims struct {
	Subject  string
	Roles    interface{}
	Audience []string
	Issuer   string
}

// Identity is the authenticated caller, resolved once per request.
// It is never persisted.
type Identity struct {
	ID      string
	IsAdmin bool
}

// AdminRole is the role string that grants moderation rights over every resource.
const AdminRole = "admin"

// HasAdminRole reports whether the roles claim is a list containing "admin".
// A missing claim or a non-list value is simply "not admin".
func (c RawClaims) HasAdminRole() bool {
	switch roles := c.Roles.(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && s == AdminRole {
				return true
			}
		}
	case []string:
		for _, s := range roles {
			if s == AdminRole {
				return true
			}
		}
	}
	return false
}
