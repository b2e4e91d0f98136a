package auth

import (
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/services"
)

// CanModify is the ownership policy: the owner or any admin may update or
// delete a resource. It is total and does no I/O.
func CanModify(identity models.Identity, resource services.Owned) bool {
	return identity.ID == resource.OwnerID() || identity.IsAdmin
}

// OwnerPolicy implements ResourceAuthorizer with CanModify.
// The same rule covers update and delete.
type OwnerPolicy struct{}

// NewOwnerPolicy creates the owner-or-admin authorizer
func NewOwnerPolicy() *OwnerPolicy {
	return &OwnerPolicy{}
}

// CanModify returns domain.ErrForbidden unless identity owns resource or is an admin
func (p *OwnerPolicy) CanModify(identity models.Identity, resource services.Owned) error {
	if !CanModify(identity, resource) {
		return fmt.Errorf("%s may not modify a resource owned by %s: %w",
			identity.ID, resource.OwnerID(), domain.ErrForbidden)
	}
	return nil
}
