package services

import "catalog/internal/domain/models"

// Owned is any resource carrying an owning identity id
type Owned interface {
	OwnerID() string
}

// ResourceAuthorizer decides whether a resolved identity may mutate a resource.
// Current implementation: owner-or-admin.
//
// Services call the authorizer after fetching the resource and before writing.
// Absence of an identity is the caller's problem; authorizers never see one.
type ResourceAuthorizer interface {
	// CanModify returns nil when allowed and an error wrapping domain.ErrForbidden otherwise
	CanModify(identity models.Identity, resource Owned) error
}
