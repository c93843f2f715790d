// Package authz implements the Authorization Gate (C9): a single place
// every service method consults before acting on a resource it loaded by
// id, so an ownership mismatch always surfaces as domain.ErrForbidden
// rather than a generic validation error or a leaked domain.ErrNotFound.
package authz

import "github.com/pocketledger/ledger-backend/internal/domain"

// Owns reports whether principalID may act on a resource owned by ownerID.
// isAdmin grants the bypass spec describes for administrative principals.
func Owns(ownerID, principalID int64, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if ownerID != principalID {
		return domain.ErrForbidden
	}
	return nil
}
