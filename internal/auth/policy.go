package auth

import (
	apperrors "acquisition/internal/errors"
	"acquisition/internal/model"
)

// Action classifies what an endpoint is about to do with a target user.
type Action int

const (
	// ActionReadSelfOrAdmin allows the caller to read its own record, or any
	// record when the caller is an admin.
	ActionReadSelfOrAdmin Action = iota
	// ActionWriteSelfOrAdmin allows the caller to mutate its own record, or
	// any record when the caller is an admin.
	ActionWriteSelfOrAdmin
	// ActionAdminOnly restricts the operation to admins.
	ActionAdminOnly
)

// Authorize decides whether the caller may perform the action on the target
// user. It is a pure function with no side effects. Rules are evaluated in
// order:
//
//  1. No valid token: unauthorized.
//  2. Admin-only action by a non-admin: forbidden.
//  3. Self-or-admin action on another user by a non-admin: forbidden.
//  4. A role change by a non-admin: forbidden, regardless of ownership.
//
// Rule 4 is independent of rule 3: an admin may change anyone's role, while
// a non-admin may never change a role, not even their own.
func Authorize(claims *Claims, targetID uint, action Action, changesRole bool) error {
	if claims == nil {
		return apperrors.ErrUnauthorized
	}

	admin := claims.Role == model.RoleAdmin

	if action == ActionAdminOnly && !admin {
		return apperrors.ErrForbidden
	}

	if (action == ActionReadSelfOrAdmin || action == ActionWriteSelfOrAdmin) &&
		claims.UserID != targetID && !admin {
		return apperrors.ErrForbidden
	}

	if changesRole && !admin {
		return apperrors.ErrForbidden
	}

	return nil
}
