package auth

import "userhub/internal/model"

// DenyReason classifies why a request was refused.
type DenyReason int

const (
	// Unauthenticated means no valid session accompanied the request.
	Unauthenticated DenyReason = iota + 1
	// Forbidden means the session holder is not permitted to act.
	Forbidden
)

// Decision is the outcome of the authorization policy.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Message string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason DenyReason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Decide evaluates the self-or-admin policy for a mutation against the
// user identified by targetID. touchesRole must be true when the update
// payload asks for a role change; only admins may request one, even on
// their own row. Delete never touches a privileged field.
func Decide(caller *Claims, targetID uint, touchesRole bool) Decision {
	if caller == nil {
		return deny(Unauthenticated, "Unauthorized")
	}
	isOwner := caller.UserID == targetID
	isAdmin := caller.Role == model.RoleAdmin
	if !isOwner && !isAdmin {
		return deny(Forbidden, "cannot act on other users")
	}
	if touchesRole && !isAdmin {
		return deny(Forbidden, "only admin can change role")
	}
	return allow()
}
