// Package policy decides whether a request may perform an action. It is the
// only place where roles and ownership are compared; every route guard and
// every service mutation goes through Authorize.
package policy

import (
	"github.com/ctvnews/newsroom/internal/core/domain"
)

// Capability names what an action requires from the caller.
type Capability int

const (
	// Public actions need no credential.
	Public Capability = iota
	// Authenticated actions need a valid, unexpired token of any role.
	Authenticated
	// EditContent needs a valid token whose holder owns the resource or is
	// an admin. Unowned resources are editable by admins only.
	EditContent
	// AdminOnly needs a valid admin token.
	AdminOnly
	// CreateAccount guards registration once the first account exists: a
	// missing token or a non-admin token is forbidden, an undecodable one is
	// unauthenticated.
	CreateAccount
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case EditContent:
		return "edit_content"
	case AdminOnly:
		return "admin_only"
	case CreateAccount:
		return "create_account"
	default:
		return "unknown"
	}
}

// Credential is what a request presented. Identity is set only when a token
// was presented and decoded successfully.
type Credential struct {
	Identity  *domain.Identity
	Presented bool
	DecodeErr error
}

// Anonymous is the credential of a request without a token.
var Anonymous = Credential{}

// Verified wraps a decoded identity.
func Verified(id *domain.Identity) Credential {
	return Credential{Identity: id, Presented: true}
}

// Rejected records a token that failed to decode.
func Rejected(err error) Credential {
	return Credential{Presented: true, DecodeErr: err}
}

// Valid reports whether the credential carries a usable identity.
func (c Credential) Valid() bool {
	return c.Identity != nil && c.DecodeErr == nil
}

// ActorID returns the account id of a valid credential, nil otherwise.
func (c Credential) ActorID() *int64 {
	if !c.Valid() {
		return nil
	}
	id := c.Identity.UserID
	return &id
}

// Authorize returns nil when cred may perform an action requiring capability
// on a resource owned by ownerID. ownerID only matters for EditContent and
// must come from a lookup that already confirmed the resource exists.
// Failures match domain.ErrUnauthenticated or domain.ErrForbidden.
func Authorize(cred Credential, capability Capability, ownerID *int64) error {
	if capability == Public {
		return nil
	}

	if capability == CreateAccount {
		switch {
		case !cred.Presented:
			return domain.ErrOnlyAdminCreates
		case !cred.Valid():
			return domain.ErrUnauthenticated
		case !cred.Identity.Elevated():
			return domain.ErrOnlyAdminCreates
		}
		return nil
	}

	if !cred.Valid() {
		return domain.ErrUnauthenticated
	}

	switch capability {
	case Authenticated:
		return nil
	case EditContent:
		if cred.Identity.Elevated() || cred.Identity.Owns(ownerID) {
			return nil
		}
		return domain.ErrNotOwner
	case AdminOnly:
		if cred.Identity.Elevated() {
			return nil
		}
		return domain.ErrAdminRequired
	}
	return domain.ErrForbidden
}
