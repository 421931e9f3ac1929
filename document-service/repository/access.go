package repository

import "github.com/google/uuid"

// AccessResult is the outcome of an ownership/visibility check
type AccessResult int

const (
	AccessUnknown AccessResult = iota
	AccessFull
	AccessReadOnly
	AccessNotFound
	AccessNotPermitted
)

func (a AccessResult) String() string {
	switch a {
	case AccessFull:
		return "FullAccess"
	case AccessReadOnly:
		return "ReadOnly"
	case AccessNotFound:
		return "NotFound"
	case AccessNotPermitted:
		return "NotPermitted"
	default:
		return "Unknown"
	}
}

// CanRead reports whether the access level allows reading content
func (a AccessResult) CanRead() bool {
	return a == AccessFull || a == AccessReadOnly
}

// accessFor computes the access level of a caller against an object's owner
// and public flag
func accessFor(userID, ownerID uuid.UUID, isPublic bool) AccessResult {
	if userID == ownerID {
		return AccessFull
	}
	if isPublic {
		return AccessReadOnly
	}
	return AccessNotPermitted
}
