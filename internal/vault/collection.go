package vault

import (
	"fmt"
	"strings"
)

// Collection identifies one of the listing endpoints.
type Collection int

const (
	// CollectionOwn is the user's own uploaded files.
	CollectionOwn Collection = iota
	// CollectionReceived is files other users shared with the user.
	CollectionReceived
	// CollectionShared is files the user shared with others.
	CollectionShared
)

// Collections lists every collection in display order.
func Collections() []Collection {
	return []Collection{CollectionOwn, CollectionReceived, CollectionShared}
}

// String returns the canonical collection name.
func (c Collection) String() string {
	switch c {
	case CollectionOwn:
		return "own"
	case CollectionReceived:
		return "received"
	case CollectionShared:
		return "shared"
	default:
		return fmt.Sprintf("collection(%d)", int(c))
	}
}

// Title returns a human label for headers.
func (c Collection) Title() string {
	switch c {
	case CollectionOwn:
		return "My Wallet"
	case CollectionReceived:
		return "Received Files"
	case CollectionShared:
		return "Shared Files"
	default:
		return c.String()
	}
}

// Path returns the listing endpoint path. Browse and search share the endpoint;
// search adds the keyword parameter.
func (c Collection) Path() string {
	switch c {
	case CollectionReceived:
		return "/api/shared-files/to-me"
	case CollectionShared:
		return "/api/shared-files/by-me"
	default:
		return "/api/auth/files/fetch-all"
	}
}

// ParseCollection parses a collection name or one of its aliases.
func ParseCollection(s string) (Collection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "own", "mine", "wallet":
		return CollectionOwn, nil
	case "received", "to-me":
		return CollectionReceived, nil
	case "shared", "by-me":
		return CollectionShared, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: own, received, shared)", ErrUnknownCollection, s)
	}
}
