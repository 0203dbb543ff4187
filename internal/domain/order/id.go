package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// ItemID identifies a sub-record of an order aggregate. It is a tagged
// union: either a persistent identifier assigned by the upstream system,
// or a temporary identifier generated locally for a record that has not
// been persisted yet. The two spaces cannot overlap by construction, so
// no magnitude or length inference is ever needed.
type ItemID struct {
	persistent int64
	temporary  uuid.UUID
}

// PersistentID creates an ItemID for an upstream-assigned identifier
func PersistentID(n int64) ItemID {
	return ItemID{persistent: n}
}

// NewTemporaryID creates a fresh client-local identifier
func NewTemporaryID() ItemID {
	return ItemID{temporary: uuid.New()}
}

// IsTemporary reports whether the identifier is a client-local placeholder
func (id ItemID) IsTemporary() bool {
	return id.temporary != uuid.Nil
}

// IsZero reports whether the identifier is unset
func (id ItemID) IsZero() bool {
	return id.persistent == 0 && id.temporary == uuid.Nil
}

// Persistent returns the upstream identifier and true if the ID is persistent
func (id ItemID) Persistent() (int64, bool) {
	if id.IsTemporary() || id.persistent == 0 {
		return 0, false
	}
	return id.persistent, true
}

// SubmissionID returns the identifier to place on a wire submission:
// the persistent value, or nil for a temporary identifier so the
// upstream collaborator treats the record as an insert.
func (id ItemID) SubmissionID() *int64 {
	if n, ok := id.Persistent(); ok {
		return &n
	}
	return nil
}

// String renders the identifier as "p:<n>" or "t:<uuid>"
func (id ItemID) String() string {
	if id.IsTemporary() {
		return "t:" + id.temporary.String()
	}
	if id.persistent == 0 {
		return ""
	}
	return "p:" + strconv.FormatInt(id.persistent, 10)
}

// Less orders identifiers for comparison purposes: persistent before
// temporary, then by numeric value or uuid string. The ordering is
// arbitrary but total, which is all the snapshot comparator needs.
func (id ItemID) Less(other ItemID) bool {
	it, ot := id.IsTemporary(), other.IsTemporary()
	if it != ot {
		return !it
	}
	if it {
		return strings.Compare(id.temporary.String(), other.temporary.String()) < 0
	}
	return id.persistent < other.persistent
}

// ParseItemID parses the String form of an ItemID
func ParseItemID(s string) (ItemID, error) {
	switch {
	case s == "":
		return ItemID{}, nil
	case strings.HasPrefix(s, "p:"):
		n, err := strconv.ParseInt(s[2:], 10, 64)
		if err != nil || n <= 0 {
			return ItemID{}, shared.NewDomainError("INVALID_ID", fmt.Sprintf("Invalid persistent identifier %q", s))
		}
		return PersistentID(n), nil
	case strings.HasPrefix(s, "t:"):
		u, err := uuid.Parse(s[2:])
		if err != nil {
			return ItemID{}, shared.NewDomainError("INVALID_ID", fmt.Sprintf("Invalid temporary identifier %q", s))
		}
		return ItemID{temporary: u}, nil
	default:
		return ItemID{}, shared.NewDomainError("INVALID_ID", fmt.Sprintf("Invalid identifier %q", s))
	}
}

// MarshalJSON renders the identifier in its string form
func (id ItemID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

// UnmarshalJSON parses the string form
func (id *ItemID) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := ParseItemID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
