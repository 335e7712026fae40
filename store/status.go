package store

import "fmt"

// Status is the verification-progress tag of a stored light block. Exactly
// one status applies to any stored height at a time.
type Status byte

const (
	// Unverified marks a block that has been fetched but not yet verified.
	Unverified Status = iota

	// Verified marks a block whose signatures and content checked out.
	Verified

	// Trusted marks a verified block linked back to a trust anchor.
	Trusted

	// Failed marks a block rejected by verification.
	Failed
)

// Statuses returns every status, in the fixed order used when clearing a
// height out of the other tables.
func Statuses() []Status {
	return []Status{Unverified, Verified, Trusted, Failed}
}

func (s Status) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Verified:
		return "verified"
	case Trusted:
		return "trusted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown status (%d)", byte(s))
	}
}
