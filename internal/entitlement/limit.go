// AngelaMos | 2026
// limit.go

package entitlement

import (
	"encoding/json"
	"strconv"
)

// Limit is a quota ceiling. The Unlimited sentinel never denies.
type Limit int64

const Unlimited Limit = -1

func (l Limit) IsUnlimited() bool {
	return l < 0
}

// Allows reports whether one more unit fits under the ceiling.
func (l Limit) Allows(current int64) bool {
	return l.IsUnlimited() || current < int64(l)
}

func (l Limit) String() string {
	if l.IsUnlimited() {
		return "Unlimited"
	}
	return strconv.FormatInt(int64(l), 10)
}

// MarshalJSON renders Unlimited as the string "Unlimited" and bounded
// ceilings as plain numbers, matching the public API contract.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.IsUnlimited() {
		return json.Marshal("Unlimited")
	}
	return json.Marshal(int64(l))
}
