// AngelaMos | 2026
// entity.go

package subscription

import "time"

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// Payment is a manually-reviewed payment submission. Approval is what
// activates the paid plan; until then the account sits in
// pending_approval.
type Payment struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Plan       string     `db:"plan"`
	AmountINR  int        `db:"amount_inr"`
	Reference  string     `db:"reference"`
	Status     string     `db:"status"`
	Note       *string    `db:"note"`
	ReviewedBy *string    `db:"reviewed_by"`
	ReviewedAt *time.Time `db:"reviewed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
