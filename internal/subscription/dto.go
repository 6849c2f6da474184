// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

type PaymentRequest struct {
	Plan      string `json:"plan" validate:"required,oneof=artist artist_manager label"`
	Reference string `json:"reference" validate:"required,min=4,max=100"`
}

type ReviewRequest struct {
	Note *string `json:"note" validate:"omitempty,max=500"`
}

type PlanResponse struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	PriceINR            int               `json:"price"`
	Period              string            `json:"period"`
	MaxArtists          entitlement.Limit `json:"maxArtists"`
	MaxReleases         entitlement.Limit `json:"maxReleases"`
	MaxTracksPerRelease entitlement.Limit `json:"maxTracksPerRelease"`
	MaxFileSize         string            `json:"maxFileSize"`
	MaxReleasesPending  entitlement.Limit `json:"maxReleasesPending"`
	Features            []string          `json:"features"`
}

type StatusResponse struct {
	Plan          string     `json:"plan"`
	PlanName      string     `json:"planName"`
	Status        string     `json:"status"`
	AccountStatus string     `json:"accountStatus"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	PriceINR      int        `json:"price"`
	Features      []string   `json:"features"`
}

type PaymentResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Plan       string     `json:"plan"`
	AmountINR  int        `json:"amount"`
	Reference  string     `json:"reference"`
	Status     string     `json:"status"`
	Note       *string    `json:"note,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Plan:       p.Plan,
		AmountINR:  p.AmountINR,
		Reference:  p.Reference,
		Status:     p.Status,
		Note:       p.Note,
		ReviewedAt: p.ReviewedAt,
		CreatedAt:  p.CreatedAt,
	}
}
