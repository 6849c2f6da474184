// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/soundline/internal/entitlement"
	"github.com/carterperez-dev/soundline/internal/notify"
	"github.com/carterperez-dev/soundline/internal/user"
)

var (
	ErrPaymentAlreadyPending = errors.New("a payment is already pending review")
	ErrAlreadyReviewed       = errors.New("payment already reviewed")
)

const paidTermYears = 1

type Service struct {
	repo      Repository
	users     user.Repository
	publisher notify.Publisher
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	users user.Repository,
	publisher notify.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Plans returns the public catalog in ascending tier order.
func (s *Service) Plans() []PlanResponse {
	plans := entitlement.Plans()
	responses := make([]PlanResponse, 0, len(plans))

	for _, plan := range plans {
		details := entitlement.PlanFor(plan)
		responses = append(responses, PlanResponse{
			ID:                  string(plan),
			Name:                details.Name,
			PriceINR:            details.YearlyPriceINR,
			Period:              string(details.Period),
			MaxArtists:          details.MaxArtists,
			MaxReleases:         details.MaxReleasesPerPeriod,
			MaxTracksPerRelease: details.MaxTracksPerPeriod,
			MaxFileSize:         entitlement.FormatFileSize(details.MaxFileSize),
			MaxReleasesPending:  details.MaxReleasesPending,
			Features:            details.Features,
		})
	}

	return responses
}

func (s *Service) Status(subject *entitlement.Subject) StatusResponse {
	details := entitlement.PlanFor(subject.Subscription.Plan)

	return StatusResponse{
		Plan:          string(subject.Subscription.Plan),
		PlanName:      details.Name,
		Status:        subject.Subscription.Status,
		AccountStatus: string(subject.Status),
		StartDate:     subject.Subscription.StartDate,
		EndDate:       subject.Subscription.EndDate,
		PriceINR:      details.YearlyPriceINR,
		Features:      details.Features,
	}
}

// SubmitPayment records a manual payment reference and parks the account
// in pending_approval until an admin reviews it.
func (s *Service) SubmitPayment(
	ctx context.Context,
	subject *entitlement.Subject,
	req PaymentRequest,
) (*PaymentResponse, error) {
	if latest, err := s.repo.LatestPaymentForUser(ctx, subject.ID); err == nil &&
		latest.Status == PaymentPending {
		return nil, ErrPaymentAlreadyPending
	}

	plan := entitlement.Plan(req.Plan)
	details := entitlement.PlanFor(plan)

	payment := &Payment{
		ID:        uuid.New().String(),
		UserID:    subject.ID,
		Plan:      req.Plan,
		AmountINR: details.YearlyPriceINR,
		Reference: req.Reference,
		Status:    PaymentPending,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	account, err := s.users.GetByID(ctx, subject.ID)
	if err != nil {
		return nil, err
	}

	account.Status = string(entitlement.StatusPendingApproval)
	account.SubscriptionPlan = req.Plan
	account.SubscriptionStatus = entitlement.SubscriptionPendingApproval

	if err := s.users.UpdateSubscription(ctx, account); err != nil {
		return nil, err
	}

	s.publish(ctx, notify.Event{
		Type:       notify.EventPaymentSubmitted,
		UserID:     subject.ID,
		Plan:       req.Plan,
		ResourceID: payment.ID,
	})

	resp := toPaymentResponse(payment)
	return &resp, nil
}

// Cancel marks the subscription canceled. Access continues until the
// paid-through end date; expiry enforcement picks it up from there.
func (s *Service) Cancel(
	ctx context.Context,
	subject *entitlement.Subject,
) error {
	account, err := s.users.GetByID(ctx, subject.ID)
	if err != nil {
		return err
	}

	account.SubscriptionStatus = entitlement.SubscriptionCanceled

	return s.users.UpdateSubscription(ctx, account)
}

func (s *Service) ListPending(ctx context.Context) ([]PaymentResponse, error) {
	payments, err := s.repo.ListPendingPayments(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, toPaymentResponse(&payments[i]))
	}
	return responses, nil
}

// Approve activates the paid plan for one year and restores full access.
func (s *Service) Approve(
	ctx context.Context,
	reviewerID, paymentID string,
	note *string,
) error {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	if payment.Status != PaymentPending {
		return ErrAlreadyReviewed
	}

	err = s.repo.ReviewPayment(ctx, paymentID, PaymentApproved, reviewerID, note)
	if err != nil {
		return err
	}

	account, err := s.users.GetByID(ctx, payment.UserID)
	if err != nil {
		return err
	}

	now := time.Now()
	end := now.AddDate(paidTermYears, 0, 0)

	account.Status = string(entitlement.StatusActive)
	account.SubscriptionPlan = payment.Plan
	account.SubscriptionStatus = entitlement.SubscriptionActive
	account.SubscriptionStartDate = &now
	account.SubscriptionEndDate = &end

	if err := s.users.UpdateSubscription(ctx, account); err != nil {
		return err
	}

	s.publish(ctx, notify.Event{
		Type:       notify.EventAccountApproved,
		UserID:     payment.UserID,
		Plan:       payment.Plan,
		ResourceID: payment.ID,
	})

	return nil
}

// Reject marks the payment rejected. The account keeps read access to
// its profile and can resubmit payment.
func (s *Service) Reject(
	ctx context.Context,
	reviewerID, paymentID string,
	note *string,
) error {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	if payment.Status != PaymentPending {
		return ErrAlreadyReviewed
	}

	err = s.repo.ReviewPayment(ctx, paymentID, PaymentRejected, reviewerID, note)
	if err != nil {
		return err
	}

	if err := s.users.UpdateStatus(
		ctx, payment.UserID, string(entitlement.StatusRejected)); err != nil {
		return err
	}

	s.publish(ctx, notify.Event{
		Type:       notify.EventAccountRejected,
		UserID:     payment.UserID,
		Plan:       payment.Plan,
		ResourceID: payment.ID,
	})

	return nil
}

// publish is best effort. A broker outage must not fail the state
// change that already committed.
func (s *Service) publish(ctx context.Context, event notify.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("event publish failed",
			"type", event.Type,
			"user_id", event.UserID,
			"error", err,
		)
	}
}
