package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"referly/internal/domain"
	"referly/internal/models"
	"referly/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrRequestNotOpen    = errors.New("referral request is not open")
	ErrRequestNotClaimed = errors.New("referral request is not claimed")
	ErrOwnRequest        = errors.New("cannot claim your own referral request")
	ErrRewardOutOfRange  = errors.New("reward amount out of allowed range")
)

// ReferralService orchestrates the paid-referral lifecycle: a claim reserves
// the reward on the requester's wallet, completion settles it and pays the
// referrer, cancellation releases it. Notifications are fire-and-forget and
// can never fail a financial operation.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	walletRepo   *repository.WalletRepository
	walletSvc    *WalletService
	notifSvc     *NotificationService
	minReward    int64
	maxReward    int64
}

func NewReferralService(
	referralRepo *repository.ReferralRepository,
	walletRepo *repository.WalletRepository,
	walletSvc *WalletService,
	notifSvc *NotificationService,
	minReward, maxReward int64,
) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		walletRepo:   walletRepo,
		walletSvc:    walletSvc,
		notifSvc:     notifSvc,
		minReward:    minReward,
		maxReward:    maxReward,
	}
}

// CreateRequest posts a new referral ask. No funds are reserved yet; the hold
// is taken at claim time.
func (s *ReferralService) CreateRequest(requesterID uint, company, roleTitle, jobURL, note string, rewardCents int64) (*models.ReferralRequest, error) {
	if rewardCents < s.minReward || rewardCents > s.maxReward {
		return nil, ErrRewardOutOfRange
	}
	req := &models.ReferralRequest{
		RequesterID: requesterID,
		Company:     company,
		RoleTitle:   roleTitle,
		JobURL:      jobURL,
		Note:        note,
		RewardCents: rewardCents,
		Status:      domain.ReferralStatusOpen,
	}
	if err := s.referralRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Claim marks an open request as taken by the referrer and places a hold for
// the reward on the requester's wallet. The status flip is guarded so two
// concurrent claims cannot both win; if the hold cannot be created the claim
// is rolled back to OPEN.
func (s *ReferralService) Claim(requestID, referrerID uint) (*models.ReferralRequest, error) {
	req, err := s.referralRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID == referrerID {
		return nil, ErrOwnRequest
	}
	if req.Status != domain.ReferralStatusOpen {
		return nil, ErrRequestNotOpen
	}
	now := time.Now()
	err = s.referralRepo.UpdateStatusIf(requestID, domain.ReferralStatusOpen, map[string]interface{}{
		"status":      domain.ReferralStatusClaimed,
		"referrer_id": referrerID,
		"claimed_at":  now,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotOpen
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.walletSvc.CreateHold(req.RequesterID, req.ID, req.RewardCents); err != nil {
		// hold failed: put the request back on the marketplace
		revertErr := s.referralRepo.UpdateStatusIf(requestID, domain.ReferralStatusClaimed, map[string]interface{}{
			"status":      domain.ReferralStatusOpen,
			"referrer_id": nil,
			"claimed_at":  nil,
		})
		if revertErr != nil {
			log.Printf("[referral] failed to revert claim on request %d: %v", requestID, revertErr)
		}
		return nil, err
	}
	req.Status = domain.ReferralStatusClaimed
	req.ReferrerID = &referrerID
	req.ClaimedAt = &now
	s.notify(req.RequesterID, "REFERRAL_CLAIMED", "Request claimed",
		fmt.Sprintf("Someone claimed your referral request for %s", req.Company),
		map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// Complete is called by the requester once the referral went through: the
// hold converts into a real debit and the referrer is paid the reward into
// their withdrawable balance.
func (s *ReferralService) Complete(requestID, requesterID uint) (*models.ReferralRequest, error) {
	req, err := s.referralRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != requesterID {
		return nil, ErrNotYours
	}
	if req.Status != domain.ReferralStatusClaimed || req.ReferrerID == nil {
		return nil, ErrRequestNotClaimed
	}
	hold, err := s.walletRepo.GetActiveHoldByRequest(req.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	// hold conversion, referrer payout and the status flip land or fail
	// together: a failed payout leaves the request CLAIMED with its hold
	// still ACTIVE, so the requester can retry
	err = s.walletSvc.withRetry(func(tx *gorm.DB) error {
		if _, err := s.walletSvc.resolveHoldTx(tx, hold.ID, requesterID, domain.HoldStatusConverted,
			fmt.Sprintf("referral reward for %s / %s", req.Company, req.RoleTitle)); err != nil {
			return err
		}
		if err := s.walletSvc.credit(tx, *req.ReferrerID, req.RewardCents, domain.TxSourceReferralPayout,
			fmt.Sprintf("referral payout for %s / %s", req.Company, req.RoleTitle),
			fmt.Sprintf("request_%d", req.ID), true); err != nil {
			return err
		}
		res := tx.Model(&models.ReferralRequest{}).
			Where("id = ? AND status = ?", req.ID, domain.ReferralStatusClaimed).
			Updates(map[string]interface{}{
				"status":      domain.ReferralStatusCompleted,
				"resolved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestNotClaimed
		}
		return nil
	})
	if err != nil {
		log.Printf("[referral] settlement failed for request %d: %v", req.ID, err)
		return nil, err
	}
	req.Status = domain.ReferralStatusCompleted
	req.ResolvedAt = &now
	s.notify(*req.ReferrerID, "REFERRAL_PAID", "Referral reward paid",
		fmt.Sprintf("You earned the reward for referring to %s", req.Company),
		map[string]interface{}{"request_id": req.ID, "amount_cents": req.RewardCents})
	s.notify(req.RequesterID, "REFERRAL_COMPLETED", "Referral completed",
		fmt.Sprintf("Your referral request for %s is complete", req.Company),
		map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// Cancel releases the hold. A requester cancel is terminal; a referrer
// backing out reopens the request on the marketplace.
func (s *ReferralService) Cancel(requestID, callerID uint) (*models.ReferralRequest, error) {
	req, err := s.referralRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	byRequester := req.RequesterID == callerID
	byReferrer := req.ReferrerID != nil && *req.ReferrerID == callerID
	if !byRequester && !byReferrer {
		return nil, ErrNotYours
	}
	switch req.Status {
	case domain.ReferralStatusOpen:
		if !byRequester {
			return nil, ErrNotYours
		}
	case domain.ReferralStatusClaimed:
		hold, err := s.walletRepo.GetActiveHoldByRequest(req.ID)
		if err != nil {
			return nil, err
		}
		if _, err := s.walletSvc.ReleaseHold(hold.ID, req.RequesterID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrRequestNotOpen
	}
	now := time.Now()
	if byReferrer {
		prevReferrer := *req.ReferrerID
		req.Status = domain.ReferralStatusOpen
		req.ReferrerID = nil
		req.ClaimedAt = nil
		if err := s.referralRepo.Update(req); err != nil {
			return nil, err
		}
		s.notify(req.RequesterID, "REFERRAL_REOPENED", "Referrer backed out",
			fmt.Sprintf("Your referral request for %s is open again", req.Company),
			map[string]interface{}{"request_id": req.ID, "referrer_id": prevReferrer})
		return req, nil
	}
	req.Status = domain.ReferralStatusCancelled
	req.ResolvedAt = &now
	if err := s.referralRepo.Update(req); err != nil {
		return nil, err
	}
	if req.ReferrerID != nil {
		s.notify(*req.ReferrerID, "REFERRAL_CANCELLED", "Request cancelled",
			fmt.Sprintf("The referral request for %s was cancelled", req.Company),
			map[string]interface{}{"request_id": req.ID})
	}
	return req, nil
}

func (s *ReferralService) notify(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.notifSvc == nil {
		return
	}
	if err := s.notifSvc.Notify(userID, notifType, title, body, data); err != nil {
		log.Printf("[referral] notify %s to user %d failed: %v", notifType, userID, err)
	}
}
