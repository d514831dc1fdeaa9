package service

import (
	"context"
	"encoding/json"
	"fmt"

	"referly/internal/models"
	"referly/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) NotifyRecharge(userID uint, amountCents int64, reference string) error {
	return s.Notify(userID, "WALLET_RECHARGED", "Wallet recharged",
		"Your wallet recharge was successful.",
		map[string]interface{}{"amount_cents": amountCents, "reference": reference})
}

func (s *NotificationService) NotifyWithdrawalResolved(userID uint, amountCents int64, status string) error {
	title := "Withdrawal paid"
	body := "Your withdrawal has been paid out."
	if status == "REJECTED" {
		title = "Withdrawal rejected"
		body = "Your withdrawal was rejected and the funds returned to your wallet."
	}
	return s.Notify(userID, "WITHDRAWAL_"+status, title, body,
		map[string]interface{}{"amount_cents": amountCents})
}

func (s *NotificationService) NotifyApplicationStatus(userID uint, jobTitle, status string, applicationID uint) error {
	return s.Notify(userID, "APPLICATION_"+status, "Application update",
		fmt.Sprintf("Your application for %s is now %s", jobTitle, status),
		map[string]interface{}{"application_id": applicationID})
}

func (s *NotificationService) NotifyNewApplication(employerID uint, jobTitle string, jobID uint) error {
	return s.Notify(employerID, "NEW_APPLICATION", "New application",
		fmt.Sprintf("You received a new application for %s", jobTitle),
		map[string]interface{}{"job_id": jobID})
}

func (s *NotificationService) NotifyNewMessage(userID uint, senderName string, conversationID uint) error {
	return s.Notify(userID, "NEW_MESSAGE", "New message",
		senderName+" sent you a message",
		map[string]interface{}{"conversation_id": conversationID})
}
