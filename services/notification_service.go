package services

import (
	"context"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NotificationService fans alerts out to off-dashboard channels: FCM push
// to registered devices and SMS to volunteers without one. Delivery is best
// effort; failures are logged, never propagated, so a broken Twilio account
// cannot block the alert lifecycle.
type NotificationService struct {
	userRepo *repositories.UserRepository
	sender   *utils.NotificationSender
}

func NewNotificationService(userRepo *repositories.UserRepository, sender *utils.NotificationSender) *NotificationService {
	return &NotificationService{
		userRepo: userRepo,
		sender:   sender,
	}
}

// NotifyVolunteersOfAlert pushes a new alert to every available volunteer.
func (s *NotificationService) NotifyVolunteersOfAlert(ctx context.Context, alert *models.Alert) {
	if s.sender == nil {
		return
	}

	volunteers, err := s.userRepo.GetVolunteers(ctx, models.StatusAvailable)
	if err != nil {
		logrus.Errorf("Failed to load volunteers for alert fanout: %v", err)
		return
	}

	title := fmt.Sprintf("%s flood risk alert", alert.RiskScore)
	body := alert.Address
	if body == "" {
		body = utils.FormatCoordinates(alert.Location.Latitude, alert.Location.Longitude)
	}

	push := utils.PushNotification{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":    models.WSTypeAlertCreated,
			"alertId": alert.ID.Hex(),
		},
		Sound: "default",
	}

	sent := 0
	for _, volunteer := range volunteers {
		if volunteer.DeviceToken != "" {
			if _, err := s.sender.SendPushNotification(ctx, volunteer.DeviceToken, push); err != nil {
				logrus.Warnf("Push to volunteer %s failed: %v", volunteer.ID.Hex(), err)
			} else {
				sent++
			}
			continue
		}

		if volunteer.Phone != "" {
			_, err := s.sender.SendSMS(ctx, utils.SMSMessage{
				To:      volunteer.Phone,
				Message: fmt.Sprintf("FloodGuard: %s near %s. Open the app to respond.", title, body),
			})
			if err != nil {
				logrus.Warnf("SMS to volunteer %s failed: %v", volunteer.ID.Hex(), err)
			} else {
				sent++
			}
		}
	}

	logrus.Infof("Alert %s fanned out to %d of %d volunteers", alert.ID.Hex(), sent, len(volunteers))
}
