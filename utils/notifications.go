package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"google.golang.org/api/option"
)

// NotificationSender delivers push and SMS messages through FCM and Twilio.
type NotificationSender struct {
	fcmClient    *messaging.Client
	twilioClient *twilio.RestClient
	twilioNumber string
}

type PushNotification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
	Sound string            `json:"sound,omitempty"`
}

type SMSMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type NotificationResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func NewNotificationSender(firebaseCredentials, twilioSID, twilioToken, twilioNumber string) (*NotificationSender, error) {
	opt := option.WithCredentialsFile(firebaseCredentials)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	fcmClient, err := app.Messaging(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}

	twilioClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: twilioSID,
		Password: twilioToken,
	})

	return &NotificationSender{
		fcmClient:    fcmClient,
		twilioClient: twilioClient,
		twilioNumber: twilioNumber,
	}, nil
}

func (ns *NotificationSender) SendPushNotification(ctx context.Context, deviceToken string, notification PushNotification) (*NotificationResult, error) {
	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: notification.Sound,
				Icon:  "ic_flood_alert",
				Color: "#1E6FD9",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: notification.Title,
						Body:  notification.Body,
					},
					Sound: notification.Sound,
				},
			},
		},
	}

	response, err := ns.fcmClient.Send(ctx, message)
	if err != nil {
		return &NotificationResult{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	return &NotificationResult{
		Success:   true,
		MessageID: response,
	}, nil
}

func (ns *NotificationSender) SendPushToMultipleDevices(ctx context.Context, deviceTokens []string, notification PushNotification) []*NotificationResult {
	results := make([]*NotificationResult, 0, len(deviceTokens))
	for _, token := range deviceTokens {
		result, _ := ns.SendPushNotification(ctx, token, notification)
		results = append(results, result)
	}
	return results
}

func (ns *NotificationSender) SendSMS(ctx context.Context, sms SMSMessage) (*NotificationResult, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(sms.To)
	params.SetFrom(ns.twilioNumber)
	params.SetBody(sms.Message)

	resp, err := ns.twilioClient.Api.CreateMessage(params)
	if err != nil {
		return &NotificationResult{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	result := &NotificationResult{Success: true}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	return result, nil
}
