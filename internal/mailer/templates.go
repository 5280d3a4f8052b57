package mailer

import (
	"fmt"
	"time"
)

// Email copy for the user-facing lifecycle events. Plain text on purpose:
// matrimony users read these on basic mail clients.

func InterestReceivedEmail(receiverName, senderName string) (string, string) {
	subject := "Someone is interested in your profile"
	body := fmt.Sprintf(
		"Dear %s,\n\n%s has expressed interest in your profile. Log in to view their profile and respond.\n\nWarm regards,\nThe Matrimony Team",
		receiverName, senderName)
	return subject, body
}

func InterestAcceptedEmail(senderName, receiverName string) (string, string) {
	subject := "Your interest was accepted"
	body := fmt.Sprintf(
		"Dear %s,\n\nGood news! %s has accepted your interest. You can now start a conversation.\n\nWarm regards,\nThe Matrimony Team",
		senderName, receiverName)
	return subject, body
}

func NewMessageEmail(receiverName, senderName string) (string, string) {
	subject := "You have a new message"
	body := fmt.Sprintf(
		"Dear %s,\n\n%s has sent you a message. Log in to read and reply.\n\nWarm regards,\nThe Matrimony Team",
		receiverName, senderName)
	return subject, body
}

func ProfileVerifiedEmail(name string) (string, string) {
	subject := "Your profile has been verified"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour profile has been verified and is now visible to other members.\n\nWarm regards,\nThe Matrimony Team",
		name)
	return subject, body
}

func ProfileRejectedEmail(name, reason string) (string, string) {
	subject := "Your profile could not be verified"
	if reason == "" {
		reason = "It did not meet our listing guidelines."
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nWe were unable to verify your profile. Reason: %s\n\nPlease update your profile and it will be reviewed again.\n\nWarm regards,\nThe Matrimony Team",
		name, reason)
	return subject, body
}

func PaymentApprovedEmail(name, planName string, expiresAt time.Time) (string, string) {
	subject := "Your subscription is active"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour payment has been approved. Your %s plan is active until %s.\n\nWarm regards,\nThe Matrimony Team",
		name, planName, expiresAt.Format("2 January 2006"))
	return subject, body
}

func PaymentRejectedEmail(name, note string) (string, string) {
	subject := "Your payment could not be verified"
	if note == "" {
		note = "The payment proof could not be matched to a transaction."
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nWe could not verify your payment. Note from our team: %s\n\nPlease submit a new payment proof.\n\nWarm regards,\nThe Matrimony Team",
		name, note)
	return subject, body
}
