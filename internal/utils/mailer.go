package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"clinic-api-server/internal/config"
)

// SendResetCodeEmail delivers a password reset code to the user.
func SendResetCodeEmail(cfg *config.Config, email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SMTP.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password Reset Code")
	m.SetBody("text/plain", "Your password reset code is: "+code+
		"\n\nThe code expires in "+fmt.Sprintf("%d", cfg.ResetCodeExpiryMinutes)+" minutes. "+
		"If you did not request a reset, you can ignore this email.")

	d := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
