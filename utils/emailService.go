package utils

import (
	"fmt"
	"log"

	"noc/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends a single HTML email through SendGrid.
func SendEmail(to string, subject string, htmlBody string) error {
	from := mail.NewEmail("Placement Cell", config.AppConfig.EmailSender)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", htmlBody)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", to, response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

// HTML wrapper shared by all portal emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F8F9FA; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #D05C24; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #333333; line-height: 1.6; }
			.content h2 { color: #D05C24; margin-top: 0; }
			.footer { background-color: #F8F9FA; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #FDF3EE; padding: 15px; border-radius: 4px; border-left: 4px solid #D97C4F; margin: 20px 0; }
			.status-badge { display: inline-block; padding: 4px 10px; border-radius: 4px; font-size: 13px; font-weight: bold; color: white; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>PLACEMENT CELL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message from the NOC portal. Please do not reply.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendDecisionEmail informs the student of the final (stage-2) outcome. This
// one is sent synchronously so the caller can surface delivery failures as a
// warning beside the committed decision.
func SendDecisionEmail(email, name, decision, reason string) error {
	approved := decision == "APPROVED"

	subject := "Your NOC Application Status"
	badgeColor := "#DC3545"
	statusLine := "REJECTED"
	detail := fmt.Sprintf(`<div class="info-box" style="border-left-color: #DC3545;"><strong>Reason:</strong> %s</div>
		<p>Please review the remarks above, make the necessary changes and submit a fresh application.</p>`, reason)

	if approved {
		badgeColor = "#28A745"
		statusLine = "APPROVED"
		detail = `<p>Your No Objection Certificate has been generated and is ready for collection from the Placement Cell.</p>`
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your Placement Application has been reviewed by the Head of Department.</p>
		<div style="margin: 20px 0;">
			<span class="status-badge" style="background-color: %s;">%s</span>
		</div>
		%s
		<p>Best regards,<br>Placement Cell</p>
	`, name, badgeColor, statusLine, detail)

	return SendEmail(email, subject, getEmailTemplate("NOC Application Update", body))
}

// SendOTPEmail delivers the one-time code used to verify the student's
// institutional email before submission.
func SendOTPEmail(otp, email string) error {
	subject := "OTP Verification Code for NOC Application"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #D05C24; font-size: 40px; margin: 20px 0;">%s</h1>
		<p style="font-size: 14px; color: #999999;">The code expires in %d minutes. Do not share it with anyone.</p>
	`, otp, config.AppConfig.OTPTTLMinutes)

	return SendEmail(email, subject, getEmailTemplate("Verify Your Email", body))
}

// SendStaffWelcomeEmail notifies a newly created FPC/HOD account.
func SendStaffWelcomeEmail(email, name, role, department string) {
	subject := "Your NOC Portal Account"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>An account has been created for you on the NOC portal.</p>
		<div class="info-box">
			<strong>Role:</strong> %s<br>
			<strong>Department:</strong> %s
		</div>
		<p>Please log in with the credentials shared by the administrator and change your password.</p>
	`, name, role, department)

	go SendEmail(email, subject, getEmailTemplate("Welcome to the NOC Portal", body))
}
