package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"protrack/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: ProTrack <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML Wrapper for the notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>PROTRACK</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 ProTrack. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Progress Approved (To Student)
func SendProgressApprovedEmail(email, name, courseTitle string) {
	subject := "Course Completed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your submission for <strong>%s</strong> has been approved. The course is now marked as completed.</p>
		<p>Your next course has been unlocked where applicable. Keep going!</p>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Progress Approved", body))
}

// 2. Progress Rejected (To Student)
func SendProgressRejectedEmail(email, name, courseTitle, reason string) {
	subject := "Submission Rejected: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately, your submission for <strong>%s</strong> was rejected.</p>
		<div style="color: #dc3545; font-weight: bold;">Reason: %s</div>
		<p>Please make the necessary changes and submit again.</p>
	`, name, courseTitle, reason)

	go SendEmail([]string{email}, subject, getEmailTemplate("Submission Rejected", body))
}

// 3. Course Unlocked (To Student)
func SendCourseUnlockedEmail(email, name, courseTitle string) {
	subject := "New Course Unlocked: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p><strong>%s</strong> is now open for you.</p>
		<div class="info-box">
			Log in to your dashboard to see the session and project requirements.
		</div>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Unlocked", body))
}

// 4. Stale Pending Approvals Digest (To Admin)
func SendPendingDigestEmail(email string, count int, days int) {
	subject := fmt.Sprintf("%d submissions awaiting approval", count)
	body := fmt.Sprintf(`
		<p>There are <strong>%d</strong> submissions that have been pending approval for more than %d days.</p>
		<p>Open the Quick Track view to process them in bulk.</p>
	`, count, days)

	go SendEmail([]string{email}, subject, getEmailTemplate("Pending Approvals Digest", body))
}
