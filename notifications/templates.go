package notifications

import (
	"fmt"
	"html"
)

func RegistrationDecisionEmail(fullName, programName, applicationNumber, status, note string) (string, string) {
	subject := fmt.Sprintf("Update on your registration %s", applicationNumber)
	body := fmt.Sprintf(
		"<h1>Registration %s</h1><p>Hello %s,</p><p>Your registration <b>%s</b> for <b>%s</b> is now <b>%s</b>.</p>",
		html.EscapeString(status), html.EscapeString(fullName), html.EscapeString(applicationNumber),
		html.EscapeString(programName), html.EscapeString(status),
	)
	if note != "" {
		body += fmt.Sprintf("<p><b>Admin note:</b> %s</p>", html.EscapeString(note))
	}
	return subject, body
}

func SubmissionReviewedEmail(fullName, title, status, feedback string) (string, string) {
	subject := fmt.Sprintf("Your submission \"%s\" was %s", title, status)
	body := fmt.Sprintf("<h1>Submission reviewed</h1><p>Hello %s,</p><p>Your submission <b>%s</b> was <b>%s</b>.</p>",
		html.EscapeString(fullName), html.EscapeString(title), html.EscapeString(status))
	if feedback != "" {
		body += fmt.Sprintf("<p><b>Feedback:</b> %s</p>", html.EscapeString(feedback))
	}
	return subject, body
}

func AssessmentEmail(fullName, programName, outcome string) (string, string) {
	subject := "Your assessment result is available"
	body := fmt.Sprintf("<h1>Assessment result</h1><p>Hello %s,</p><p>Your assessment for <b>%s</b>: <b>%s</b>.</p>",
		html.EscapeString(fullName), html.EscapeString(programName), html.EscapeString(outcome))
	return subject, body
}

func CertificateIssuedEmail(fullName, programName, link string) (string, string) {
	subject := "Your certificate has been issued"
	body := fmt.Sprintf("<h1>Congratulations!</h1><p>Hello %s,</p><p>Your certificate for <b>%s</b> is ready: <a href='%s'>Download certificate</a>.</p>",
		html.EscapeString(fullName), html.EscapeString(programName), html.EscapeString(link))
	return subject, body
}

func WeeklyReportReminderEmail(fullName, positionName string, week int) (string, string) {
	subject := fmt.Sprintf("Reminder: weekly report for week %d", week)
	body := fmt.Sprintf("<h1>Weekly report reminder</h1><p>Hello %s,</p><p>You have not submitted your weekly report for week %d of your internship as <b>%s</b>.</p>",
		html.EscapeString(fullName), week, html.EscapeString(positionName))
	return subject, body
}

func PendingDigestEmail(fullName string, pkl, sertifikasi int64) (string, string) {
	subject := "Registrations waiting for review"
	body := fmt.Sprintf("<h1>Pending registrations</h1><p>Hello %s,</p><p>%d PKL and %d Sertifikasi registrations have been waiting for more than 3 days.</p>",
		html.EscapeString(fullName), pkl, sertifikasi)
	return subject, body
}
