package services

import (
	"fmt"
	"html"
	"log"
	"strings"

	"formflow_app_go/config"
	"formflow_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}
	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in a goroutine so handlers never block on
// the email provider.
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}
	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// BuildSubmissionNotification creates the owner notification for a new
// submission. Answers are rendered in the stored document order.
func BuildSubmissionNotification(cfg *config.Config, ownerEmail string, form *models.Form, submission *models.Submission) *Email {
	doc, err := submission.DataMap()
	if err != nil {
		doc = map[string]interface{}{}
	}

	var textRows, htmlRows strings.Builder
	for _, label := range documentKeys(submission.Data) {
		value := cellText(doc[label])
		fmt.Fprintf(&textRows, "%s: %s\n", label, value)
		fmt.Fprintf(&htmlRows, "<tr><td style=\"padding:4px 12px 4px 0;font-weight:bold\">%s</td><td>%s</td></tr>",
			html.EscapeString(label), html.EscapeString(value))
	}

	submissionsLink := cfg.AppURL + "/forms/" + form.ID + "/submissions"

	return &Email{
		To:      []string{ownerEmail},
		Subject: fmt.Sprintf("New submission: %s", form.Title),
		TextBody: fmt.Sprintf("Your form %q received a new submission at %s.\n\n%sView all submissions: %s\n",
			form.Title, submission.SubmittedAt.Format("2006-01-02 15:04"), textRows.String(), submissionsLink),
		HTMLBody: fmt.Sprintf("<h2>New submission for %s</h2><p>Received at %s.</p><table>%s</table><p><a href=\"%s\">View all submissions</a></p>",
			html.EscapeString(form.Title), submission.SubmittedAt.Format("2006-01-02 15:04"), htmlRows.String(), submissionsLink),
	}
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
