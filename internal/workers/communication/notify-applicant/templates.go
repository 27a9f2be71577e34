// internal/workers/communication/notify-applicant/templates.go
package notifyapplicant

import (
	"fmt"
	"html"
	"strings"

	"admission-workers/internal/models"
)

const smsLimit = 320

var templates = map[string]models.NotificationTemplate{
	TypeDocumentRejected: {
		Type:    TypeDocumentRejected,
		Subject: "Action needed: your %s could not be accepted",
		Body: "Dear %s,\n\nWe reviewed the %s you uploaded for application %s and could not accept it:\n\n%s\n" +
			"Please upload a corrected document through the applicant portal.\n\n%s Admissions Office",
	},
	TypeDocumentsVerified: {
		Type:    TypeDocumentsVerified,
		Subject: "Your application documents have been verified",
		Body: "Dear %s,\n\nAll documents for application %s have been verified. " +
			"Your application will now be reviewed by the admissions committee.\n\n%s Admissions Office",
	},
}

type message struct {
	Subject  string
	Text     string
	HTML     string
	SMS      string
	Template string
}

func render(input *Input, app *models.Application, institution string) (message, error) {
	tmpl, ok := templates[input.Type]
	if !ok {
		return message{}, fmt.Errorf("unknown notification type %q", input.Type)
	}

	var msg message
	msg.Template = tmpl.Type
	switch input.Type {
	case TypeDocumentRejected:
		doc := documentLabel(input.DocumentCategory)
		var reasons strings.Builder
		for _, m := range input.Messages {
			reasons.WriteString("  - " + m + "\n")
		}
		msg.Subject = fmt.Sprintf(tmpl.Subject, doc)
		msg.Text = fmt.Sprintf(tmpl.Body, app.ApplicantName, doc, app.ID, reasons.String(), institution)
		msg.SMS = fmt.Sprintf("%s: your %s for application %s was not accepted. %s",
			institution, doc, app.ID, strings.Join(input.Messages, " "))
	case TypeDocumentsVerified:
		msg.Subject = tmpl.Subject
		msg.Text = fmt.Sprintf(tmpl.Body, app.ApplicantName, app.ID, institution)
		msg.SMS = fmt.Sprintf("%s: all documents for application %s have been verified.", institution, app.ID)
	}

	msg.HTML = textToHTML(msg.Text)
	if r := []rune(msg.SMS); len(r) > smsLimit {
		msg.SMS = string(r[:smsLimit-3]) + "..."
	}
	return msg, nil
}

func documentLabel(category models.DocumentCategory) string {
	switch category {
	case models.CategoryIdentity:
		return "identity document"
	case models.CategoryAcademic:
		return "academic certificate"
	case models.CategoryReceipt:
		return "proof of payment"
	default:
		return "document"
	}
}

func textToHTML(text string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, para := range strings.Split(text, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
