package email

import (
	"bytes"
	"strings"
	"testing"

	"backoffice/internal/domain/notifications"
	"backoffice/internal/platform/config"
)

func TestNewDisabledReturnsNil(t *testing.T) {
	if New(config.Config{EmailEnabled: false, SMTPHost: "smtp.test"}) != nil {
		t.Fatalf("expected nil mailer when email is disabled")
	}
	if New(config.Config{EmailEnabled: true}) != nil {
		t.Fatalf("expected nil mailer without SMTP host")
	}
	if New(config.Config{EmailEnabled: true, SMTPHost: "smtp.test", SMTPPort: 587}) == nil {
		t.Fatalf("expected SMTP mailer")
	}
}

func TestBuildMessageIncludesAttachment(t *testing.T) {
	m := buildMessage("billing@acme.test", notifications.Message{
		To:          " ap@globex.test ",
		Subject:     "Invoice INV-00001",
		Body:        "Please find the invoice attached.",
		Attachments: []notifications.Attachment{{Name: "INV-00001.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}},
	})
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{"From: billing@acme.test", "To: ap@globex.test", "Subject: Invoice INV-00001", "INV-00001.pdf", "application/pdf"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("expected %q in message:\n%s", want, raw)
		}
	}
}
