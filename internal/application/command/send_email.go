package command

import (
	"context"
	"strings"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND EMAIL COMMAND
// Admin-composed communication to arbitrary recipients, e.g. board-wide
// announcements or applicant outreach.
// ══════════════════════════════════════════════════════════════════════════════

// SendEmailCommand contains the message to deliver.
type SendEmailCommand struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Validate checks the command parameters.
func (c SendEmailCommand) Validate() error {
	if len(c.To) == 0 {
		return shared.NewDomainError("mailer", "Send", shared.ErrInvalidInput, "at least one recipient is required")
	}
	for _, addr := range c.To {
		if !shared.NormalizeEmail(addr).IsValid() {
			return shared.WrapError("mailer", "Send", shared.ErrInvalidFormat, "invalid recipient address", nil)
		}
	}
	if strings.TrimSpace(c.Subject) == "" {
		return shared.NewDomainError("mailer", "Send", shared.ErrEmptyValue, "subject is required")
	}
	if strings.TrimSpace(c.HTML) == "" && strings.TrimSpace(c.Text) == "" {
		return shared.NewDomainError("mailer", "Send", shared.ErrEmptyValue, "message body is required")
	}
	return nil
}

// SendEmailHandler handles outbound communications.
type SendEmailHandler struct {
	mailer Mailer
}

// NewSendEmailHandler creates the handler.
func NewSendEmailHandler(mailer Mailer) *SendEmailHandler {
	return &SendEmailHandler{mailer: mailer}
}

// Handle executes the command.
func (h *SendEmailHandler) Handle(ctx context.Context, cmd SendEmailCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	recipients := make([]string, 0, len(cmd.To))
	for _, addr := range cmd.To {
		recipients = append(recipients, shared.NormalizeEmail(addr).String())
	}

	if err := h.mailer.Send(ctx, recipients, strings.TrimSpace(cmd.Subject), cmd.HTML, cmd.Text); err != nil {
		return shared.WrapError("mailer", "Send", shared.ErrExternalService, "email delivery failed", err)
	}
	return nil
}
