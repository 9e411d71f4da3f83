package emailsvc

import (
	"context"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/academy/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridTransport struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

var _ core.MailTransport = (*sendgridTransport)(nil)

func NewSendgridTransport() *sendgridTransport {
	from := core.Conf.DefaultFromEmail
	return &sendgridTransport{
		key:        core.Conf.SendgridApiKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + core.Conf.AppName + "] ",
	}
}

// Send submits one rendered message. The provider's own request timeout
// applies; failures are classified into core.SendError codes so callers can
// tell credential misconfiguration from transient network trouble.
func (svc *sendgridTransport) Send(_ context.Context, msg *core.EmailMessage) (string, error) {
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(*msg))

	command := http.MethodPost + " " + endpoint
	res, err := sendgrid.API(req)
	if err != nil {
		code := core.SendSocketError
		if isConnectionRefused(err) {
			code = core.SendConnectionRefused
		}
		return "", &core.SendError{Code: code, Command: command, Err: err}
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return "", &core.SendError{Code: core.SendAuthFailure, Command: command, Response: res.Body}
	case res.StatusCode >= http.StatusBadRequest:
		return "", &core.SendError{Code: core.SendSocketError, Command: command, Response: res.Body}
	}

	var messageID string
	if ids := res.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	return messageID, nil
}

func (svc *sendgridTransport) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject

	for _, to := range msg.To {
		p.AddTos(getSGEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(getSGEmail(cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(getSGEmail(bcc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)

	m.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)

	for _, a := range msg.Attachments {
		m.AddAttachment(getSGAttachment(a))
	}

	return m
}

func getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func getSGAttachment(at core.Attachment) *sgmail.Attachment {
	return &sgmail.Attachment{
		Content:     at.Content.String(),
		Type:        at.ContentType,
		Filename:    at.Filename,
		Disposition: "attachment",
	}
}

func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}
