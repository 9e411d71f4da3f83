package student

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academy/core"
)

// NotificationKind identifies one of the two lifecycle notifications.
type NotificationKind string

const (
	RegistrationPending NotificationKind = "registration_pending"
	BatchAssigned       NotificationKind = "batch_assigned"
)

const (
	registrationPendingSubject = "Registration received: pending batch assignment"
	batchAssignedSubject       = "Batch assigned: your login credentials"
)

// NotificationErrorKind classifies a failed dispatch.
type NotificationErrorKind string

const (
	NotifInvalidInput      NotificationErrorKind = "invalid_input"
	NotifAuthFailure       NotificationErrorKind = "auth_failure"
	NotifConnectionRefused NotificationErrorKind = "connection_refused"
	NotifSocketError       NotificationErrorKind = "socket_error"
)

type NotificationError struct {
	Kind    NotificationErrorKind `json:"kind"`
	Message string                `json:"message"`
	Fields  []core.FieldError     `json:"fields,omitempty"`
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %s: %s", e.Kind, e.Message)
}

// Retryable reports whether re-invoking the surrounding operation may succeed.
func (e *NotificationError) Retryable() bool {
	return e.Kind == NotifConnectionRefused || e.Kind == NotifSocketError
}

// NotificationResult is the outcome of exactly one dispatch attempt.
// It is data: callers merge it into their response instead of failing on it.
type NotificationResult struct {
	Kind      NotificationKind   `json:"kind"`
	Sent      bool               `json:"sent"`
	MessageID string             `json:"message_id,omitempty"`
	Err       *NotificationError `json:"error,omitempty"`
}

// Notifier renders and attempts to send lifecycle notifications through an
// injected MailTransport. One attempt per call; no retries, no queueing.
type Notifier struct {
	transport core.MailTransport
	logger    core.Logger
}

func NewNotifier(transport core.MailTransport, logger core.Logger) *Notifier {
	return &Notifier{transport: transport, logger: logger}
}

type registrationPendingInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

type batchAssignedInput struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	ID         string `json:"id" validate:"required"`
	RollNumber string `json:"roll_number" validate:"required,ne=unassigned"`
	BatchName  string `json:"batch_name" validate:"required"`
}

// SendRegistrationPending notifies a newly registered student who has no
// batch yet. The body carries no credentials.
func (n *Notifier) SendRegistrationPending(ctx context.Context, st Student) NotificationResult {
	in := registrationPendingInput{Email: st.Email, Name: st.Name}
	if err := core.Validate.Struct(in); err != nil {
		return n.failed(RegistrationPending, invalidInputError(err))
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: st.Name, Address: st.Email}},
		Subject:      registrationPendingSubject,
		TemplateName: "registration_pending",
		TemplateData: map[string]string{
			"Name":  st.Name,
			"Email": st.Email,
		},
	}
	return n.dispatch(ctx, RegistrationPending, msg)
}

// SendBatchAssigned notifies a student of their batch assignment and issued
// login credentials. The initial password is the store-assigned student ID,
// which is why the ID must already exist and the roll number be resolved.
func (n *Notifier) SendBatchAssigned(ctx context.Context, st Student, batchName string) NotificationResult {
	in := batchAssignedInput{
		Email:      st.Email,
		Name:       st.Name,
		ID:         st.ID,
		RollNumber: st.RollNumber,
		BatchName:  batchName,
	}
	if err := core.Validate.Struct(in); err != nil {
		return n.failed(BatchAssigned, invalidInputError(err))
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: st.Name, Address: st.Email}},
		Subject:      batchAssignedSubject,
		TemplateName: "batch_assigned",
		TemplateData: map[string]string{
			"Name":       st.Name,
			"Email":      st.Email,
			"RollNumber": st.RollNumber,
			"BatchName":  batchName,
			"Password":   st.ID,
		},
	}
	return n.dispatch(ctx, BatchAssigned, msg)
}

func (n *Notifier) dispatch(ctx context.Context, kind NotificationKind, msg *core.EmailMessage) NotificationResult {
	if err := msg.Render(); err != nil {
		return n.failed(kind, &NotificationError{Kind: NotifInvalidInput, Message: err.Error()})
	}

	id, err := n.transport.Send(ctx, msg)
	if err != nil {
		return n.failed(kind, transportError(err))
	}
	return NotificationResult{Kind: kind, Sent: true, MessageID: id}
}

func (n *Notifier) failed(kind NotificationKind, nerr *NotificationError) NotificationResult {
	if n.logger != nil {
		n.logger.Warn(fmt.Sprintf("notification %s not sent: %s", kind, nerr.Message))
	}
	return NotificationResult{Kind: kind, Err: nerr}
}

func invalidInputError(err error) *NotificationError {
	nerr := &NotificationError{Kind: NotifInvalidInput, Message: err.Error()}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, vErr := range vErrs {
			nerr.Fields = append(nerr.Fields, core.FieldError{
				Field: vErr.Field(),
				Error: vErr.Translate(core.Translator),
			})
		}
	}
	return nerr
}

func transportError(err error) *NotificationError {
	var sendErr *core.SendError
	if errors.As(err, &sendErr) {
		kind := NotifSocketError
		switch sendErr.Code {
		case core.SendAuthFailure:
			kind = NotifAuthFailure
		case core.SendConnectionRefused:
			kind = NotifConnectionRefused
		}
		return &NotificationError{Kind: kind, Message: sendErr.Error()}
	}
	return &NotificationError{Kind: NotifSocketError, Message: err.Error()}
}
