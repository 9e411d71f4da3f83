package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academy/core"
	"github.com/trezcool/academy/core/student"
)

// Raw email boundary kept wire-compatible with the legacy admin frontend:
// 200 on delivery, 400 on missing/invalid fields, 500 on transport failure.

type (
	emailStudentData struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		RollNumber string `json:"rollNumber"`
		ID         string `json:"id,omitempty"`
	}

	emailRequest struct {
		StudentData emailStudentData `json:"studentData"`
		BatchName   string           `json:"batchName"`
	}

	emailErrorDetail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	emailSuccessResponse struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}

	emailFailureResponse struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Error   *emailErrorDetail `json:"error,omitempty"`
	}
)

type emailApi struct {
	notifier *student.Notifier
}

func registerEmailAPI(g *echo.Group, notifier *student.Notifier) {
	api := emailApi{notifier: notifier}

	g.POST("/send-registration-confirmation", api.sendRegistrationConfirmation)
	g.POST("/send-batch-assignment", api.sendBatchAssignment)
}

func (req *emailRequest) student() student.Student {
	return student.Student{
		ID:         core.CleanString(req.StudentData.ID),
		Name:       core.CleanString(req.StudentData.Name),
		Email:      core.CleanString(req.StudentData.Email, true /* lower */),
		RollNumber: core.CleanString(req.StudentData.RollNumber),
	}
}

func (api *emailApi) sendRegistrationConfirmation(ctx echo.Context) error {
	var data emailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to emailRequest")
	}

	res := api.notifier.SendRegistrationPending(ctx.Request().Context(), data.student())
	return respondEmailResult(ctx, res)
}

func (api *emailApi) sendBatchAssignment(ctx echo.Context) error {
	var data emailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to emailRequest")
	}

	res := api.notifier.SendBatchAssigned(ctx.Request().Context(), data.student(), core.CleanString(data.BatchName))
	return respondEmailResult(ctx, res)
}

func respondEmailResult(ctx echo.Context, res student.NotificationResult) error {
	observeNotification(&res)

	if res.Sent {
		return ctx.JSON(http.StatusOK, emailSuccessResponse{Success: true, MessageID: res.MessageID})
	}

	code := http.StatusInternalServerError
	message := "failed to send email"
	if res.Err.Kind == student.NotifInvalidInput {
		code = http.StatusBadRequest
		message = "missing or invalid fields"
	}
	return ctx.JSON(code, emailFailureResponse{
		Success: false,
		Message: message,
		Error:   &emailErrorDetail{Code: string(res.Err.Kind), Message: res.Err.Message},
	})
}
