package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
)

var errBatchNotFound = echo.NewHTTPError(http.StatusNotFound, "batch not found")

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students")
	sg.POST("", api.create)
	sg.GET("", api.query)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/attendance", api.recordAttendance)
	dg.PUT("/mock-scores", api.saveMockScore)
	dg.GET("/report", api.report)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.svc); err != nil {
		return err
	}

	res, err := api.svc.Create(reqCtx, data)
	if err != nil {
		if errors.Cause(err) == batch.ErrNotFound {
			// the student record is committed; only the credential step failed
			return errBatchNotFound
		}
		return errors.Wrap(err, "creating student")
	}
	observeNotification(res.Notification)

	return ctx.JSON(http.StatusCreated, res)
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(reqCtx, orig, api.svc); err != nil {
		return err
	}

	res, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		if errors.Cause(err) == batch.ErrNotFound {
			// the student record is committed; only the credential step failed
			return errBatchNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	observeNotification(res.Notification)

	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) recordAttendance(ctx echo.Context) error {
	var data student.NewAttendanceRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendanceRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.RecordAttendance(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) saveMockScore(ctx echo.Context) error {
	var data student.NewMockScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMockScore")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.SaveMockScore(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "saving mock score")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) report(ctx echo.Context) error {
	report, err := api.svc.Report(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building report")
	}
	return ctx.JSON(http.StatusOK, report)
}
