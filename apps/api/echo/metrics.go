package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/academy/core/student"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_http_requests_total",
			Help: "HTTP requests processed, partitioned by method, path and status code.",
		},
		[]string{"method", "path", "code"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_notifications_total",
			Help: "Lifecycle notifications dispatched, partitioned by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func registerMetricsAPI(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func requestMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			httpRequestsTotal.WithLabelValues(
				ctx.Request().Method,
				ctx.Path(),
				strconv.Itoa(ctx.Response().Status),
			).Inc()
			return err
		}
	}
}

func observeNotification(res *student.NotificationResult) {
	if res == nil {
		return
	}
	outcome := "delivered"
	if !res.Sent {
		outcome = string(res.Err.Kind)
	}
	notificationsTotal.WithLabelValues(string(res.Kind), outcome).Inc()
}
