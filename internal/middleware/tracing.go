package middleware

import (
	"strconv"
	"strings"

	"reelhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request. The span is renamed to
// the matched route template once routing is done, so /api/posts/17/like and
// /api/posts/18/like share one span name.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		if rid, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", rid))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		if route != "" && route != "/" {
			span.SetName(c.Method() + " " + route)
			span.SetAttributes(attribute.String("http.route", route))
		}
		span.SetAttributes(routeEntityAttrs(c, route)...)
		if uid := UserID(c); uid != 0 {
			span.SetAttributes(attribute.Int64("reelhub.viewer_id", int64(uid)))
			if role, ok := c.Locals("role").(string); ok {
				span.SetAttributes(attribute.String("reelhub.viewer_role", role))
			}
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		return err
	}
}

// routeEntityAttrs tags the span with the post, user or report the route
// addresses.
func routeEntityAttrs(c *fiber.Ctx, route string) []attribute.KeyValue {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	switch {
	case strings.Contains(route, "/posts/"):
		return []attribute.KeyValue{attribute.Int64("reelhub.post_id", int64(id))}
	case strings.Contains(route, "/users/"):
		return []attribute.KeyValue{attribute.Int64("reelhub.user_id", int64(id))}
	case strings.Contains(route, "/reports/"):
		return []attribute.KeyValue{attribute.Int64("reelhub.report_id", int64(id))}
	}
	return nil
}
