package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
)

const tracerName = "github.com/yungbote/mealprep-backend/internal/services"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctxutil.Default(ctx), name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// requireOrg returns the organization the caller is scoped to.
func requireOrg(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.OrganizationID == uuid.Nil {
		return nil, apierr.Unauthorized("missing_request_data", errMissingRequestData)
	}
	return rd, nil
}
