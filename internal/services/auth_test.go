package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", time.Minute)
	userID, orgID := uuid.New(), uuid.New()

	token, err := svc.IssueToken(userID, orgID)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID || rd.OrganizationID != orgID {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", time.Minute)
	other := NewAuthService(logger.Nop(), "other-secret", time.Minute)

	token, err := other.IssueToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
	if _, err := svc.SetContextFromToken(context.Background(), ""); err == nil {
		t.Fatalf("expected empty token to fail")
	}

	expired := NewAuthService(logger.Nop(), "secret", time.Nanosecond)
	token, err = expired.IssueToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}
