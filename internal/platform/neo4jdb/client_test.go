package neo4jdb

import (
	"context"
	"testing"

	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

func TestNewWithoutURIIsDisabled(t *testing.T) {
	c, err := New(logger.Nop(), Config{})
	if err != nil || c != nil {
		t.Fatalf("expected nil client and nil error, got %v %v", c, err)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestNewRequiresLogger(t *testing.T) {
	if _, err := New(nil, Config{URI: "neo4j://localhost:7687"}); err == nil {
		t.Fatalf("expected error without logger")
	}
}
