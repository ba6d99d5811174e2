package http

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestServerShutdownBeforeRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{Engine: gin.New()}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Run("127.0.0.1:0") }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run after Shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run kept listening after Shutdown")
	}
}

func TestServerShutdownConcurrentWithRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for i := 0; i < 20; i++ {
		s := &Server{Engine: gin.New()}
		done := make(chan error, 1)
		go func() { done <- s.Run("127.0.0.1:0") }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.Shutdown(ctx)
		cancel()
		if err != nil {
			t.Fatalf("iteration %d: Shutdown: %v", i, err)
		}
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("iteration %d: Run: %v", i, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("iteration %d: Run did not return after Shutdown", i)
		}
	}
}
