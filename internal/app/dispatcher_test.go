package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"beverage-quiz-service/internal/app"
)

func TestDispatcherLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := app.NewDispatcher(zap.New(core), time.Second)

	boom := errors.New("boom")
	if err := <-d.Go("persist results", func(context.Context) error { return boom }, zap.String("session", "s1")); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := <-d.Go("submit answer", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	d.Wait()

	entries := logs.FilterMessage("background call failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["call"] != "persist results" || fields["session"] != "s1" {
		t.Fatalf("unexpected log fields %v", fields)
	}
}

func TestDispatcherDetachesFromCaller(t *testing.T) {
	d := app.NewDispatcher(nil, 50*time.Millisecond)

	err := <-d.Go("slow call", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("expected a deadline")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the call to time out on its own deadline, got %v", err)
	}
}

func TestDispatcherRejectsCallsAfterClose(t *testing.T) {
	d := app.NewDispatcher(nil, time.Second)

	release := make(chan struct{})
	inFlight := d.Go("slow call", func(context.Context) error {
		<-release
		return nil
	})
	d.Close()

	ran := false
	err := <-d.Go("late call", func(context.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, app.ErrDispatcherClosed) || ran {
		t.Fatalf("expected the late call to be rejected, got %v (ran=%v)", err, ran)
	}

	close(release)
	d.Wait()
	if err := <-inFlight; err != nil {
		t.Fatalf("in-flight call should finish normally, got %v", err)
	}
}
