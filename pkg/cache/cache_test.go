package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func disabledClient() *Client {
	return &Client{enabled: false}
}

func TestDisabledClientIsNoOp(t *testing.T) {
	c := NewCache(disabledClient(), "test")
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Errorf("Set on disabled cache should be a no-op, got %v", err)
	}

	var dest map[string]int
	found, err := c.Get(ctx, "k", &dest)
	if err != nil {
		t.Errorf("Get on disabled cache should not error, got %v", err)
	}
	if found {
		t.Error("Get on disabled cache should report a miss")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on disabled cache should be a no-op, got %v", err)
	}
}

func TestGetOrSetPopulatesOnMiss(t *testing.T) {
	c := NewCache(disabledClient(), "test")
	ctx := context.Background()

	var dest struct {
		Ticker string `json:"ticker"`
	}
	calls := 0
	err := c.GetOrSet(ctx, "quote:INFY", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return map[string]string{"ticker": "INFY"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected populate function to run once, ran %d times", calls)
	}
	if dest.Ticker != "INFY" {
		t.Errorf("Expected dest populated with INFY, got %q", dest.Ticker)
	}
}

func TestGetOrSetPropagatesPopulateError(t *testing.T) {
	c := NewCache(disabledClient(), "test")

	wantErr := errors.New("upstream down")
	var dest map[string]string
	err := c.GetOrSet(context.Background(), "k", &dest, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected populate error to propagate, got %v", err)
	}
}
