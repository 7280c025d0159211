package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestChainStopsAtFirstSuccess(t *testing.T) {
	chain := &Chain{Logger: NewSilentLogger()}

	var ran []string
	attempts := []Attempt{
		{Name: "primary", Run: func() error { ran = append(ran, "primary"); return errors.New("boom") }},
		{Name: "fallback", Run: func() error { ran = append(ran, "fallback"); return nil }},
		{Name: "minimal", Run: func() error { ran = append(ran, "minimal"); return nil }},
	}

	if err := chain.Do("start-browser", attempts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ran) != 2 || ran[0] != "primary" || ran[1] != "fallback" {
		t.Errorf("ran = %v; want [primary fallback]", ran)
	}
}

func TestChainSkipsFailedCheck(t *testing.T) {
	chain := &Chain{Logger: NewSilentLogger()}

	var ran []string
	attempts := []Attempt{
		{Name: "missing-binary", Check: func() bool { return false }, Run: func() error { ran = append(ran, "missing"); return nil }},
		{Name: "present", Run: func() error { ran = append(ran, "present"); return nil }},
	}

	if err := chain.Do("start-browser", attempts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ran) != 1 || ran[0] != "present" {
		t.Errorf("ran = %v; want [present]", ran)
	}
}

func TestChainAggregatesFailures(t *testing.T) {
	chain := &Chain{Logger: NewSilentLogger()}

	errA := errors.New("first reason")
	errB := errors.New("second reason")
	attempts := []Attempt{
		{Name: "a", Run: func() error { return errA }},
		{Name: "b", Run: func() error { return errB }},
	}

	err := chain.Do("start-browser", attempts)
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("aggregated error should wrap both failures, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("error %q should report attempt count", err)
	}
}

func TestChainNoEligibleAttempts(t *testing.T) {
	chain := &Chain{Logger: NewSilentLogger()}

	err := chain.Do("start-browser", []Attempt{
		{Name: "never", Check: func() bool { return false }, Run: func() error { return nil }},
	})
	if err == nil {
		t.Fatal("expected error when every attempt is skipped")
	}
}
