package domain

import (
	"errors"
	"testing"
)

func TestOneRepMaxEstimates(t *testing.T) {
	est, err := OneRepMax(100, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Epley != 133 {
		t.Fatalf("epley: expected 133 got %d", est.Epley)
	}
	if est.Lombardi != 125 {
		t.Fatalf("lombardi: expected 125 got %d", est.Lombardi)
	}
	if est.Brzycki != 133 {
		t.Fatalf("brzycki: expected 133 got %d", est.Brzycki)
	}
}

func TestOneRepMaxSingleRep(t *testing.T) {
	est, err := OneRepMax(180, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// With one rep each formula collapses to (roughly) the lifted weight.
	if est.Epley != 186 {
		t.Fatalf("epley: expected 186 got %d", est.Epley)
	}
	if est.Lombardi != 180 {
		t.Fatalf("lombardi: expected 180 got %d", est.Lombardi)
	}
	if est.Brzycki != 180 {
		t.Fatalf("brzycki: expected 180 got %d", est.Brzycki)
	}
}

func TestOneRepMaxTruncates(t *testing.T) {
	est, err := OneRepMax(102.5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 102.5 * (1 + 5/30) = 119.58... -> truncated, never rounded up.
	if est.Epley != 119 {
		t.Fatalf("epley: expected 119 got %d", est.Epley)
	}
}

func TestOneRepMaxDegenerateReps(t *testing.T) {
	if _, err := OneRepMax(100, 37); !errors.Is(err, ErrDegenerateReps) {
		t.Fatalf("expected ErrDegenerateReps got %v", err)
	}
}

func TestOneRepMaxZeroWeight(t *testing.T) {
	est, err := OneRepMax(0, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Epley != 0 || est.Lombardi != 0 || est.Brzycki != 0 {
		t.Fatalf("expected zero estimates got %+v", est)
	}
}
