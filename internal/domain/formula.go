package domain

import (
	"fmt"
	"math"
)

// Estimates holds the three one-rep-max projections derived from a lift.
type Estimates struct {
	Epley    int
	Lombardi int
	Brzycki  int
}

// OneRepMax computes the Epley, Lombardi and Brzycki one-rep-max estimates
// for a lift of the given weight at the given rep count. All three results
// are truncated to integers. A rep count of 37 zeroes the Brzycki
// denominator and is rejected.
func OneRepMax(weight float64, reps int) (Estimates, error) {
	if reps == 37 {
		return Estimates{}, fmt.Errorf("%w: reps=%d", ErrDegenerateReps, reps)
	}
	return Estimates{
		Epley:    int(weight * (1 + float64(reps)/30)),
		Lombardi: int(weight * math.Pow(float64(reps), 0.10)),
		Brzycki:  int(weight * 36 / float64(37-reps)),
	}, nil
}
