// File: harness/timing.go

package harness

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Timing summarises the wall-clock duration of repeated kernel calls
type Timing struct {
	Runs   int           `json:"runs"`
	Mean   time.Duration `json:"mean_ns"`
	StdDev time.Duration `json:"stddev_ns"`
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
}

func summarize(durations []time.Duration) Timing {
	if len(durations) == 0 {
		return Timing{}
	}
	secs := make([]float64, len(durations))
	for i, d := range durations {
		secs[i] = d.Seconds()
	}

	t := Timing{
		Runs: len(durations),
		Min:  toDuration(floats.Min(secs)),
		Max:  toDuration(floats.Max(secs)),
	}
	if len(secs) == 1 {
		t.Mean = durations[0]
		return t
	}
	mean, std := stat.MeanStdDev(secs, nil)
	t.Mean = toDuration(mean)
	t.StdDev = toDuration(std)
	return t
}

func toDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
