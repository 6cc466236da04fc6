package common

import (
	"time"

	"go.uber.org/zap"
)

type Benchmarker struct {
	start time.Time
	label string
}

func RuntimeBenchmark[T any](label string, functionUnderTest func() (T, error)) (T, error) {
	start := time.Now()
	result, err := functionUnderTest()
	zap.S().Debugw("bench", "label", label, "elapsed", time.Since(start))
	return result, err
}

func NewBenchmarker(label string) *Benchmarker {
	return &Benchmarker{time.Now(), label}
}

// Elapsed is the time since the benchmarker was created.
func (benchmarker *Benchmarker) Elapsed() time.Duration {
	return time.Since(benchmarker.start)
}

func (benchmarker *Benchmarker) Close() {
	zap.S().Debugw("bench", "label", benchmarker.label, "elapsed", benchmarker.Elapsed())
}
