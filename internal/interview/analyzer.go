package interview

import "context"

// MetricsAnalyzer is the capability interface for server-side video analysis.
// The upstream product referenced confidence/eye-contact/pace scores without
// ever implementing a backend for them, so the contract stays behind this
// interface instead of being hard-coded into the evaluation path.
type MetricsAnalyzer interface {
	Analyze(ctx context.Context, answers []Answer) (*VideoMetrics, error)
}

// NoopAnalyzer is the default analyzer: no metrics, no error.
type NoopAnalyzer struct{}

func (NoopAnalyzer) Analyze(context.Context, []Answer) (*VideoMetrics, error) {
	return nil, nil
}
