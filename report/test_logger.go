package report

// TestLogger receives the output of a run as it happens.
type TestLogger interface {
	// CaseFinished is called once for every case, in registry order.
	CaseFinished(result CaseResult)

	// RunFinished is called once, after the last case.
	RunFinished(summary RunSummary)
}

type nullTestLogger struct{}

func (n nullTestLogger) CaseFinished(CaseResult) {}
func (n nullTestLogger) RunFinished(RunSummary)  {}

func NullTestLogger() TestLogger { return nullTestLogger{} }
