package types

// Classification is the differential outcome of comparing two test runs.
type Classification struct {
	// Regressions fail only in the ported implementation. Records come from the ported run.
	Regressions []FailureRecord
	// Improvements fail only in the reference implementation. Records come from the
	// reference run.
	Improvements []FailureRecord
	// Common lists names failing in both implementations.
	Common []string
}

// HasRegressions reports whether any test fails only in the ported implementation.
func (c Classification) HasRegressions() bool {
	return len(c.Regressions) > 0
}

// RegressionNames returns the names of the regressions in order.
func (c Classification) RegressionNames() []string {
	return recordNames(c.Regressions)
}

// ImprovementNames returns the names of the improvements in order.
func (c Classification) ImprovementNames() []string {
	return recordNames(c.Improvements)
}

func recordNames(records []FailureRecord) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names
}
