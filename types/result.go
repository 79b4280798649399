package types

// TestRunSummary holds the aggregate counts reported by one implementation's test run.
// Total and SuccessRate are kept as reported by the runner and never derived from
// Passed and Failed.
type TestRunSummary struct {
	Passed      int
	Failed      int
	Total       int
	SuccessRate float64 // Percentage, e.g. 97.5
}

// FailureRecord is a single failed test case.
type FailureRecord struct {
	Name   string   // Join key across implementations, e.g. the input fixture string
	Errors []string // Diagnostic lines in output order
}

// FailureSet is an insertion-ordered, read-only mapping from test name to FailureRecord.
// A nil *FailureSet is a valid empty set.
type FailureSet struct {
	order  []string
	byName map[string]FailureRecord
}

// NewFailureSet builds a FailureSet from records in order. Records without a name or
// without error lines are skipped. When a name repeats, the later record replaces the
// earlier one but the name keeps the position of its first occurrence.
func NewFailureSet(records ...FailureRecord) *FailureSet {
	fs := &FailureSet{
		order:  make([]string, 0, len(records)),
		byName: make(map[string]FailureRecord, len(records)),
	}
	for _, rec := range records {
		if rec.Name == "" || len(rec.Errors) == 0 {
			continue
		}
		if _, exists := fs.byName[rec.Name]; !exists {
			fs.order = append(fs.order, rec.Name)
		}
		fs.byName[rec.Name] = rec
	}
	return fs
}

// Len returns the number of distinct failed test names.
func (fs *FailureSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.order)
}

// Get returns the record for name. The Errors slice is shared with the set and must
// not be modified.
func (fs *FailureSet) Get(name string) (FailureRecord, bool) {
	if fs == nil {
		return FailureRecord{}, false
	}
	rec, ok := fs.byName[name]
	return rec, ok
}

// Has reports whether name failed.
func (fs *FailureSet) Has(name string) bool {
	_, ok := fs.Get(name)
	return ok
}

// Names returns the failed test names in iteration order.
func (fs *FailureSet) Names() []string {
	if fs == nil {
		return nil
	}
	names := make([]string, len(fs.order))
	copy(names, fs.order)
	return names
}

// Records returns the failure records in iteration order.
func (fs *FailureSet) Records() []FailureRecord {
	if fs == nil {
		return nil
	}
	records := make([]FailureRecord, 0, len(fs.order))
	for _, name := range fs.order {
		records = append(records, fs.byName[name])
	}
	return records
}

// TestRunResult is one implementation's parsed test output.
type TestRunResult struct {
	Summary  TestRunSummary
	Failures *FailureSet
}

// FailureCount returns the number of parsed failure records, which may differ from
// Summary.Failed when entries could not be parsed.
func (r *TestRunResult) FailureCount() int {
	if r == nil {
		return 0
	}
	return r.Failures.Len()
}

// SummaryOf returns the summary of r, treating a nil result as all zero.
func SummaryOf(r *TestRunResult) TestRunSummary {
	if r == nil {
		return TestRunSummary{}
	}
	return r.Summary
}

// FailureSetOf returns the failures of r, treating a nil result as empty.
func FailureSetOf(r *TestRunResult) *FailureSet {
	if r == nil {
		return nil
	}
	return r.Failures
}
