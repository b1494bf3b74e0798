package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Output is the cleaned buffer.
	Output []byte `json:"output"`

	// Applied maps mapping id to replacement count, for mappings that
	// replaced something.
	Applied map[int]int `json:"applied"`

	// Discovered lists remaining bad sequences as \xHH text, in buffer order.
	Discovered []string `json:"discovered"`

	// Table is the persisted table after the run, one entry per line.
	Table []string `json:"table"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Applied:    make(map[int]int),
		Discovered: []string{},
		Table:      []string{},
		Errors:     []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
