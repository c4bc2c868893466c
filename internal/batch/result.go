package batch

// Status classifies the outcome of one per-applicant stage computation so
// the orchestrator can tell "legitimately no data" apart from "unexpected
// malformed input". Neither aborts the batch; both produce a sentinel row.
type Status int

const (
	// StatusOK means the stage produced a real value.
	StatusOK Status = iota
	// StatusEmpty means the applicant had no qualifying data (no checking
	// accounts, no transactions): a legitimate state, not an error.
	StatusEmpty
	// StatusFailed means the input was malformed or the computation
	// panicked; a sentinel/zero result was substituted.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// tally accumulates per-stage outcome counts for the run log.
type tally struct {
	ok, empty, failed int
}

func (t *tally) add(s Status) {
	switch s {
	case StatusOK:
		t.ok++
	case StatusEmpty:
		t.empty++
	case StatusFailed:
		t.failed++
	}
}
