package voucher

import "fmt"

// Result is the accumulated outcome of a voucher lifecycle operation. The
// lifecycle methods never stop at the first violated rule: every failure is
// collected so callers see the full picture at once. Warnings never block.
type Result struct {
	Success  bool     `json:"success"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) finish() {
	r.Success = len(r.Errors) == 0
}
