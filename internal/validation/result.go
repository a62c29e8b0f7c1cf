// Package validation holds the pure checks that gate every proposed
// trip/load mutation. Nothing here touches the store; callers pass in the
// entities and act on the verdict.
package validation

// VerdictType distinguishes the two tiers of the rule taxonomy: hard blocks
// reject the operation outright, warnings let it proceed once the caller has
// obtained explicit confirmation.
type VerdictType string

const (
	VerdictHardBlock VerdictType = "hard_block"
	VerdictWarning   VerdictType = "warning"
)

// Result is the verdict of a single rule.
type Result struct {
	Valid   bool        `json:"valid"`
	Type    VerdictType `json:"type,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

func OK() Result {
	return Result{Valid: true}
}

func Block(msg string) Result {
	return Result{Valid: false, Type: VerdictHardBlock, Error: msg}
}

func Warn(msg string) Result {
	return Result{Valid: true, Type: VerdictWarning, Warning: msg}
}

// Report aggregates every applicable rule for a proposed mutation. Valid is
// true exactly when Errors is empty; warnings never invalidate on their own.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Report) add(res Result) {
	if !res.Valid {
		r.Errors = append(r.Errors, res.Error)
	}
	if res.Warning != "" {
		r.Warnings = append(r.Warnings, res.Warning)
	}
}
