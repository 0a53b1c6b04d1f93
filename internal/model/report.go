package model

import "github.com/togengine-byte/CRM-sub003/internal/stats"

// Breakdown keys of a ScoreReport.
const (
	SubScoreBase        = "base"
	SubScorePrice       = "price"
	SubScorePromise     = "promise"
	SubScoreCourier     = "courier"
	SubScoreEarly       = "early"
	SubScoreWorkload    = "workload"
	SubScoreConsistency = "consistency"
)

// SubScoreNames lists breakdown keys in display order.
var SubScoreNames = []string{
	SubScoreBase,
	SubScorePrice,
	SubScorePromise,
	SubScoreCourier,
	SubScoreEarly,
	SubScoreWorkload,
	SubScoreConsistency,
}

type SubScore struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// ScoreReport is a supplier's composite performance score. TotalScore is the
// plain sum of the breakdown values; the workload entry is stored negated.
type ScoreReport struct {
	SupplierID    int64               `json:"supplier_id"`
	TotalJobs     int                 `json:"total_jobs"`
	CompletedJobs int                 `json:"completed_jobs"`
	OpenJobs      int                 `json:"open_jobs"`
	Breakdown     map[string]SubScore `json:"breakdown"`
	TotalScore    float64             `json:"total_score"`
}

// Value returns the breakdown value for name, or 0 when absent.
func (r ScoreReport) Value(name string) float64 {
	return r.Breakdown[name].Value
}

// WorkloadPenalty returns the workload deduction as a positive number.
func (r ScoreReport) WorkloadPenalty() float64 {
	return -r.Breakdown[SubScoreWorkload].Value
}

// Rounded returns a display copy with every value rounded to one decimal.
// The total is re-rounded from the full-precision sum, not summed from the
// rounded parts.
func (r ScoreReport) Rounded() ScoreReport {
	out := r
	out.Breakdown = make(map[string]SubScore, len(r.Breakdown))
	for name, s := range r.Breakdown {
		s.Value = stats.Round1(s.Value)
		out.Breakdown[name] = s
	}
	out.TotalScore = stats.Round1(r.TotalScore)
	return out
}
