package domain

import "time"

// AssessmentRecord is the audit-stream form of one completed risk
// calculation: the (clamped) inputs that were submitted and the normalized
// result that was displayed.
type AssessmentRecord struct {
	SessionID  string                `json:"session_id"`
	AssessedAt time.Time             `json:"assessed_at"`
	Inputs     RiskFactorInputs      `json:"inputs"`
	Result     RiskCalculationResult `json:"result"`
}
