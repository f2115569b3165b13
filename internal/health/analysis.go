package health

import "github.com/healthmate/healthmate-api/internal/domain"

// Warning types
const (
	WarningBMI           = "bmi"
	WarningBloodPressure = "bloodPressure"
	WarningHeartRate     = "heartRate"
)

// Warning flags one abnormal metric
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Indicators holds whichever evaluators applied to a snapshot
type Indicators struct {
	BMI           *BMIResult           `json:"bmi,omitempty"`
	BloodPressure *BloodPressureResult `json:"bloodPressure,omitempty"`
	HeartRate     *HeartRateResult     `json:"heartRate,omitempty"`
}

// Analysis is the evaluation of one vitals snapshot
type Analysis struct {
	Analysis    Indicators `json:"analysis"`
	Warnings    []Warning  `json:"warnings"`
	HasWarnings bool       `json:"hasWarnings"`
}

// Analyze runs every applicable evaluator over a record and collects
// warnings in bmi, bloodPressure, heartRate order. A nil record yields an
// empty analysis.
func Analyze(record *domain.HealthRecord) Analysis {
	result := Analysis{Warnings: []Warning{}}
	if record == nil {
		return result
	}

	if bmi := EvaluateBMI(record.Weight, record.Height); bmi != nil {
		result.Analysis.BMI = bmi
		if bmi.Status != BMINormal {
			result.Warnings = append(result.Warnings, Warning{Type: WarningBMI, Message: bmi.Advice})
		}
	}

	if bp := record.BloodPressure; bp != nil {
		if res := EvaluateBloodPressure(&bp.Systolic, &bp.Diastolic); res != nil {
			result.Analysis.BloodPressure = res
			if res.IsWarning {
				result.Warnings = append(result.Warnings, Warning{Type: WarningBloodPressure, Message: res.Advice})
			}
		}
	}

	if hr := EvaluateHeartRate(record.HeartRate); hr != nil {
		result.Analysis.HeartRate = hr
		if hr.IsWarning {
			result.Warnings = append(result.Warnings, Warning{Type: WarningHeartRate, Message: hr.Advice})
		}
	}

	result.HasWarnings = len(result.Warnings) > 0
	return result
}
