// Package health holds the vitals evaluation and aggregation engine. Every
// function here is pure: callers fetch and persist, this package computes.
package health

import (
	"math"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// BMI buckets
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

// Blood pressure and heart rate buckets
const (
	StatusLow      = "low"
	StatusNormal   = "normal"
	StatusElevated = "elevated"
	StatusHigh     = "high"
)

// BMIResult is the classified body mass index
type BMIResult struct {
	BMI    float64 `json:"bmi"`
	Status string  `json:"status"`
	Advice string  `json:"advice"`
}

// BloodPressureResult is a classified blood pressure reading
type BloodPressureResult struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
	Status    string  `json:"status"`
	Advice    string  `json:"advice"`
	IsWarning bool    `json:"isWarning"`
}

// HeartRateResult is a classified resting heart rate
type HeartRateResult struct {
	HeartRate float64 `json:"heartRate"`
	Status    string  `json:"status"`
	Advice    string  `json:"advice"`
	IsWarning bool    `json:"isWarning"`
}

// ComputeBMI returns weight / (height/100)^2 rounded to one decimal.
// ok is false when either input is missing or zero.
func ComputeBMI(weight, height *float64) (bmi float64, ok bool) {
	raw, ok := domain.BMIOf(weight, height)
	if !ok {
		return 0, false
	}
	return Round(raw, 1), true
}

// EvaluateBMI classifies weight (kg) and height (cm). Nil when either is missing.
// The bucket comes from the unrounded value; only the reported BMI is rounded.
func EvaluateBMI(weight, height *float64) *BMIResult {
	raw, ok := domain.BMIOf(weight, height)
	if !ok {
		return nil
	}
	bmi := Round(raw, 1)

	switch {
	case raw < 18.5:
		return &BMIResult{BMI: bmi, Status: BMIUnderweight, Advice: "You are underweight. Increase your nutrition and eat regular, balanced meals."}
	case raw < 25:
		return &BMIResult{BMI: bmi, Status: BMINormal, Advice: "Your BMI is in the normal range. Keep up your healthy lifestyle!"}
	case raw < 30:
		return &BMIResult{BMI: bmi, Status: BMIOverweight, Advice: "You are overweight. Exercise more and adjust your diet."}
	default:
		return &BMIResult{BMI: bmi, Status: BMIObese, Advice: "You are in the obese range. Consult a doctor about a weight-loss plan."}
	}
}

// bloodPressureRule is one entry of the ordered classification table
type bloodPressureRule struct {
	matches   func(systolic, diastolic float64) bool
	status    string
	advice    string
	isWarning bool
}

// bloodPressureRules is evaluated top to bottom; the first match wins.
// The elevated rule is an OR, so a very high systolic with diastolic <= 90
// lands in elevated rather than high.
var bloodPressureRules = []bloodPressureRule{
	{
		matches:   func(s, d float64) bool { return s < 90 || d < 60 },
		status:    StatusLow,
		advice:    "Low blood pressure. Drink enough water and eat regular meals.",
		isWarning: true,
	},
	{
		matches: func(s, d float64) bool { return s <= 120 && d <= 80 },
		status:  StatusNormal,
		advice:  "Normal blood pressure. Keep it up!",
	},
	{
		matches:   func(s, d float64) bool { return s <= 140 || d <= 90 },
		status:    StatusElevated,
		advice:    "Blood pressure is slightly high. Monitor it regularly and cut down on salt.",
		isWarning: true,
	},
	{
		matches:   func(s, d float64) bool { return true },
		status:    StatusHigh,
		advice:    "High blood pressure! See a doctor as soon as possible.",
		isWarning: true,
	},
}

// EvaluateBloodPressure classifies a reading. Nil when either value is missing or zero.
func EvaluateBloodPressure(systolic, diastolic *float64) *BloodPressureResult {
	if systolic == nil || diastolic == nil || *systolic == 0 || *diastolic == 0 {
		return nil
	}
	s, d := *systolic, *diastolic

	for _, rule := range bloodPressureRules {
		if rule.matches(s, d) {
			return &BloodPressureResult{
				Systolic:  s,
				Diastolic: d,
				Status:    rule.status,
				Advice:    rule.advice,
				IsWarning: rule.isWarning,
			}
		}
	}
	return nil
}

// EvaluateHeartRate classifies beats per minute. Nil when missing or zero.
func EvaluateHeartRate(heartRate *float64) *HeartRateResult {
	if heartRate == nil || *heartRate == 0 {
		return nil
	}
	hr := *heartRate

	switch {
	case hr < 60:
		return &HeartRateResult{HeartRate: hr, Status: StatusLow, Advice: "Low heart rate (bradycardia). Unless you are an athlete, keep monitoring it.", IsWarning: true}
	case hr <= 100:
		return &HeartRateResult{HeartRate: hr, Status: StatusNormal, Advice: "Normal heart rate."}
	default:
		return &HeartRateResult{HeartRate: hr, Status: StatusHigh, Advice: "High heart rate! Rest and keep monitoring.", IsWarning: true}
	}
}

// Round rounds x half away from zero to the given number of decimals
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
