package service

import (
	"math"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// ReadinessInput the five self-reported inputs. PainLevel nil or 0 means no pain.
type ReadinessInput struct {
	HoursSlept        float64
	SleepQuality      int
	StressLevel       int
	PhysicalCondition int
	PainLevel         *int
}

// ReadinessFactors per-factor sub-scores (0–100). Pain is nil when it did not take part.
type ReadinessFactors struct {
	Sleep    int  `json:"sleep"`
	Stress   int  `json:"stress"`
	Physical int  `json:"physical"`
	Pain     *int `json:"pain,omitempty"`
}

// ReadinessResult composite score, level and factor breakdown
type ReadinessResult struct {
	Overall int              `json:"overall"`
	Level   string           `json:"level"`
	Factors ReadinessFactors `json:"factors"`
}

const (
	greenThreshold  = 70
	yellowThreshold = 50
)

// CalculateReadiness scores the inputs. Pure and deterministic.
//
// Weights with pain: sleep .35, stress .25, physical .20, pain .20.
// Without pain:      sleep .40, stress .30, physical .30.
func CalculateReadiness(in ReadinessInput) ReadinessResult {
	sleep := sleepScore(in.HoursSlept, in.SleepQuality)
	stress := (10 - in.StressLevel) * 10
	physical := in.PhysicalCondition * 10

	factors := ReadinessFactors{Sleep: sleep, Stress: stress, Physical: physical}

	// weights in hundredths so the single rounding step is exact
	var weighted int
	if in.PainLevel != nil && *in.PainLevel > 0 {
		pain := (10 - *in.PainLevel) * 10
		factors.Pain = &pain
		weighted = sleep*35 + stress*25 + physical*20 + pain*20
	} else {
		weighted = sleep*40 + stress*30 + physical*30
	}

	overall := clampScore(roundHundredths(weighted))
	return ReadinessResult{
		Overall: overall,
		Level:   ReadinessLevel(overall),
		Factors: factors,
	}
}

// ReadinessLevel maps a score to GREEN (≥70), YELLOW (50–69) or RED.
func ReadinessLevel(score int) string {
	switch {
	case score >= greenThreshold:
		return model.ReadinessGreen
	case score >= yellowThreshold:
		return model.ReadinessYellow
	default:
		return model.ReadinessRed
	}
}

// roundHundredths rounds v/100 to the nearest integer, halves up.
func roundHundredths(v int) int {
	if v < 0 {
		return -((-v + 50) / 100)
	}
	return (v + 50) / 100
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sleepScore(hours float64, quality int) int {
	var hoursScore float64
	switch {
	case hours >= 7 && hours <= 9:
		hoursScore = 100
	case hours >= 6 && hours < 7:
		hoursScore = 80
	case hours >= 5 && hours < 6:
		hoursScore = 60
	case hours < 5:
		hoursScore = 40
	default: // > 9
		hoursScore = 90
	}
	return int(math.Round((hoursScore + float64(quality)*10) / 2))
}
