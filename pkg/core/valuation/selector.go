package valuation

import (
	"fmt"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/models"
)

// ModeDecision is the selector's call on which methodology applies,
// with the commentary signal the presentation layer keys off.
type ModeDecision struct {
	Mode       models.ValuationMode    `json:"mode"`
	Commentary models.CommentarySignal `json:"commentary"`
	Reasoning  string                  `json:"reasoning"`
}

// SelectMode decides between Standard DCF and Startup (revenue-multiple)
// valuation. Evaluated in order, first match wins:
//
//  1. Caller forces startup mode -> Startup.
//  2. Loss-making and listed no more than the age cutoff -> Startup.
//  3. Otherwise -> Standard.
//
// An old loss-maker (age > cutoff, EBIT < 0) deliberately falls through to
// Standard DCF: it is flagged as distressed via the commentary signal, but
// the calculation path does not change.
func SelectMode(f *models.CompanyFundamentals, params models.ValuationParameters, set assumption.Set) ModeDecision {
	isOld := f.CompanyAgeYears > set.StartupAgeCutoff
	isLossMaking := f.IsLossMaking()

	useStartup := false
	switch {
	case params.ForceStartupMode:
		useStartup = true
	case isLossMaking && !isOld:
		useStartup = true
	}

	decision := ModeDecision{Mode: models.ModeStandard, Commentary: models.CommentaryStandard}
	if useStartup {
		decision.Mode = models.ModeStartup
	}

	// Commentary signal is orthogonal to the mode: the old-and-loss-making
	// warning rides on top of a Standard DCF run.
	switch {
	case isOld && isLossMaking:
		decision.Commentary = models.CommentaryOldAndLossMaking
		decision.Reasoning = fmt.Sprintf("listed %d years and loss-making: likely distressed, not growth-stage; DCF may be negative", f.CompanyAgeYears)
	case isOld:
		decision.Commentary = models.CommentaryOldAndMature
		decision.Reasoning = fmt.Sprintf("mature company (%d years listed): standard DCF", f.CompanyAgeYears)
	case useStartup:
		decision.Commentary = models.CommentaryYoungStartup
		decision.Reasoning = fmt.Sprintf("young (%d years) or growth-focused: revenue multiple computed alongside DCF", f.CompanyAgeYears)
	default:
		decision.Reasoning = "profitable company: standard DCF"
	}

	return decision
}
