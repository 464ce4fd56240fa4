package valuation

import (
	"testing"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/models"
)

func fund(ebit float64, age int) *models.CompanyFundamentals {
	return &models.CompanyFundamentals{
		Ticker:            "TEST",
		EBIT:              ebit,
		CompanyAgeYears:   age,
		Revenue:           1000,
		SharesOutstanding: 100,
		CurrentPrice:      10,
	}
}

func TestSelectMode(t *testing.T) {
	set := assumption.Standard()

	cases := []struct {
		name       string
		ebit       float64
		age        int
		force      bool
		wantMode   models.ValuationMode
		wantSignal models.CommentarySignal
	}{
		{"young loss-maker", -50, 10, false, models.ModeStartup, models.CommentaryYoungStartup},
		{"old loss-maker stays standard", -50, 20, false, models.ModeStandard, models.CommentaryOldAndLossMaking},
		{"profitable young", 80, 10, false, models.ModeStandard, models.CommentaryStandard},
		{"profitable old", 80, 30, false, models.ModeStandard, models.CommentaryOldAndMature},
		{"forced always startup", 80, 30, true, models.ModeStartup, models.CommentaryOldAndMature},
		{"cutoff is inclusive", -50, 15, false, models.ModeStartup, models.CommentaryYoungStartup},
		{"just past cutoff", -50, 16, false, models.ModeStandard, models.CommentaryOldAndLossMaking},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := models.DefaultParameters()
			params.ForceStartupMode = tc.force

			d := SelectMode(fund(tc.ebit, tc.age), params, set)
			if d.Mode != tc.wantMode {
				t.Errorf("mode: expected %s, got %s", tc.wantMode, d.Mode)
			}
			if d.Commentary != tc.wantSignal {
				t.Errorf("commentary: expected %s, got %s", tc.wantSignal, d.Commentary)
			}
		})
	}
}
