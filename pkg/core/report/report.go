// Package report renders a valuation result as a markdown summary and,
// for the HTTP surface, as HTML. The engine itself never produces text;
// everything here is derived from the structured result.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pro_valuation/pkg/models"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// BuildMarkdown renders the narrative summary of a valuation run.
func BuildMarkdown(result *models.ValuationResult, f *models.CompanyFundamentals) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Valuation: %s (%s)\n\n", f.DisplayName, result.Ticker)

	// Warning band keyed off the commentary signal
	switch result.Commentary {
	case models.CommentaryOldAndLossMaking:
		fmt.Fprintf(&b, "> **WARNING:** listed for %d years and loss-making. This is likely a distressed company, not a startup; the DCF value may be negative.\n\n", f.CompanyAgeYears)
	case models.CommentaryOldAndMature:
		fmt.Fprintf(&b, "> Mature company (%d years listed); standard DCF applies.\n\n", f.CompanyAgeYears)
	case models.CommentaryYoungStartup:
		fmt.Fprintf(&b, "> **STARTUP MODE:** young (%d years) or growth-focused; a revenue-multiple value is shown alongside the DCF.\n\n", f.CompanyAgeYears)
	}

	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Current price | %.2f %s |\n", result.CurrentPrice, result.Currency)
	if result.SelectedMode == models.ModeStartup && result.FairValueMultiple != nil {
		fmt.Fprintf(&b, "| Fair value (P/S multiple) | %.2f %s |\n", *result.FairValueMultiple, result.Currency)
		fmt.Fprintf(&b, "| Fair value (DCF, reference) | %.2f %s |\n", result.FairValueDCF, result.Currency)
	} else {
		fmt.Fprintf(&b, "| Fair value (DCF) | %.2f %s |\n", result.FairValueDCF, result.Currency)
	}
	fmt.Fprintf(&b, "| Upside | %.2f%% |\n", result.UpsidePct*100)
	fmt.Fprintf(&b, "| Discount rate | %.2f%% |\n", result.EffectiveDiscountRate*100)
	fmt.Fprintf(&b, "| Mode | %s |\n\n", result.SelectedMode)

	fmt.Fprintf(&b, "## Projected free cash flows (%s millions)\n\n", result.Currency)
	fmt.Fprintf(&b, "| Year | Growth | FCFF |\n|---|---|---|\n")
	for i, fcf := range result.ProjectedFCF {
		growth := 0.0
		if i < len(result.GrowthPath) {
			growth = result.GrowthPath[i]
		}
		fmt.Fprintf(&b, "| %d | %.2f%% | %.1f |\n", i+1, growth*100, fcf)
	}

	fmt.Fprintf(&b, "\n## Company profile\n\n")
	fmt.Fprintf(&b, "- **Listed:** %d years", f.CompanyAgeYears)
	if f.AgeEstimated {
		fmt.Fprintf(&b, " (estimated, no listing date available)")
	}
	fmt.Fprintf(&b, "\n")
	status := "Profitable"
	if f.IsLossMaking() {
		status = "Loss-making"
	}
	fmt.Fprintf(&b, "- **Status:** %s\n", status)
	if f.Sector != "" {
		fmt.Fprintf(&b, "- **Sector:** %s\n", f.Sector)
	}
	if len(f.EstimatedFields) > 0 {
		fmt.Fprintf(&b, "- **Estimated fields (low confidence):** %s\n", strings.Join(f.EstimatedFields, ", "))
	}

	return b.String()
}

// RenderHTML converts a markdown summary to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}
