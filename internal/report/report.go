package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goab/domain/abtest"
)

// Markdown renders an experiment analysis as a markdown document
func Markdown(exp *abtest.Experiment, result *abtest.AnalysisResult) string {
	var b strings.Builder

	name := exp.Name
	if name == "" {
		name = exp.ID.String()
	}
	fmt.Fprintf(&b, "# Experiment report: %s\n\n", name)

	b.WriteString("## Observations\n\n")
	b.WriteString("| Variation | Successes | Trials | Rate |\n")
	b.WriteString("|---|---|---|---|\n")
	writeVariationRow(&b, "control", exp.Control)
	writeVariationRow(&b, "treatment", exp.Treatment)
	b.WriteString("\n")

	b.WriteString("## Significance tests\n\n")
	b.WriteString("| Method | p-value | z | Resamples |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, res := range result.Results {
		z := "-"
		if res.ZStatistic != 0 {
			z = fmt.Sprintf("%.4f", res.ZStatistic)
		}
		resamples := "-"
		if res.Resamples > 0 {
			resamples = fmt.Sprintf("%d", res.Resamples)
		}
		fmt.Fprintf(&b, "| %s | %.5f | %s | %s |\n", res.Method, res.PValue, z, resamples)
	}
	b.WriteString("\n")

	b.WriteString("## Verdict\n\n")
	if result.Significant {
		fmt.Fprintf(&b, "The observed difference is significant at alpha = %.3g.\n\n", result.Alpha)
	} else {
		fmt.Fprintf(&b, "The observed difference is not significant at alpha = %.3g.\n\n", result.Alpha)
	}
	if !result.Agreement {
		b.WriteString("Warning: the test methods disagree beyond tolerance; treat the verdict with caution.\n\n")
	}
	if result.RecommendedSampleSize > 0 {
		fmt.Fprintf(&b, "Detecting an effect of this size reliably needs about %d observations per group.\n",
			result.RecommendedSampleSize)
	}

	return b.String()
}

func writeVariationRow(b *strings.Builder, label string, obs abtest.Observations) {
	rate, err := obs.Rate()
	if err != nil {
		fmt.Fprintf(b, "| %s | %d | %d | - |\n", label, obs.Successes, obs.Trials)
		return
	}
	fmt.Fprintf(b, "| %s | %d | %d | %.4f |\n", label, obs.Successes, obs.Trials, rate)
}

// HTML renders an experiment analysis as an HTML page body
func HTML(exp *abtest.Experiment, result *abtest.AnalysisResult) []byte {
	md := Markdown(exp, result)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
