package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"testworth/domain/decision"
)

// Brief bundles one full analysis for presentation
type Brief struct {
	Title     string
	Business  decision.BusinessInputs
	Threshold float64
	EVPI      *decision.EVPIResult
	EVSI      *decision.EVSIResult
	NetValue  *decision.NetValueResult
}

// BuildMarkdown renders the decision brief as markdown. The verdict is
// always shown next to the number, never instead of it.
func BuildMarkdown(b Brief) string {
	var sb strings.Builder

	title := b.Title
	if title == "" {
		title = "Test Worth Analysis"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	fmt.Fprintf(&sb, "## Inputs\n\n")
	fmt.Fprintf(&sb, "- Baseline conversion rate: %.4f\n", b.Business.BaselineRate)
	fmt.Fprintf(&sb, "- Annual traffic: %.0f\n", b.Business.AnnualTraffic)
	fmt.Fprintf(&sb, "- Value per conversion: $%.2f\n", b.Business.ValuePerConversion)
	fmt.Fprintf(&sb, "- Value per unit lift (K): $%.2f\n", b.Business.LiftValue())
	fmt.Fprintf(&sb, "- Lift threshold: %.4f\n\n", b.Threshold)

	if b.EVPI != nil {
		fmt.Fprintf(&sb, "## Expected Value of Perfect Information\n\n")
		fmt.Fprintf(&sb, "- EVPI: **$%.2f**\n", b.EVPI.Dollars)
		fmt.Fprintf(&sb, "- Default decision: %s\n", b.EVPI.DefaultAction)
		appendTruncationNote(&sb, b.EVPI.TruncationSignificant)
	}

	if b.EVSI != nil {
		fmt.Fprintf(&sb, "## Expected Value of Sample Information\n\n")
		fmt.Fprintf(&sb, "- EVSI: **$%.2f** (method: %s)\n", b.EVSI.Dollars, b.EVSI.Method)
		fmt.Fprintf(&sb, "- Probability the test overturns the default: %.1f%%\n", b.EVSI.OverturnProbability*100)
		appendTruncationNote(&sb, b.EVSI.TruncationSignificant)
	}

	if b.NetValue != nil {
		fmt.Fprintf(&sb, "## Net Value of Testing\n\n")
		fmt.Fprintf(&sb, "- Net value: **$%.2f**\n", b.NetValue.Dollars)
		fmt.Fprintf(&sb, "- Verdict: **%s**\n", verdictLabel(b.NetValue.Verdict))
		fmt.Fprintf(&sb, "- Gross value delta: $%.2f\n", b.NetValue.GrossValueDollars)
		fmt.Fprintf(&sb, "- Direct cost: $%.2f\n", b.NetValue.DirectCostDollars)
		fmt.Fprintf(&sb, "- Delay cost: $%.2f\n", b.NetValue.DelayCostDollars)
		appendTruncationNote(&sb, b.NetValue.TruncationSignificant)
	}

	return sb.String()
}

// RenderHTML converts the markdown brief into HTML for the UI
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func appendTruncationNote(sb *strings.Builder, significant bool) {
	if significant {
		fmt.Fprintf(sb, "- Caveat: meaningful prior mass below -100%% lift was truncated; closed-form figures are approximate\n")
	}
	fmt.Fprintf(sb, "\n")
}

func verdictLabel(v decision.Verdict) string {
	if v == decision.VerdictTest {
		return "test this"
	}
	return "don't test this"
}
