// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/questions"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuotedPlans outputs a human-readable summary of the quoted plans.
func (p *Printer) PrintQuotedPlans(plans []types.InsurancePlan) {
	if len(plans) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Plans quoted: %d\n\n", len(plans)))

	count := min(len(plans), maxItemsToShow)
	for i := 0; i < count; i++ {
		plan := plans[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, plan.Name))
		sb.WriteString(fmt.Sprintf("    Carrier: %s", plan.Carrier))
		if plan.Premium > 0 {
			sb.WriteString(fmt.Sprintf("  $%.2f/mo", plan.Premium))
		}
		sb.WriteString("\n")
	}
	if len(plans) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plans)-maxItemsToShow))
	}

	p.printBox("QUOTED PLANS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBundleSummary outputs the shape of a fetched eligibility bundle:
// which plans it covers and how many questions of each type it carries.
func (p *Printer) PrintBundleSummary(req *types.BundleRequest, resp *types.BundleResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Form:      %s\n", req.ApplicationFormNumber))
	sb.WriteString(fmt.Sprintf("Plans:     %s\n", strings.Join(req.PlanIDs, ", ")))
	sb.WriteString(fmt.Sprintf("Rate tier: %s\n", req.RateTier))
	sb.WriteString("\n")

	byType := make(map[types.QuestionType]int)
	total := 0
	conditional := 0
	knockouts := 0
	for _, app := range resp.Applications {
		for _, q := range app.Questions {
			byType[q.QuestionType]++
			total++
			if q.Condition != nil {
				conditional++
			}
			for _, a := range q.PossibleAnswers {
				if a.IsKnockOut {
					knockouts++
					break
				}
			}
		}
	}

	sb.WriteString(fmt.Sprintf("Questions: %d (%d conditional, %d with knockouts)\n", total, conditional, knockouts))
	for qt, n := range byType {
		sb.WriteString(fmt.Sprintf("  • %s: %d\n", qt, n))
	}

	p.printBox("ELIGIBILITY BUNDLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationSummary outputs the current validation state of a response
// set: missing answers and triggered knockouts.
func (p *Printer) PrintValidationSummary(v *types.QuestionValidation) {
	if v == nil {
		return
	}

	var sb strings.Builder
	if v.IsValid {
		sb.WriteString("All answered, no knockouts triggered.\n")
	} else {
		sb.WriteString(fmt.Sprintf("Missing answers:  %d\n", len(v.MissingIDs)))
		sb.WriteString(fmt.Sprintf("Knockouts hit:    %d\n", len(v.KnockoutAnswers)))
	}

	count := min(len(v.DisplayErrors), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", v.DisplayErrors[i]))
	}
	if len(v.DisplayErrors) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(v.DisplayErrors)-maxItemsToShow))
	}

	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestion outputs one question with its answer options, with any HTML
// markup stripped for terminal display.
func (p *Printer) PrintQuestion(q *types.EligibilityQuestion) {
	if q == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(questions.QuestionPlainText(*q))
	sb.WriteString("\n\n")
	for _, a := range q.PossibleAnswers {
		marker := " "
		if a.IsKnockOut {
			marker = "✗"
		}
		sb.WriteString(fmt.Sprintf("  [%d]%s %s\n", a.ID, marker, a.AnswerText))
	}

	p.printBox(fmt.Sprintf("QUESTION %d", q.QuestionID), strings.TrimSuffix(sb.String(), "\n"))
}
