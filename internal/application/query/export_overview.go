package query

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT MEETING OVERVIEW QUERY
// Renders the printable meeting-overview document: applicants in ranking
// order, each with vote statistics and a short model-generated summary of
// their essays. A failed summary call falls back to a generic line so the
// document always renders completely.
// ══════════════════════════════════════════════════════════════════════════════

// OverviewEntry is one applicant section of the overview document.
type OverviewEntry struct {
	Rank       int
	Name       string
	Location   string
	Average    string
	TotalVotes int
	Summary    string
}

// ExportOverviewResult carries the rendered HTML document.
type ExportOverviewResult struct {
	Filename string
	HTML     []byte
}

// ExportOverviewHandler handles meeting overview export.
type ExportOverviewHandler struct {
	applicants applicant.Repository
	votes      review.VoteRepository
	assistant  Assistant
	now        func() time.Time
}

// NewExportOverviewHandler creates the handler. The assistant may be nil;
// every summary then uses the fallback line.
func NewExportOverviewHandler(applicants applicant.Repository, votes review.VoteRepository, assistant Assistant) *ExportOverviewHandler {
	return &ExportOverviewHandler{
		applicants: applicants,
		votes:      votes,
		assistant:  assistant,
		now:        time.Now,
	}
}

var overviewTemplate = template.Must(template.New("overview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Scholarship Board Meeting Overview</title>
<style>
body { font-family: Georgia, serif; max-width: 800px; margin: 40px auto; color: #1f2937; }
h1 { color: #2d4a3e; border-bottom: 2px solid #d4c5a0; padding-bottom: 12px; }
.entry { margin: 28px 0; page-break-inside: avoid; }
.entry h2 { margin-bottom: 4px; color: #2d4a3e; }
.meta { color: #6b7280; font-size: 14px; margin-bottom: 8px; }
.summary { white-space: pre-line; }
.generated { margin-top: 40px; color: #9ca3af; font-size: 12px; }
</style>
</head>
<body>
<h1>Scholarship Board Meeting Overview</h1>
{{range .Entries}}
<div class="entry">
<h2>#{{.Rank}} {{.Name}}</h2>
<div class="meta">{{.Location}} &middot; Average {{.Average}} &middot; {{.TotalVotes}} vote(s)</div>
<div class="summary">{{.Summary}}</div>
</div>
{{end}}
<div class="generated">Generated {{.GeneratedAt}}</div>
</body>
</html>
`))

// Handle executes the export.
func (h *ExportOverviewHandler) Handle(ctx context.Context) (*ExportOverviewResult, error) {
	apps, err := h.applicants.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}
	votes, err := h.votes.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}

	stats, err := review.ComputeStats(apps, votes, "export@internal")
	if err != nil {
		return nil, err
	}

	entries := make([]OverviewEntry, 0, len(stats))
	for i, s := range review.Rank(stats) {
		entries = append(entries, OverviewEntry{
			Rank:       i + 1,
			Name:       s.Applicant.FullName(),
			Location:   s.Applicant.Location(),
			Average:    s.Average.String(),
			TotalVotes: s.TotalVotes,
			Summary:    h.summarize(ctx, s.Applicant),
		})
	}

	var buf bytes.Buffer
	data := struct {
		Entries     []OverviewEntry
		GeneratedAt string
	}{
		Entries:     entries,
		GeneratedAt: h.now().UTC().Format("January 2, 2006"),
	}
	if err := overviewTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render overview: %w", err)
	}

	return &ExportOverviewResult{
		Filename: fmt.Sprintf("meeting-overview-%s.html", h.now().UTC().Format("2006-01-02")),
		HTML:     buf.Bytes(),
	}, nil
}

func (h *ExportOverviewHandler) summarize(ctx context.Context, a *applicant.Applicant) string {
	if h.assistant != nil {
		if summary, err := h.assistant.Summarize(ctx, a); err == nil && summary != "" {
			return summary
		}
	}
	return fmt.Sprintf("• %s from %s\n• Applying for the scholarship\n• See full application for details",
		a.FullName(), a.Location())
}
