package query

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT RESULTS QUERY
// Builds the voting-results CSV for the admin panel: one row per applicant,
// one column per board member, then vote count and average. Scored
// applicants come first in ranking order; unscored applicants follow so the
// export is complete without ever faking a zero average for them.
// ══════════════════════════════════════════════════════════════════════════════

// ExportResultsResult carries the rendered CSV.
type ExportResultsResult struct {
	Filename string
	Content  []byte
}

// ExportResultsHandler handles results export.
type ExportResultsHandler struct {
	applicants applicant.Repository
	votes      review.VoteRepository
	members    board.Repository
	now        func() time.Time
}

// NewExportResultsHandler creates the handler.
func NewExportResultsHandler(applicants applicant.Repository, votes review.VoteRepository, members board.Repository) *ExportResultsHandler {
	return &ExportResultsHandler{
		applicants: applicants,
		votes:      votes,
		members:    members,
		now:        time.Now,
	}
}

// Handle executes the export.
func (h *ExportResultsHandler) Handle(ctx context.Context) (*ExportResultsResult, error) {
	apps, err := h.applicants.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}
	votes, err := h.votes.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}
	boardMembers, err := h.members.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board members: %w", err)
	}

	// The reviewer identity does not matter for the matrix; any normalized
	// email yields the same averages and totals.
	stats, err := review.ComputeStats(apps, votes, "export@internal")
	if err != nil {
		return nil, err
	}

	ranked := review.Rank(stats)
	unscored := make([]review.ApplicantStats, 0)
	for _, s := range stats {
		if !s.Average.Scored() {
			unscored = append(unscored, s)
		}
	}

	sort.Slice(boardMembers, func(i, j int) bool {
		return boardMembers[i].Name < boardMembers[j].Name
	})

	// Per-member cells come from the deduplicated votes the averages were
	// computed from, never the raw slice, so a cell can't contradict the
	// average next to it.
	scoreByPair := make(map[review.Key]review.Score, len(votes))
	for _, s := range stats {
		for _, v := range s.Votes {
			scoreByPair[v.Key()] = v.Score
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Applicant", "Location"}
	for _, m := range boardMembers {
		header = append(header, m.Name)
	}
	header = append(header, "Total Votes", "Average Score")
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	writeRow := func(s review.ApplicantStats) error {
		row := []string{s.Applicant.FullName(), s.Applicant.Location()}
		for _, m := range boardMembers {
			key := review.Key{
				ApplicantID:      s.Applicant.ID,
				BoardMemberEmail: shared.NormalizeEmail(m.Email.String()),
			}
			if score, ok := scoreByPair[key]; ok {
				row = append(row, fmt.Sprintf("%d", score.Int()))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, fmt.Sprintf("%d", s.TotalVotes))
		if mean, ok := s.Average.Mean(); ok {
			row = append(row, fmt.Sprintf("%.1f", mean))
		} else {
			row = append(row, "")
		}
		return w.Write(row)
	}

	for _, s := range ranked {
		if err := writeRow(s); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, s := range unscored {
		if err := writeRow(s); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &ExportResultsResult{
		Filename: fmt.Sprintf("voting-results-%s.csv", h.now().UTC().Format("2006-01-02")),
		Content:  buf.Bytes(),
	}, nil
}
