package http

import (
	"context"
	nethttp "net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onemoreday/scholarship-hub/internal/application/query"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOARD ADMINISTRATION
// ══════════════════════════════════════════════════════════════════════════════

func TestInviteMemberSendsWelcome(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("POST", "/api/admin/members", adminToken, inviteMemberRequest{
		Email:   "Casey@Example.com",
		Name:    "Casey Chen",
		IsAdmin: false,
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	var resp inviteMemberResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, "casey@example.com", resp.Member.Email)
	assert.True(t, resp.MailDelivered)
	assert.Contains(t, f.mailer.sent, "welcome:casey@example.com")
}

func TestInviteMemberDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("POST", "/api/admin/members", adminToken, inviteMemberRequest{
		Email: "reviewer@example.com",
		Name:  "Duplicate",
	})
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
}

func TestInviteMemberMailFailureStillCreates(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")
	f.mailer.fail = true

	rec := f.do("POST", "/api/admin/members", adminToken, inviteMemberRequest{
		Email: "unlucky@example.com",
		Name:  "Unlucky",
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	var resp inviteMemberResponse
	decodeData(t, rec, &resp)
	assert.False(t, resp.MailDelivered)

	// The member exists and can be issued a fresh password later.
	_, err := f.members.GetByEmail(context.Background(), shared.Email("unlucky@example.com"))
	assert.NoError(t, err)
}

func TestRemoveMemberCleansUpVotes(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")
	reviewerToken := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("PUT", "/api/review/votes", reviewerToken, castVoteRequest{ApplicantID: "a1", Score: 6})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = f.do("DELETE", "/api/admin/members/reviewer@example.com", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	assert.Empty(t, f.votes.byKey)
	_, err := f.members.GetByEmail(context.Background(), shared.Email("reviewer@example.com"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemoveOwnAccountRejected(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("DELETE", "/api/admin/members/admin@example.com", adminToken, nil)
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
}

func TestSetMemberAdmin(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("PUT", "/api/admin/members/reviewer@example.com/admin", adminToken, setAdminRequest{IsAdmin: true})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	m, err := f.members.GetByEmail(context.Background(), shared.Email("reviewer@example.com"))
	require.NoError(t, err)
	assert.True(t, m.IsAdmin)
}

func TestRevokeOwnAdminRejected(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("PUT", "/api/admin/members/admin@example.com/admin", adminToken, setAdminRequest{IsAdmin: false})
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
}

func TestResetMemberPassword(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("POST", "/api/admin/members/reviewer@example.com/reset-password", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	assert.True(t, f.identity.temporary[shared.Email("reviewer@example.com")])
	assert.Contains(t, f.mailer.sent, "reset:reviewer@example.com")
}

func TestListMembers(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("GET", "/api/admin/members", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var result query.GetBoardMembersResult
	decodeData(t, rec, &result)
	assert.Len(t, result.Members, 2)
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTING TOGGLE
// ══════════════════════════════════════════════════════════════════════════════

func TestTestingTogglePreviewsCompletion(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")
	reviewerToken := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("PUT", "/api/admin/testing", adminToken, testingToggleRequest{PreviewAllComplete: true})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	// The admin's board now previews completion.
	var boardView query.GetReviewBoardResult
	rec = f.do("GET", "/api/review/board", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	decodeData(t, rec, &boardView)
	assert.True(t, boardView.AllVotesComplete)

	// Other sessions are unaffected.
	rec = f.do("GET", "/api/review/board", reviewerToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	decodeData(t, rec, &boardView)
	assert.False(t, boardView.AllVotesComplete)
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORTS & COMMUNICATIONS
// ══════════════════════════════════════════════════════════════════════════════

func TestExportResultsCSV(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("PUT", "/api/review/votes", adminToken, castVoteRequest{ApplicantID: "a1", Score: 9})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = f.do("GET", "/api/admin/export/results.csv", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "voting-results-")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3) // header + two applicants
	assert.Contains(t, lines[0], "Average Score")
	// The voted applicant ranks first.
	assert.Contains(t, lines[1], "First-a1 Last-a1")
	assert.Contains(t, lines[1], "9.0")
}

func TestSendEmail(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("POST", "/api/admin/email", adminToken, sendEmailRequest{
		To:      []string{"finalist@example.org"},
		Subject: "Interview scheduling",
		Text:    "Congratulations, you are a finalist.",
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0], "finalist@example.org")
}

func TestSendEmailValidation(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("POST", "/api/admin/email", adminToken, sendEmailRequest{
		To:      []string{"finalist@example.org"},
		Subject: "",
		Text:    "body",
	})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// MISC
// ══════════════════════════════════════════════════════════════════════════════

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do("GET", "/healthz", "", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestUnimplementedEndpointReturns501(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	// No assistant is wired in the fixture.
	rec := f.do("POST", "/api/assistant/search", token, assistantSearchRequest{Question: "who hiked before?"})
	assert.Equal(t, nethttp.StatusNotImplemented, rec.Code)
}
