package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/application/query"
	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/domain/note"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST FIXTURE
// In-memory repositories behind real command and query handlers, so every
// test exercises the same dispatch path production uses.
// ══════════════════════════════════════════════════════════════════════════════

type memApplicants struct {
	byID map[string]*applicant.Applicant
}

func (m *memApplicants) Create(_ context.Context, a *applicant.Applicant) error {
	if _, ok := m.byID[a.ID]; ok {
		return shared.ErrApplicantAlreadyExists
	}
	m.byID[a.ID] = a
	return nil
}

func (m *memApplicants) GetByID(_ context.Context, id string) (*applicant.Applicant, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrApplicantNotFound
	}
	return a, nil
}

func (m *memApplicants) GetAll(_ context.Context) ([]*applicant.Applicant, error) {
	out := make([]*applicant.Applicant, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memApplicants) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrApplicantNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memApplicants) Count(_ context.Context) (int, error) { return len(m.byID), nil }

type memVotes struct {
	byKey map[review.Key]*review.Vote
}

func (m *memVotes) Put(_ context.Context, v *review.Vote) error {
	k := v.Key()
	cp := *v
	if existing, ok := m.byKey[k]; ok {
		cp.VotedAt = existing.VotedAt
	}
	m.byKey[k] = &cp
	return nil
}

func (m *memVotes) Get(_ context.Context, applicantID string, member shared.Email) (*review.Vote, error) {
	k := review.Key{ApplicantID: applicantID, BoardMemberEmail: shared.NormalizeEmail(member.String())}
	v, ok := m.byKey[k]
	if !ok {
		return nil, shared.ErrVoteNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVotes) GetAll(_ context.Context) ([]review.Vote, error) {
	out := make([]review.Vote, 0, len(m.byKey))
	for _, v := range m.byKey {
		out = append(out, *v)
	}
	return out, nil
}

func (m *memVotes) GetByApplicant(_ context.Context, applicantID string) ([]review.Vote, error) {
	var out []review.Vote
	for k, v := range m.byKey {
		if k.ApplicantID == applicantID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memVotes) DeleteByApplicant(_ context.Context, applicantID string) error {
	for k := range m.byKey {
		if k.ApplicantID == applicantID {
			delete(m.byKey, k)
		}
	}
	return nil
}

func (m *memVotes) DeleteByMember(_ context.Context, member shared.Email) error {
	normalized := shared.NormalizeEmail(member.String())
	for k := range m.byKey {
		if k.BoardMemberEmail == normalized {
			delete(m.byKey, k)
		}
	}
	return nil
}

type memNotes struct {
	byID map[string]*note.Note
}

func (m *memNotes) Create(_ context.Context, n *note.Note) error {
	m.byID[n.ID] = n
	return nil
}

func (m *memNotes) GetByID(_ context.Context, id string) (*note.Note, error) {
	n, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNoteNotFound
	}
	return n, nil
}

func (m *memNotes) GetByApplicant(_ context.Context, applicantID string) ([]*note.Note, error) {
	var out []*note.Note
	for _, n := range m.byID {
		if n.ApplicantID == applicantID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotes) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNoteNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memNotes) DeleteByApplicant(_ context.Context, applicantID string) error {
	for id, n := range m.byID {
		if n.ApplicantID == applicantID {
			delete(m.byID, id)
		}
	}
	return nil
}

type memMembers struct {
	byEmail map[shared.Email]*board.Member
}

func (m *memMembers) Create(_ context.Context, mem *board.Member) error {
	if _, ok := m.byEmail[mem.Email]; ok {
		return shared.ErrMemberAlreadyExists
	}
	m.byEmail[mem.Email] = mem
	return nil
}

func (m *memMembers) GetByEmail(_ context.Context, email shared.Email) (*board.Member, error) {
	mem, ok := m.byEmail[shared.NormalizeEmail(email.String())]
	if !ok {
		return nil, shared.ErrMemberNotFound
	}
	return mem, nil
}

func (m *memMembers) GetAll(_ context.Context) ([]*board.Member, error) {
	out := make([]*board.Member, 0, len(m.byEmail))
	for _, mem := range m.byEmail {
		out = append(out, mem)
	}
	return out, nil
}

func (m *memMembers) SetAdmin(_ context.Context, email shared.Email, isAdmin bool) error {
	mem, ok := m.byEmail[shared.NormalizeEmail(email.String())]
	if !ok {
		return shared.ErrMemberNotFound
	}
	mem.IsAdmin = isAdmin
	return nil
}

func (m *memMembers) Delete(_ context.Context, email shared.Email) error {
	delete(m.byEmail, shared.NormalizeEmail(email.String()))
	return nil
}

type fakeIdentity struct {
	passwords map[shared.Email]string
	temporary map[shared.Email]bool
	seq       int
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email shared.Email) (string, error) {
	f.seq++
	temp := fmt.Sprintf("temp-%d", f.seq)
	f.passwords[email] = temp
	f.temporary[email] = true
	return temp, nil
}

func (f *fakeIdentity) Authenticate(_ context.Context, email shared.Email, password string) error {
	stored, ok := f.passwords[email]
	if !ok {
		return shared.ErrAccountNotFound
	}
	if stored != password {
		return shared.ErrInvalidCredentials
	}
	if f.temporary[email] {
		return shared.ErrPasswordChangeNeed
	}
	return nil
}

func (f *fakeIdentity) SetPassword(_ context.Context, email shared.Email, password string) error {
	if len(password) < 8 {
		return shared.ErrWeakPassword
	}
	f.passwords[email] = password
	f.temporary[email] = false
	return nil
}

func (f *fakeIdentity) ResetPassword(_ context.Context, email shared.Email) (string, error) {
	return f.CreateAccount(context.Background(), email)
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, email shared.Email) error {
	delete(f.passwords, email)
	delete(f.temporary, email)
	return nil
}

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) SendWelcome(_ context.Context, to shared.Email, _, _ string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, "welcome:"+to.String())
	return nil
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to shared.Email, _, _ string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, "reset:"+to.String())
	return nil
}

func (f *fakeMailer) Send(_ context.Context, to []string, subject, _, _ string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, "send:"+strings.Join(to, ",")+":"+subject)
	return nil
}

type memSessions struct {
	byToken map[string]*redis.Session
	seq     int
}

func (m *memSessions) Create(_ context.Context, sess *redis.Session) (string, error) {
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	cp := *sess
	m.byToken[token] = &cp
	return token, nil
}

func (m *memSessions) Get(_ context.Context, token string) (*redis.Session, error) {
	sess, ok := m.byToken[token]
	if !ok {
		return nil, redis.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (m *memSessions) Update(_ context.Context, token string, sess *redis.Session) error {
	if _, ok := m.byToken[token]; !ok {
		return redis.ErrSessionNotFound
	}
	cp := *sess
	m.byToken[token] = &cp
	return nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

// fixture bundles the fakes behind a fully wired server.
type fixture struct {
	server     *Server
	applicants *memApplicants
	votes      *memVotes
	notes      *memNotes
	members    *memMembers
	identity   *fakeIdentity
	mailer     *fakeMailer
	sessions   *memSessions
}

func testApplicant(id string) *applicant.Applicant {
	return &applicant.Applicant{
		ID:        id,
		FirstName: "First-" + id,
		LastName:  "Last-" + id,
		Email:     shared.Email(id + "@example.com"),
		City:      "Harpers Ferry",
		State:     "WV",
		Status:    applicant.StatusSubmitted,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		applicants: &memApplicants{byID: make(map[string]*applicant.Applicant)},
		votes:      &memVotes{byKey: make(map[review.Key]*review.Vote)},
		notes:      &memNotes{byID: make(map[string]*note.Note)},
		members:    &memMembers{byEmail: make(map[shared.Email]*board.Member)},
		identity: &fakeIdentity{
			passwords: make(map[shared.Email]string),
			temporary: make(map[shared.Email]bool),
		},
		mailer:   &fakeMailer{},
		sessions: &memSessions{byToken: make(map[string]*redis.Session)},
	}

	// Seeded accounts: one admin, one regular reviewer, both with
	// permanent passwords.
	for _, seed := range []struct {
		email, name, password string
		admin                 bool
	}{
		{"admin@example.com", "Ada Admin", "admin-secret", true},
		{"reviewer@example.com", "Rae Reviewer", "reviewer-secret", false},
	} {
		m, err := board.NewMember(seed.email, seed.name, seed.admin)
		require.NoError(t, err)
		require.NoError(t, f.members.Create(context.Background(), m))
		f.identity.passwords[m.Email] = seed.password
	}

	f.applicants.byID["a1"] = testApplicant("a1")
	f.applicants.byID["a2"] = testApplicant("a2")

	deps := Dependencies{
		SignIn:              command.NewSignInHandler(f.members, f.identity),
		ChangePassword:      command.NewChangePasswordHandler(f.identity),
		GetReviewBoard:      query.NewGetReviewBoardHandler(f.applicants, f.votes, f.notes, nil),
		CastVote:            command.NewCastVoteHandler(f.applicants, f.votes),
		AddNote:             command.NewAddNoteHandler(f.applicants, f.notes),
		DeleteNote:          command.NewDeleteNoteHandler(f.notes),
		AddApplicant:        command.NewAddApplicantHandler(f.applicants),
		ImportApplicants:    command.NewImportApplicantsHandler(f.applicants),
		RemoveApplicant:     command.NewRemoveApplicantHandler(f.applicants, f.votes, f.notes),
		GetBoardMembers:     query.NewGetBoardMembersHandler(f.members),
		InviteMember:        command.NewInviteMemberHandler(f.members, f.identity, f.mailer),
		RemoveMember:        command.NewRemoveMemberHandler(f.members, f.votes, f.identity),
		SetMemberAdmin:      command.NewSetMemberAdminHandler(f.members),
		ResetMemberPassword: command.NewResetMemberPasswordHandler(f.members, f.identity, f.mailer),
		ExportResults:       query.NewExportResultsHandler(f.applicants, f.votes, f.members),
		SendEmail:           command.NewSendEmailHandler(f.mailer),
		Sessions:            f.sessions,
	}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	f.server = NewServer(cfg, deps)
	return f
}

// do runs one request through the full middleware chain.
func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the envelope's data field into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data, "expected data, got error: %+v", envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error *APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

// signIn authenticates one of the seeded accounts and returns the token.
func (f *fixture) signIn(t *testing.T, email, password string) string {
	t.Helper()
	rec := f.do("POST", "/api/auth/login", "", loginRequest{Email: email, Password: password})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	decodeData(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

func TestLoginCreatesSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/api/auth/login", "", loginRequest{
		Email:    "Reviewer@Example.com",
		Password: "reviewer-secret",
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	decodeData(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.PasswordChangeRequired)
	require.NotNil(t, resp.Member)
	assert.Equal(t, "reviewer@example.com", resp.Member.Email)
	assert.False(t, resp.Member.IsAdmin)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/api/auth/login", "", loginRequest{
		Email:    "reviewer@example.com",
		Password: "wrong",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownAccountIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	// Unknown accounts must be indistinguishable from a bad password.
	rec := f.do("POST", "/api/auth/login", "", loginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))
}

func TestLoginTemporaryPasswordRequiresChange(t *testing.T) {
	f := newFixture(t)

	// Invite a member so they hold a temporary password.
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")
	rec := f.do("POST", "/api/admin/members", adminToken, inviteMemberRequest{
		Email: "new@example.com",
		Name:  "New Member",
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	temp := f.identity.passwords[shared.Email("new@example.com")]
	rec = f.do("POST", "/api/auth/login", "", loginRequest{
		Email:    "new@example.com",
		Password: temp,
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.PasswordChangeRequired)
	assert.Empty(t, resp.Token, "no session until the password is changed")

	// Change it, then sign in normally.
	rec = f.do("POST", "/api/auth/change-password", "", changePasswordRequest{
		Email:           "new@example.com",
		CurrentPassword: temp,
		NewPassword:     "permanent-secret",
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	token := f.signIn(t, "new@example.com", "permanent-secret")
	assert.NotEmpty(t, token)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("POST", "/api/auth/logout", token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = f.do("GET", "/api/review/board", token, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestMeReturnsSessionIdentity(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("GET", "/api/auth/me", token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var me struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	decodeData(t, rec, &me)
	assert.Equal(t, "admin@example.com", me.Email)
	assert.True(t, me.IsAdmin)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{
		"/api/review/board",
		"/api/auth/me",
	} {
		rec := f.do("GET", path, "", nil)
		assert.Equal(t, nethttp.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("GET", "/api/admin/members", token, nil)
	assert.Equal(t, nethttp.StatusForbidden, rec.Code)

	rec = f.do("DELETE", "/api/applicants/a1", token, nil)
	assert.Equal(t, nethttp.StatusForbidden, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW BOARD & VOTING
// ══════════════════════════════════════════════════════════════════════════════

func TestReviewBoardAndVoting(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	// Initially everything is unvoted.
	rec := f.do("GET", "/api/review/board", token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var boardView query.GetReviewBoardResult
	decodeData(t, rec, &boardView)
	assert.Equal(t, 2, boardView.TotalApplicants)
	assert.Equal(t, 0, boardView.VotedCount)
	assert.Len(t, boardView.Unvoted, 2)
	assert.Empty(t, boardView.Ranked)
	assert.False(t, boardView.AllVotesComplete)

	// Cast a vote.
	rec = f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "a1", Score: 8})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var voteResp castVoteResponse
	decodeData(t, rec, &voteResp)
	assert.Equal(t, 8, voteResp.Score)
	assert.False(t, voteResp.AlreadyCast)

	// The board now ranks the voted applicant.
	rec = f.do("GET", "/api/review/board", token, nil)
	decodeData(t, rec, &boardView)
	assert.Equal(t, 1, boardView.VotedCount)
	require.Len(t, boardView.Ranked, 1)
	assert.Equal(t, "a1", boardView.Ranked[0].Applicant.ID)
	require.NotNil(t, boardView.Ranked[0].UserScore)
	assert.Equal(t, 8, *boardView.Ranked[0].UserScore)
}

func TestVoteResubmitSameScoreIsIdempotent(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "a1", Score: 5})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "a1", Score: 5})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var resp castVoteResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.AlreadyCast)
}

func TestVoteChangeRejected(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "a1", Score: 5})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "a1", Score: 9})
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.Equal(t, "already_voted", errorCode(t, rec))
}

func TestVoteScoreOutOfRange(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "a1", Score: 11})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestVoteUnknownApplicant(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("PUT", "/api/review/votes", token, castVoteRequest{ApplicantID: "ghost", Score: 5})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTES
// ══════════════════════════════════════════════════════════════════════════════

func TestNoteLifecycle(t *testing.T) {
	f := newFixture(t)
	reviewerToken := f.signIn(t, "reviewer@example.com", "reviewer-secret")
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("POST", "/api/review/applicants/a1/notes", reviewerToken, addNoteRequest{
		Content: "Strong essay about trail resilience.",
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	var created query.NoteDTO
	decodeData(t, rec, &created)
	assert.Equal(t, "a1", created.ApplicantID)
	assert.Equal(t, "reviewer@example.com", created.BoardMemberEmail)

	// Another member cannot delete it.
	rec = f.do("DELETE", "/api/review/notes/"+created.ID, adminToken, nil)
	// Admins may moderate any note.
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	// Deleting again is a 404.
	rec = f.do("DELETE", "/api/review/notes/"+created.ID, reviewerToken, nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestNoteDeleteForbiddenForOtherMember(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")
	reviewerToken := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("POST", "/api/review/applicants/a1/notes", adminToken, addNoteRequest{Content: "Admin note"})
	require.Equal(t, nethttp.StatusCreated, rec.Code)

	var created query.NoteDTO
	decodeData(t, rec, &created)

	rec = f.do("DELETE", "/api/review/notes/"+created.ID, reviewerToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, rec.Code)
}

func TestEmptyNoteRejected(t *testing.T) {
	f := newFixture(t)
	token := f.signIn(t, "reviewer@example.com", "reviewer-secret")

	rec := f.do("POST", "/api/review/applicants/a1/notes", token, addNoteRequest{Content: "   "})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICANTS
// ══════════════════════════════════════════════════════════════════════════════

func TestAddApplicantIntake(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/api/applicants", "", command.AddApplicantCommand{
		FirstName: "Tess",
		LastName:  "Walker",
		Email:     "Tess@Example.org",
		Phone:     "555-0100",
		Address:   "1 Trailhead Rd",
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ApplicantID string `json:"applicantId"`
		Email       string `json:"email"`
	}
	decodeData(t, rec, &resp)
	assert.NotEmpty(t, resp.ApplicantID)
	assert.Equal(t, "tess@example.org", resp.Email)
}

func TestImportApplicantsMultipart(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	csvBody := "First Name,Last Name,Email,Status\n" +
		"Ann,Archer,ann@example.org,Submitted\n" +
		"Bo,Brooks,bo@example.org,Submitted\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "applicants.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/applicants/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var result command.ImportResult
	decodeData(t, rec, &result)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Failures)
}

func TestRemoveApplicantCascades(t *testing.T) {
	f := newFixture(t)
	adminToken := f.signIn(t, "admin@example.com", "admin-secret")

	rec := f.do("PUT", "/api/review/votes", adminToken, castVoteRequest{ApplicantID: "a1", Score: 7})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = f.do("DELETE", "/api/applicants/a1", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	assert.NotContains(t, f.applicants.byID, "a1")
	assert.Empty(t, f.votes.byKey)

	rec = f.do("DELETE", "/api/applicants/a1", adminToken, nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}
