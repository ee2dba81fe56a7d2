package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/onemoreday/scholarship-hub/internal/domain/applicant"
	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/domain/note"
	"github.com/onemoreday/scholarship-hub/internal/domain/review"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// In-memory repositories for handler tests.

type memApplicants struct {
	byID map[string]*applicant.Applicant
}

func newMemApplicants(as ...*applicant.Applicant) *memApplicants {
	m := &memApplicants{byID: make(map[string]*applicant.Applicant)}
	for _, a := range as {
		m.byID[a.ID] = a
	}
	return m
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

func (m *memApplicants) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

type memVotes struct {
	byKey map[review.Key]*review.Vote
}

func newMemVotes() *memVotes {
	return &memVotes{byKey: make(map[review.Key]*review.Vote)}
}

func (m *memVotes) Put(_ context.Context, v *review.Vote) error {
	k := v.Key()
	if existing, ok := m.byKey[k]; ok {
		cp := *v
		cp.VotedAt = existing.VotedAt
		m.byKey[k] = &cp
		return nil
	}
	cp := *v
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
	norm := shared.NormalizeEmail(member.String())
	for k := range m.byKey {
		if k.BoardMemberEmail == norm {
			delete(m.byKey, k)
		}
	}
	return nil
}

type memNotes struct {
	byID map[string]*note.Note
}

func newMemNotes() *memNotes {
	return &memNotes{byID: make(map[string]*note.Note)}
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

func newMemMembers(ms ...*board.Member) *memMembers {
	m := &memMembers{byEmail: make(map[shared.Email]*board.Member)}
	for _, mem := range ms {
		m.byEmail[mem.Email] = mem
	}
	return m
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

// fakeIdentity records account operations; passwords are stored in clear
// because these tests only assert the flow, never the hashing.
type fakeIdentity struct {
	passwords map[shared.Email]string
	temporary map[shared.Email]bool
	created   []shared.Email
	deleted   []shared.Email
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		passwords: make(map[shared.Email]string),
		temporary: make(map[shared.Email]bool),
	}
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email shared.Email) (string, error) {
	temp := fmt.Sprintf("temp-%d", len(f.created)+1)
	f.passwords[email] = temp
	f.temporary[email] = true
	f.created = append(f.created, email)
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
	if _, ok := f.passwords[email]; !ok {
		return shared.ErrAccountNotFound
	}
	f.passwords[email] = password
	f.temporary[email] = false
	return nil
}

func (f *fakeIdentity) ResetPassword(_ context.Context, email shared.Email) (string, error) {
	if _, ok := f.passwords[email]; !ok {
		return "", shared.ErrAccountNotFound
	}
	temp := "reset-temp"
	f.passwords[email] = temp
	f.temporary[email] = true
	return temp, nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, email shared.Email) error {
	if _, ok := f.passwords[email]; !ok {
		return shared.ErrAccountNotFound
	}
	delete(f.passwords, email)
	delete(f.temporary, email)
	f.deleted = append(f.deleted, email)
	return nil
}

type sentMail struct {
	To      []string
	Subject string
	Kind    string // "welcome", "reset", "adhoc"
	Temp    string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (f *fakeMailer) SendWelcome(_ context.Context, to shared.Email, _ string, temp string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, sentMail{To: []string{to.String()}, Kind: "welcome", Temp: temp})
	return nil
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to shared.Email, _ string, temp string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, sentMail{To: []string{to.String()}, Kind: "reset", Temp: temp})
	return nil
}

func (f *fakeMailer) Send(_ context.Context, to []string, subject, _, _ string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Kind: "adhoc"})
	return nil
}
