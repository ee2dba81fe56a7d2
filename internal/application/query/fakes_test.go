package query

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

// In-memory repositories for query handler tests.

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
	delete(m.byID, id)
	return nil
}

func (m *memApplicants) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

type memVotes struct {
	byKey map[review.Key]*review.Vote
}

func newMemVotes(vs ...review.Vote) *memVotes {
	m := &memVotes{byKey: make(map[review.Key]*review.Vote)}
	for _, v := range vs {
		cp := v
		m.byKey[cp.Key()] = &cp
	}
	return m
}

func (m *memVotes) Put(_ context.Context, v *review.Vote) error {
	cp := *v
	m.byKey[cp.Key()] = &cp
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
	byID  map[string]*note.Note
	reads map[string]int
}

func newMemNotes(ns ...*note.Note) *memNotes {
	m := &memNotes{byID: make(map[string]*note.Note), reads: make(map[string]int)}
	for _, n := range ns {
		m.byID[n.ID] = n
	}
	return m
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
	m.reads[applicantID]++
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

type memVideos struct {
	byEmail map[shared.Email]*applicant.VideoSubmission
}

func newMemVideos(vs ...*applicant.VideoSubmission) *memVideos {
	m := &memVideos{byEmail: make(map[shared.Email]*applicant.VideoSubmission)}
	for _, v := range vs {
		m.byEmail[shared.NormalizeEmail(v.Email.String())] = v
	}
	return m
}

func (m *memVideos) GetAll(_ context.Context) ([]*applicant.VideoSubmission, error) {
	out := make([]*applicant.VideoSubmission, 0, len(m.byEmail))
	for _, v := range m.byEmail {
		out = append(out, v)
	}
	return out, nil
}

func (m *memVideos) GetByEmail(_ context.Context, email shared.Email) (*applicant.VideoSubmission, error) {
	v, ok := m.byEmail[shared.NormalizeEmail(email.String())]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

// fakeAssistant returns canned replies and records what it was asked.
type fakeAssistant struct {
	matches      []Match
	matchErr     error
	chatReply    string
	chatErr      error
	summaries    map[string]string
	summarizeErr error

	questions []string
	chatSeen  []string
}

func (f *fakeAssistant) MatchApplicants(_ context.Context, question string, _ []*applicant.Applicant) ([]Match, error) {
	f.questions = append(f.questions, question)
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.matches, nil
}

func (f *fakeAssistant) Chat(_ context.Context, a *applicant.Applicant, _ []ChatMessage, message string) (string, error) {
	f.chatSeen = append(f.chatSeen, a.ID+":"+message)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatReply, nil
}

func (f *fakeAssistant) Summarize(_ context.Context, a *applicant.Applicant) (string, error) {
	if f.summarizeErr != nil {
		return "", f.summarizeErr
	}
	if s, ok := f.summaries[a.ID]; ok {
		return s, nil
	}
	return "", fmt.Errorf("no summary for %s", a.ID)
}
