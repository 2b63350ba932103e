package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// --- Mock implementations ---

type mockVCS struct {
	mu sync.Mutex

	dirty         bool
	dirtyErr      error
	currentBranch string
	repoSlug      string
	diffByPath    map[string]string
	files         []model.ModifiedFile

	applyErr  error
	fetchErr  error
	createErr error

	// Set to make DiffFile for one path block until diffRelease closes;
	// diffStarted signals that the blocked call is in flight.
	blockDiffPath string
	diffStarted   chan struct{}
	diffRelease   chan struct{}

	fetched         int
	createdBranches []string
	switchedTo      []string
	deletedBranches []string
	appliedRefs     []string
	reverted        [][]model.ModifiedFile
}

func (m *mockVCS) HasUncommittedChanges(_ context.Context) (bool, error) {
	return m.dirty, m.dirtyErr
}

func (m *mockVCS) CurrentBranch(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentBranch, nil
}

func (m *mockVCS) RemoteRepo(_ context.Context) (string, error) {
	if m.repoSlug == "" {
		return "", errors.New("no remote configured")
	}
	return m.repoSlug, nil
}

func (m *mockVCS) Fetch(_ context.Context) error {
	m.fetched++
	return m.fetchErr
}

func (m *mockVCS) RemoteRef(branch string) string {
	return "origin/" + branch
}

func (m *mockVCS) CreateBranch(_ context.Context, name, _ string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdBranches = append(m.createdBranches, name)
	m.currentBranch = name
	return nil
}

func (m *mockVCS) SwitchBranch(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switchedTo = append(m.switchedTo, name)
	m.currentBranch = name
	return nil
}

func (m *mockVCS) DeleteBranch(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedBranches = append(m.deletedBranches, name)
	return nil
}

func (m *mockVCS) ApplyChanges(_ context.Context, ref string) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.appliedRefs = append(m.appliedRefs, ref)
	return nil
}

func (m *mockVCS) ChangedFiles(_ context.Context, _ string) ([]model.ModifiedFile, error) {
	out := make([]model.ModifiedFile, len(m.files))
	copy(out, m.files)
	return out, nil
}

func (m *mockVCS) DiffFile(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	text, ok := m.diffByPath[path]
	blocked := m.blockDiffPath != "" && m.blockDiffPath == path
	m.mu.Unlock()

	if blocked {
		if m.diffStarted != nil {
			close(m.diffStarted)
		}
		<-m.diffRelease
	}
	if !ok {
		return "", errors.New("diff unavailable for " + path)
	}
	return text, nil
}

func (m *mockVCS) RevertFiles(_ context.Context, files []model.ModifiedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reverted = append(m.reverted, files)
	return nil
}

func (m *mockVCS) ShowFileAt(_ context.Context, _, path string) (string, error) {
	return "content of " + path, nil
}

type mockReview struct {
	mu sync.Mutex

	prs       []model.PullRequest
	prsErr    error
	detail    func(number int) (*model.PullRequest, error)
	comments  []model.Comment
	serverDrv *model.PendingReviewDraft

	markViewedErr error

	fetchCommentsCalls int
	findDraftCalls     int
	createDraftCalls   int
	attached           []model.Comment
	submittedDrafts    []int64
	submittedDirect    int
	verdicts           []model.Verdict
	bodies             []string
	viewedMarks        []string
}

func (m *mockReview) ListOpenPullRequests(_ context.Context, _ string) ([]model.PullRequest, error) {
	return m.prs, m.prsErr
}

func (m *mockReview) FetchPullRequest(_ context.Context, _ string, number int) (*model.PullRequest, error) {
	if m.detail != nil {
		return m.detail(number)
	}
	for _, pr := range m.prs {
		if pr.Number == number {
			return &pr, nil
		}
	}
	return nil, errors.New("pull request not found")
}

func (m *mockReview) FetchComments(_ context.Context, _ string, _ int) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCommentsCalls++
	return m.comments, nil
}

func (m *mockReview) AddComment(_ context.Context, _ string, _ int, path string, line int, body string) (model.Comment, error) {
	return model.Comment{ID: 1, Path: path, Line: line, Body: body}, nil
}

func (m *mockReview) EditComment(_ context.Context, _ string, _ int64, _ string) error {
	return nil
}

func (m *mockReview) DeleteComment(_ context.Context, _ string, _ int64) error {
	return nil
}

func (m *mockReview) ReplyToComment(_ context.Context, _ string, _ int, _ int64, _ string) error {
	return nil
}

func (m *mockReview) FindPendingDraft(_ context.Context, _ string, _ int) (*model.PendingReviewDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findDraftCalls++
	return m.serverDrv, nil
}

func (m *mockReview) CreateDraft(_ context.Context, _ string, number int, commitID string) (*model.PendingReviewDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createDraftCalls++
	draft := &model.PendingReviewDraft{ID: 500, NodeID: "PRR_500", CommitID: commitID}
	m.serverDrv = draft
	return draft, nil
}

func (m *mockReview) AttachDraftComment(_ context.Context, _ string, path string, line int, body string) (model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := model.Comment{ID: int64(len(m.attached) + 1), Path: path, Line: line, Body: body, Pending: true}
	m.attached = append(m.attached, c)
	return c, nil
}

func (m *mockReview) FetchDraftComments(_ context.Context, _ string, _ int, _ int64) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attached, nil
}

func (m *mockReview) SubmitDraft(_ context.Context, _ string, _ int, draftID int64, verdict model.Verdict, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submittedDrafts = append(m.submittedDrafts, draftID)
	m.verdicts = append(m.verdicts, verdict)
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *mockReview) SubmitReview(_ context.Context, _ string, _ int, verdict model.Verdict, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submittedDirect++
	m.verdicts = append(m.verdicts, verdict)
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *mockReview) MarkFileViewed(_ context.Context, _ string, _ int, path string) error {
	if m.markViewedErr != nil {
		return m.markViewedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewedMarks = append(m.viewedMarks, path)
	return nil
}

type mockStore struct {
	mu sync.Mutex

	saved   []model.ReviewSession
	stored  *model.ReviewSession
	saveErr error
	deletes []string
}

func (m *mockStore) Save(_ context.Context, session model.ReviewSession) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, session)
	return nil
}

func (m *mockStore) Load(_ context.Context, _ string) (*model.ReviewSession, error) {
	if m.stored == nil {
		return nil, nil
	}
	copied := *m.stored
	return &copied, nil
}

func (m *mockStore) Delete(_ context.Context, workDir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, workDir)
	return nil
}

func (m *mockStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}
