package selector

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/notify"
)

type fakeRemote struct {
	names   []string
	loading bool
}

func (f *fakeRemote) Branches() iter.Seq[domain.RemoteBranch] {
	return func(yield func(domain.RemoteBranch) bool) {
		for _, n := range f.names {
			if !yield(domain.RemoteBranch{Name: n}) {
				return
			}
		}
	}
}

func (f *fakeRemote) IsLoading() bool { return f.loading }

type fakeLister struct {
	branches []domain.RegisteredBranch
	err      error
	refs     []string
}

func (f *fakeLister) ListBranches(ctx context.Context, projectRef string) ([]domain.RegisteredBranch, error) {
	f.refs = append(f.refs, projectRef)
	return slices.Clone(f.branches), f.err
}

type fakeUpdater struct {
	mu      sync.Mutex
	updates []domain.BranchUpdate
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeUpdater) UpdateBranch(ctx context.Context, update domain.BranchUpdate) (*domain.RegisteredBranch, error) {
	f.mu.Lock()
	f.updates = append(f.updates, update)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RegisteredBranch{
		ID:        update.ID,
		Name:      update.BranchName,
		ParentRef: update.ProjectRef,
		GitBranch: update.GitBranch,
		IsDefault: true,
	}, nil
}

func (f *fakeUpdater) calls() []domain.BranchUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.updates)
}

type fixture struct {
	selector *Selector
	remote   *fakeRemote
	lister   *fakeLister
	updater  *fakeUpdater
	notes    *notify.Recorder
}

func newFixture(t *testing.T, project *domain.Project, registered []domain.RegisteredBranch) *fixture {
	t.Helper()
	f := &fixture{
		remote:  &fakeRemote{names: []string{"main", "feature/x"}},
		lister:  &fakeLister{branches: registered},
		updater: &fakeUpdater{},
		notes:   &notify.Recorder{},
	}
	f.selector = New(project, f.remote, f.lister, f.updater, f.notes)
	require.NoError(t, f.selector.Refresh(context.Background()))
	return f
}

var (
	project    = &domain.Project{Ref: "preview-ref", ParentRef: "parent-ref"}
	mainBranch = []domain.RegisteredBranch{{ID: "1", Name: "main", ParentRef: "parent-ref", GitBranch: "main", IsDefault: true}}
)

func TestSelector_StateTransitions(t *testing.T) {
	f := newFixture(t, project, mainBranch)
	s := f.selector

	assert.Equal(t, Closed, s.State())
	s.Open()
	assert.Equal(t, Open, s.State())
	s.Open()
	assert.Equal(t, Open, s.State())
	s.Close()
	assert.Equal(t, Closed, s.State())
	s.Close()
	assert.Equal(t, Closed, s.State())
}

func TestSelector_CandidatesMarkActive(t *testing.T) {
	f := newFixture(t, project, mainBranch)

	candidates, ready := f.selector.Candidates()

	require.True(t, ready)
	assert.Equal(t, []Candidate{
		{Name: "main", Active: true},
		{Name: "feature/x", Active: false},
	}, candidates)
	assert.Equal(t, "main", f.selector.Label())
}

func TestSelector_CandidatesGatedOnLoad(t *testing.T) {
	remote := &fakeRemote{names: []string{"main"}}
	s := New(project, remote, &fakeLister{branches: mainBranch}, &fakeUpdater{}, nil)

	s.Open()
	_, ready := s.Candidates()
	assert.False(t, ready, "registered branches not loaded yet")

	require.NoError(t, s.Refresh(context.Background()))
	remote.loading = true
	_, ready = s.Candidates()
	assert.False(t, ready, "remote branches still loading")
	assert.True(t, s.IsBusy())

	remote.loading = false
	_, ready = s.Candidates()
	assert.True(t, ready)
	assert.False(t, s.IsBusy())
}

func TestSelector_SelectSuccess(t *testing.T) {
	f := newFixture(t, project, mainBranch)
	s := f.selector
	s.Open()

	confirmed, err := s.Select(context.Background(), "feature/x")

	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.Equal(t, []domain.BranchUpdate{{
		ID:         "1",
		ProjectRef: "parent-ref",
		BranchName: "feature/x",
		GitBranch:  "feature/x",
	}}, f.updater.calls())
	assert.Equal(t, Closed, s.State())
	assert.Equal(t, "feature/x", s.ProductionBranch())
	assert.Equal(t, []notify.Event{{Success: true, Message: "Changed Production Branch to feature/x"}}, f.notes.Events)

	candidates, _ := s.Candidates()
	assert.Equal(t, []Candidate{{Name: "main"}, {Name: "feature/x", Active: true}}, candidates)
}

func TestSelector_SelectFailure(t *testing.T) {
	f := newFixture(t, project, mainBranch)
	boom := errors.New("status 500")
	f.updater.err = boom
	s := f.selector
	s.Open()

	confirmed, err := s.Select(context.Background(), "feature/x")

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, confirmed)
	assert.Equal(t, Open, s.State())
	assert.Equal(t, "main", s.ProductionBranch())
	require.Len(t, f.notes.Failures(), 1)
	assert.ErrorIs(t, f.notes.Failures()[0].Err, boom)

	// The user may retry by hand.
	f.updater.err = nil
	_, err = s.Select(context.Background(), "feature/x")
	require.NoError(t, err)
	assert.Len(t, f.updater.calls(), 2)
	assert.Equal(t, "feature/x", s.ProductionBranch())
}

func TestSelector_SelectNoOps(t *testing.T) {
	tests := []struct {
		name       string
		project    *domain.Project
		registered []domain.RegisteredBranch
		open       bool
		wantState  State
	}{
		{
			name:       "no production branch registered",
			project:    project,
			registered: []domain.RegisteredBranch{{ID: "2", GitBranch: "develop"}},
			open:       true,
			wantState:  Open,
		},
		{
			name:       "project not resolved",
			project:    nil,
			registered: mainBranch,
			open:       true,
			wantState:  Open,
		},
		{
			name:       "project without parent ref",
			project:    &domain.Project{Ref: "x"},
			registered: mainBranch,
			open:       true,
			wantState:  Open,
		},
		{
			name:       "selector closed",
			project:    project,
			registered: mainBranch,
			open:       false,
			wantState:  Closed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.project, tt.registered)
			if tt.open {
				f.selector.Open()
			}

			confirmed, err := f.selector.Select(context.Background(), "feature/x")

			assert.NoError(t, err)
			assert.Nil(t, confirmed)
			assert.Empty(t, f.updater.calls())
			assert.Empty(t, f.notes.Events)
			assert.Equal(t, tt.wantState, f.selector.State())
		})
	}
}

func TestSelector_RefreshSkippedWithoutProject(t *testing.T) {
	lister := &fakeLister{branches: mainBranch}
	s := New(nil, &fakeRemote{}, lister, &fakeUpdater{}, nil)

	require.NoError(t, s.Refresh(context.Background()))

	assert.Empty(t, lister.refs)
	assert.False(t, s.Loaded())
	assert.Equal(t, NoBranchLabel, s.Label())
}

func TestSelector_RefreshFailure(t *testing.T) {
	boom := errors.New("unavailable")
	lister := &fakeLister{err: boom}
	s := New(project, &fakeRemote{names: []string{"main"}}, lister, &fakeUpdater{}, nil)

	err := s.Refresh(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.LoadErr(), boom)
	assert.True(t, s.Loaded())
	assert.Equal(t, NoBranchLabel, s.Label())
	assert.Equal(t, []string{"parent-ref"}, lister.refs)
}

func TestSelector_SingleCommitInFlight(t *testing.T) {
	f := newFixture(t, project, mainBranch)
	f.updater.release = make(chan struct{})
	f.updater.started = make(chan struct{}, 1)
	s := f.selector
	s.Open()

	done := make(chan error, 1)
	go func() {
		_, err := s.Select(context.Background(), "feature/x")
		done <- err
	}()

	select {
	case <-f.updater.started:
	case <-time.After(time.Second):
		t.Fatal("commit did not start")
	}
	assert.Equal(t, Committing, s.State())
	assert.True(t, s.IsUpdating())
	assert.True(t, s.IsBusy())

	// Second selection and close are ignored while committing.
	confirmed, err := s.Select(context.Background(), "main")
	assert.NoError(t, err)
	assert.Nil(t, confirmed)
	s.Close()
	assert.Equal(t, Committing, s.State())

	close(f.updater.release)
	require.NoError(t, <-done)

	assert.Len(t, f.updater.calls(), 1)
	assert.Equal(t, Closed, s.State())
	assert.Equal(t, "feature/x", s.ProductionBranch())
}

func TestSelector_ConfirmedRowKeepsSingleDefault(t *testing.T) {
	registered := []domain.RegisteredBranch{
		{ID: "1", GitBranch: "main", IsDefault: true},
		{ID: "2", GitBranch: "develop", IsDefault: true},
	}
	f := newFixture(t, project, registered)
	f.selector.Open()

	_, err := f.selector.Select(context.Background(), "release")
	require.NoError(t, err)

	defaults := 0
	for _, b := range f.selector.registered {
		if b.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.Equal(t, "release", f.selector.ProductionBranch())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "committing", Committing.String())
	assert.Equal(t, "State(9)", State(9).String())
}
