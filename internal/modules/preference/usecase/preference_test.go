package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prefoutadapter "microwins/internal/modules/preference/adapter/out"
	"microwins/internal/modules/preference/domain"
	prefdto "microwins/internal/modules/preference/dto"
	prefout "microwins/internal/modules/preference/port/out"
	"microwins/internal/modules/preference/service"
	"microwins/internal/modules/preference/usecase"
	apperrors "microwins/internal/platform/errors"
	"microwins/internal/platform/logging"
)

type fakeRemote struct {
	mu       sync.Mutex
	patch    domain.Patch
	exists   bool
	fetchErr error
	pushErr  error
	pushed   []domain.Preference
}

func (f *fakeRemote) Fetch(context.Context, string) (domain.Patch, bool, error) {
	return f.patch, f.exists, f.fetchErr
}

func (f *fakeRemote) Push(_ context.Context, _ string, pref domain.Preference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, pref)
	return f.pushErr
}

type fakeFont struct {
	applied []domain.Font
}

func (f *fakeFont) ApplyFont(_ context.Context, font domain.Font) error {
	f.applied = append(f.applied, font)
	return nil
}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T, remote *fakeRemote) (prefout.LocalCache, *fakeFont, *usecase.Interactor) {
	t.Helper()
	cache := prefoutadapter.NewYAMLCache(filepath.Join(t.TempDir(), "preferences.yaml"))
	font := &fakeFont{}
	var rp prefout.RemoteProfile
	if remote != nil {
		rp = remote
	}
	uc := usecase.NewInteractor(service.NewPreferenceService(cache, rp, font), nil, "u1", logging.Discard())
	return cache, font, uc.(*usecase.Interactor)
}

func TestLoadMergesRemoteOverLocalAndPersists(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{exists: true, patch: domain.Patch{Granularity: ptr(domain.GranularityMacro)}}
	cache, _, uc := setup(t, remote)
	require.NoError(t, cache.Save(context.Background(), domain.Patch{
		Granularity: ptr(domain.GranularityMicro),
		Font:        ptr(domain.FontStandard),
	}))

	out, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "macro", out.Granularity)
	assert.Equal(t, "standard", out.Font)

	stored, err := cache.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored.Granularity)
	assert.Equal(t, domain.GranularityMacro, *stored.Granularity)
}

func TestLoadKeepsLocalWhenRemoteFails(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}
	cache, font, uc := setup(t, remote)
	require.NoError(t, cache.Save(context.Background(), domain.Patch{Font: ptr(domain.FontDyslexic)}))

	out, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dyslexic", out.Font)
	assert.Equal(t, "dyslexic-font", out.FontClass)
	assert.Equal(t, []domain.Font{domain.FontDyslexic}, font.applied)
}

func TestLoadIgnoresMissingRemoteProfile(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{exists: false, patch: domain.Patch{Granularity: ptr(domain.GranularityMacro)}}
	_, _, uc := setup(t, remote)

	out, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "normal", out.Granularity)
}

func TestUpdateAppliesFontNotifiesAndPushes(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{}
	_, font, uc := setup(t, remote)

	var seen []prefdto.PreferenceOutput
	cancel := uc.Subscribe(func(out prefdto.PreferenceOutput) { seen = append(seen, out) })
	defer cancel()

	out, err := uc.Update(context.Background(), prefdto.UpdateInput{Font: ptr("lexend"), Verbosity: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "lexend-font", out.FontClass)
	assert.Equal(t, []domain.Font{domain.FontLexend}, font.applied)
	require.Len(t, seen, 1)
	assert.Equal(t, 4, seen[0].Verbosity)

	uc.Flush()
	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.Len(t, remote.pushed, 1)
	assert.Equal(t, domain.FontLexend, remote.pushed[0].Font)
}

func TestUpdateSucceedsWhenPushFails(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{pushErr: errors.New("HTTP error 500")}
	_, _, uc := setup(t, remote)

	out, err := uc.Update(context.Background(), prefdto.UpdateInput{Granularity: ptr("micro")})
	uc.Flush()
	require.NoError(t, err)
	assert.Equal(t, "micro", out.Granularity)

	got, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "micro", got.Granularity)
}

func TestUpdateRejectsInvalidInputWithoutSaving(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{}
	cache, font, uc := setup(t, remote)

	_, err := uc.Update(context.Background(), prefdto.UpdateInput{Verbosity: ptr(9)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	uc.Flush()

	stored, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored.Verbosity)
	assert.Empty(t, font.applied)
	assert.Empty(t, remote.pushed)
}

func TestSnapshotMapsEnergy(t *testing.T) {
	t.Parallel()
	_, _, uc := setup(t, nil)

	low, err := uc.Snapshot(context.Background(), "low")
	require.NoError(t, err)
	assert.Equal(t, "micro", low.Granularity)

	high, err := uc.Snapshot(context.Background(), "high")
	require.NoError(t, err)
	assert.Equal(t, "macro", high.Granularity)

	medium, err := uc.Snapshot(context.Background(), "medium")
	require.NoError(t, err)
	assert.Equal(t, "normal", medium.Granularity)

	_, err = uc.Snapshot(context.Background(), "sleepy")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	t.Parallel()
	_, _, uc := setup(t, nil)
	calls := 0
	cancel := uc.Subscribe(func(prefdto.PreferenceOutput) { calls++ })
	cancel()

	_, err := uc.Update(context.Background(), prefdto.UpdateInput{Tone: []string{"upbeat"}})
	require.NoError(t, err)
	uc.Flush()
	assert.Zero(t, calls)
}

// slowRemote stalls the first push until release is closed so a later
// edit can race past it.
type slowRemote struct {
	fakeRemote
	first   sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *slowRemote) Push(ctx context.Context, user string, pref domain.Preference) error {
	s.first.Do(func() {
		close(s.entered)
		<-s.release
	})
	return s.fakeRemote.Push(ctx, user, pref)
}

func TestLatestEditWinsOnRemote(t *testing.T) {
	t.Parallel()
	remote := &slowRemote{entered: make(chan struct{}), release: make(chan struct{})}
	cache := prefoutadapter.NewYAMLCache(filepath.Join(t.TempDir(), "preferences.yaml"))
	uc := usecase.NewInteractor(service.NewPreferenceService(cache, remote, &fakeFont{}), nil, "u1", logging.Discard())

	_, err := uc.Update(context.Background(), prefdto.UpdateInput{Granularity: ptr("micro")})
	require.NoError(t, err)
	<-remote.entered
	_, err = uc.Update(context.Background(), prefdto.UpdateInput{Granularity: ptr("macro")})
	require.NoError(t, err)
	time.AfterFunc(100*time.Millisecond, func() { close(remote.release) })
	uc.Flush()

	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.NotEmpty(t, remote.pushed)
	assert.Equal(t, domain.GranularityMacro, remote.pushed[len(remote.pushed)-1].Granularity)
}

func TestUpdateRejectsEmptyTone(t *testing.T) {
	t.Parallel()
	_, _, uc := setup(t, nil)
	_, err := uc.Update(context.Background(), prefdto.UpdateInput{Tone: []string{"upbeat"}})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), prefdto.UpdateInput{Tone: []string{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	out, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"upbeat"}, out.Tone)
	uc.Flush()
}
