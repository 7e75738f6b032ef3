package usecase

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"microwins/internal/modules/preference/domain"
	prefdto "microwins/internal/modules/preference/dto"
	prefin "microwins/internal/modules/preference/port/in"
	prefout "microwins/internal/modules/preference/port/out"
	"microwins/internal/modules/preference/service"
)

type Interactor struct {
	svc     *service.PreferenceService
	watcher prefout.ChangeWatcher
	userID  string
	logger  *log.Logger

	pushes sync.WaitGroup
	// pushMu serialises remote pushes; a push whose generation is no longer
	// the latest is dropped so the remote always ends on the newest edit.
	pushMu  sync.Mutex
	pushGen atomic.Uint64
	// editMu orders cache writes with their push generation.
	editMu sync.Mutex

	mu        sync.Mutex
	last      domain.Preference
	observers map[int]func(prefdto.PreferenceOutput)
	nextID    int
}

// NewInteractor accepts a nil watcher. An empty userID disables remote sync.
func NewInteractor(svc *service.PreferenceService, watcher prefout.ChangeWatcher, userID string, logger *log.Logger) prefin.Usecase {
	return &Interactor{
		svc:       svc,
		watcher:   watcher,
		userID:    userID,
		logger:    logger,
		last:      domain.Defaults(),
		observers: map[int]func(prefdto.PreferenceOutput){},
	}
}

func (i *Interactor) Load(ctx context.Context) (prefdto.PreferenceOutput, error) {
	pref, remoteErr, err := i.svc.Reconcile(ctx, i.userID)
	if err != nil {
		return prefdto.PreferenceOutput{}, err
	}
	if remoteErr != nil {
		i.logger.Warn("using cached preferences", "user", i.userID, "error", remoteErr)
	}
	i.applyFont(ctx, pref.Font)
	i.publish(pref)
	return toOutput(pref), nil
}

func (i *Interactor) Get(ctx context.Context) (prefdto.PreferenceOutput, error) {
	pref, err := i.svc.Current(ctx)
	if err != nil {
		return prefdto.PreferenceOutput{}, err
	}
	return toOutput(pref), nil
}

func (i *Interactor) Update(ctx context.Context, input prefdto.UpdateInput) (prefdto.PreferenceOutput, error) {
	patch, err := toPatch(input)
	if err != nil {
		return prefdto.PreferenceOutput{}, err
	}
	i.editMu.Lock()
	pref, err := i.svc.Update(ctx, patch)
	if err != nil {
		i.editMu.Unlock()
		return prefdto.PreferenceOutput{}, err
	}
	gen := i.pushGen.Add(1)
	i.editMu.Unlock()

	i.applyFont(ctx, pref.Font)
	i.publish(pref)

	i.pushes.Add(1)
	go func() {
		defer i.pushes.Done()
		i.push(context.WithoutCancel(ctx), gen, pref)
	}()
	return toOutput(pref), nil
}

func (i *Interactor) push(ctx context.Context, gen uint64, pref domain.Preference) {
	i.pushMu.Lock()
	defer i.pushMu.Unlock()
	if gen != i.pushGen.Load() {
		return
	}
	if err := i.svc.Push(ctx, i.userID, pref); err != nil {
		i.logger.Warn("profile push failed", "user", i.userID, "error", err)
	}
}

func (i *Interactor) Snapshot(ctx context.Context, energy string) (prefdto.PreferenceOutput, error) {
	level, err := domain.ParseEnergy(energy)
	if err != nil {
		return prefdto.PreferenceOutput{}, err
	}
	pref, err := i.svc.Current(ctx)
	if err != nil {
		return prefdto.PreferenceOutput{}, err
	}
	pref.Granularity = domain.ForEnergy(level, pref.Granularity)
	return toOutput(pref), nil
}

func (i *Interactor) Subscribe(fn func(prefdto.PreferenceOutput)) func() {
	i.mu.Lock()
	defer i.mu.Unlock()
	id := i.nextID
	i.nextID++
	i.observers[id] = fn
	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.observers, id)
	}
}

// Watch reloads the cache whenever another process rewrites it.
func (i *Interactor) Watch(ctx context.Context) error {
	if i.watcher == nil {
		return nil
	}
	return i.watcher.Watch(ctx, func() {
		pref, err := i.svc.Current(ctx)
		if err != nil {
			i.logger.Warn("reload preferences", "error", err)
			return
		}
		i.mu.Lock()
		unchanged := pref.Equal(i.last)
		i.mu.Unlock()
		if unchanged {
			return
		}
		i.logger.Debug("preferences changed on disk")
		i.applyFont(ctx, pref.Font)
		i.publish(pref)
	})
}

// Flush waits for in-flight remote pushes.
func (i *Interactor) Flush() {
	i.pushes.Wait()
}

func (i *Interactor) applyFont(ctx context.Context, font domain.Font) {
	if err := i.svc.ApplyFont(ctx, font); err != nil {
		i.logger.Warn("font not applied", "font", font, "error", err)
	}
}

func (i *Interactor) publish(pref domain.Preference) {
	i.mu.Lock()
	i.last = pref
	ids := make([]int, 0, len(i.observers))
	for id := range i.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(prefdto.PreferenceOutput), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, i.observers[id])
	}
	i.mu.Unlock()

	out := toOutput(pref)
	for _, fn := range fns {
		fn(out)
	}
}

func toPatch(input prefdto.UpdateInput) (domain.Patch, error) {
	patch := domain.Patch{
		Neurodivergence:      input.Neurodivergence,
		BreakIntervalMinutes: input.BreakIntervalMinutes,
		Tone:                 slices.Clone(input.Tone),
		Verbosity:            input.Verbosity,
		FatigueTriggers:      slices.Clone(input.FatigueTriggers),
	}
	if input.Granularity != nil {
		g, err := domain.ParseGranularity(*input.Granularity)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Granularity = &g
	}
	if input.Font != nil {
		f, err := domain.ParseFont(*input.Font)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Font = &f
	}
	if input.InputMode != nil {
		mode := domain.InputMode(*input.InputMode)
		patch.InputMode = &mode
	}
	return patch, nil
}

func toOutput(pref domain.Preference) prefdto.PreferenceOutput {
	return prefdto.PreferenceOutput{
		Granularity:          string(pref.Granularity),
		Font:                 string(pref.Font),
		FontClass:            domain.FontClass(pref.Font),
		InputMode:            string(pref.InputMode),
		Neurodivergence:      pref.Neurodivergence,
		BreakIntervalMinutes: pref.BreakIntervalMinutes,
		Tone:                 slices.Clone(pref.Tone),
		Verbosity:            pref.Verbosity,
		FatigueTriggers:      slices.Clone(pref.FatigueTriggers),
	}
}
