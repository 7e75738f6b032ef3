package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"microwins/internal/devserver"
	convinadapter "microwins/internal/modules/conversation/adapter/in"
	convoutadapter "microwins/internal/modules/conversation/adapter/out"
	convin "microwins/internal/modules/conversation/port/in"
	convout "microwins/internal/modules/conversation/port/out"
	convservice "microwins/internal/modules/conversation/service"
	convusecase "microwins/internal/modules/conversation/usecase"
	prefinadapter "microwins/internal/modules/preference/adapter/in"
	prefoutadapter "microwins/internal/modules/preference/adapter/out"
	prefdto "microwins/internal/modules/preference/dto"
	prefin "microwins/internal/modules/preference/port/in"
	prefservice "microwins/internal/modules/preference/service"
	prefusecase "microwins/internal/modules/preference/usecase"
	statsinadapter "microwins/internal/modules/stats/adapter/in"
	statsoutadapter "microwins/internal/modules/stats/adapter/out"
	statsin "microwins/internal/modules/stats/port/in"
	statsservice "microwins/internal/modules/stats/service"
	statsusecase "microwins/internal/modules/stats/usecase"
	taskinadapter "microwins/internal/modules/tasksession/adapter/in"
	taskoutadapter "microwins/internal/modules/tasksession/adapter/out"
	taskin "microwins/internal/modules/tasksession/port/in"
	taskservice "microwins/internal/modules/tasksession/service"
	taskusecase "microwins/internal/modules/tasksession/usecase"
	timerinadapter "microwins/internal/modules/timer/adapter/in"
	timerdto "microwins/internal/modules/timer/dto"
	timerin "microwins/internal/modules/timer/port/in"
	timerservice "microwins/internal/modules/timer/service"
	timerusecase "microwins/internal/modules/timer/usecase"
	"microwins/internal/platform/api"
	"microwins/internal/platform/clock"
	"microwins/internal/platform/config"
	"microwins/internal/platform/id"
	"microwins/internal/platform/speech"
	uiapp "microwins/internal/ui/app"
	"microwins/internal/ui/theme"
)

type App struct {
	Config config.Config
	Logger *log.Logger
	Voice  speech.Provider

	TaskCLI    taskinadapter.CLIHandler
	PrefCLI    prefinadapter.CLIHandler
	HistoryCLI convinadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler
	TimerCLI   timerinadapter.CLIHandler

	tasks        taskin.Usecase
	conversation convin.Usecase
	timers       timerin.Usecase
	prefs        prefin.Usecase
	stats        statsin.Usecase
	history      convout.HistoryStore
}

func New(cfg config.Config, logger *log.Logger) (*App, error) {
	clk := clock.SystemClock{}
	client := api.NewClient(cfg.APIURL, cfg.HTTPTimeout)

	prefSvc := prefservice.NewPreferenceService(
		prefoutadapter.NewYAMLCache(cfg.PreferencesPath),
		prefoutadapter.NewAPIRemote(client),
		prefoutadapter.FontAppliers{prefoutadapter.NewFileFontApplier(cfg.FontClassPath), theme.FontApplier{}},
	)
	prefUC := prefusecase.NewInteractor(prefSvc, prefoutadapter.NewFSWatcher(cfg.PreferencesPath), cfg.UserID, logger)

	history, err := convoutadapter.NewSQLiteHistoryStore(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("new history store: %w", err)
	}
	convUC := convusecase.NewInteractor(convservice.NewHistoryService(clk, id.UUID{}, history))

	timerUC := timerusecase.NewInteractor(timerservice.NewTimers())

	taskUC := taskusecase.NewInteractor(
		taskservice.NewSessionService(clk, taskoutadapter.NewAPIBackend(client), taskoutadapter.NewFileTaskStore(cfg.TaskPath), cfg.UserID),
		taskoutadapter.NewPreferenceBridge(prefUC),
		taskoutadapter.NewTranscriptBridge(convUC),
		taskoutadapter.NewFocusBridge(timerUC),
		logger,
	)

	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(clk, statsoutadapter.NewAPIStats(client), cfg.UserID))

	return &App{
		Config:       cfg,
		Logger:       logger,
		Voice:        speech.Resolve(cfg.SpeechCommand),
		TaskCLI:      taskinadapter.NewCLIHandler(taskUC),
		PrefCLI:      prefinadapter.NewCLIHandler(prefUC),
		HistoryCLI:   convinadapter.NewCLIHandler(convUC),
		StatsCLI:     statsinadapter.NewCLIHandler(statsUC),
		TimerCLI:     timerinadapter.NewCLIHandler(timerUC),
		tasks:        taskUC,
		conversation: convUC,
		timers:       timerUC,
		prefs:        prefUC,
		stats:        statsUC,
		history:      history,
	}, nil
}

// Close flushes pending preference writes and releases the history database.
func (a *App) Close() error {
	a.prefs.Flush()
	return a.history.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.conversation.Reset(app.tasks.HasStoredTask(ctx))

	model := uiapp.NewModel(uiapp.Deps{
		Tasks:        app.tasks,
		Conversation: app.conversation,
		Timers:       app.timers,
		Preferences:  app.prefs,
		Stats:        app.stats,
		Voice:        app.Voice,
		BreakSeconds: app.Config.BreakSeconds,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	nudger := timerinadapter.NewNudger(app.timers, func(timerdto.TimerOutput) {
		program.Send(uiapp.NudgeMsg{})
	})
	defer nudger.Stop()

	// Every published preference, including the initial load, reaches the
	// model and re-arms the nudge interval.
	unsubscribe := app.prefs.Subscribe(func(p prefdto.PreferenceOutput) {
		program.Send(uiapp.PreferencesChangedMsg{Prefs: p})
		if !app.Config.NudgeBreaks {
			return
		}
		if err := nudger.Reschedule(p.BreakIntervalMinutes); err != nil {
			app.Logger.Warn("schedule break nudges", "err", err)
		}
	})
	defer unsubscribe()

	go func() {
		if _, err := app.prefs.Load(ctx); err != nil {
			app.Logger.Warn("load preferences", "err", err)
		}
		if err := app.prefs.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Warn("watch preferences", "err", err)
		}
	}()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// RunDevServer serves the local backend on addr until ctx is cancelled.
func RunDevServer(ctx context.Context, addr, dbPath string, logger *log.Logger) error {
	store, err := devserver.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return devserver.New(store, clock.SystemClock{}, id.UUID{}, logger).Run(ctx, addr)
}
