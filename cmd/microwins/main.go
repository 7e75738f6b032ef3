package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"microwins/internal/bootstrap"
	prefdto "microwins/internal/modules/preference/dto"
	taskdto "microwins/internal/modules/tasksession/dto"
	timerdto "microwins/internal/modules/timer/dto"
	"microwins/internal/platform/config"
	"microwins/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "microwins",
		Short:         "Break tasks into small steps and pace them with breaks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: user config dir)")
	root.PersistentFlags().String("api-url", "", "task breakdown API base URL")
	root.PersistentFlags().String("user", "", "user id sent to the API")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newTaskCmd(&dataDir))
	root.AddCommand(newPrefsCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newBreakCmd(&dataDir))
	root.AddCommand(newServeCmd())
	return root
}

func loadConfig(dataDir string, flags *pflag.FlagSet) (config.Config, error) {
	return config.New(dataDir, flags)
}

// withApp builds the app with a stderr logger, runs fn and releases it.
func withApp(cmd *cobra.Command, dataDir string, fn func(*bootstrap.App) error) error {
	cfg, err := loadConfig(dataDir, cmd.Flags())
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.Warn("close", "err", cerr)
		}
	}()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the microwins terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*dataDir, cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := logging.NewFile(cfg.LogPath, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer closer.Close()

			app, err := bootstrap.New(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := app.Close(); cerr != nil {
					logger.Warn("close", "err", cerr)
				}
			}()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newTaskCmd(dataDir *string) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Work through a task one step at a time"}

	var energy string
	var voice bool
	create := &cobra.Command{
		Use:   "create [description]",
		Short: "Break a task into steps and show the first one",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				description := strings.Join(args, " ")
				if voice {
					text, err := app.Voice.Transcribe(cmd.Context())
					if err != nil {
						return err
					}
					description = text
				}
				out, err := app.TaskCLI.Create(cmd.Context(), description, energy)
				if err != nil {
					return err
				}
				printStep(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	create.Flags().StringVar(&energy, "energy", "", "energy level: low|medium|high")
	create.Flags().BoolVar(&voice, "voice", false, "dictate the description with the speech command")

	step := &cobra.Command{
		Use:   "step",
		Short: "Show the current step of the stored task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Step(cmd.Context())
				if err != nil {
					return err
				}
				printStep(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	done := &cobra.Command{
		Use:   "done",
		Short: "Mark the current step done and show the next one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Done(cmd.Context())
				if err != nil {
					return err
				}
				printStep(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	abandon := &cobra.Command{
		Use:   "abandon",
		Short: "Forget the stored task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				if err := app.TaskCLI.Abandon(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "task abandoned")
				return nil
			})
		},
	}

	task.AddCommand(create, step, done, abandon)
	return task
}

func printStep(w io.Writer, out taskdto.SessionOutput) {
	if out.Completed {
		_, _ = fmt.Fprintf(w, "task %q complete (%d/%d steps)\n", out.TaskName, out.TotalSteps, out.TotalSteps)
		return
	}
	_, _ = fmt.Fprintf(w, "task=%s step=%d/%d progress=%d%%\n%s (%d min)\n",
		out.TaskID, out.StepNumber, out.TotalSteps, out.ProgressPercent, out.StepDescription, out.EstimatedMinutes)
}

func newPrefsCmd(dataDir *string) *cobra.Command {
	prefs := &cobra.Command{Use: "prefs", Short: "Show and edit preferences"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the local preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				out, err := app.PrefCLI.Show(cmd.Context())
				if err != nil {
					return err
				}
				printPrefs(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	var (
		granularity, font, inputMode, neuro string
		breakInterval, verbosity            int
		tone, fatigue                       []string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change preferences and push them to the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input prefdto.UpdateInput
			flags := cmd.Flags()
			if flags.Changed("granularity") {
				input.Granularity = &granularity
			}
			if flags.Changed("font") {
				input.Font = &font
			}
			if flags.Changed("input") {
				input.InputMode = &inputMode
			}
			if flags.Changed("neurodivergence") {
				input.Neurodivergence = &neuro
			}
			if flags.Changed("break-interval") {
				input.BreakIntervalMinutes = &breakInterval
			}
			if flags.Changed("verbosity") {
				input.Verbosity = &verbosity
			}
			if flags.Changed("tone") {
				input.Tone = tone
			}
			if flags.Changed("fatigue-triggers") {
				input.FatigueTriggers = fatigue
			}
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				out, err := app.PrefCLI.Set(cmd.Context(), input)
				if err != nil {
					return err
				}
				printPrefs(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	set.Flags().StringVar(&granularity, "granularity", "", "micro|normal|macro")
	set.Flags().StringVar(&font, "font", "", "standard|dyslexic|lexend")
	set.Flags().StringVar(&inputMode, "input", "", "text|voice")
	set.Flags().StringVar(&neuro, "neurodivergence", "", "free-form neurotype")
	set.Flags().IntVar(&breakInterval, "break-interval", 0, "minutes between break nudges")
	set.Flags().IntVar(&verbosity, "verbosity", 0, "1-5")
	set.Flags().StringSliceVar(&tone, "tone", nil, "preferred tones")
	set.Flags().StringSliceVar(&fatigue, "fatigue-triggers", nil, "fatigue triggers")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge the remote profile into the local preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				out, err := app.PrefCLI.Sync(cmd.Context())
				if err != nil {
					return err
				}
				printPrefs(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	prefs.AddCommand(show, set, syncCmd)
	return prefs
}

func printPrefs(w io.Writer, p prefdto.PreferenceOutput) {
	_, _ = fmt.Fprintf(w, "granularity: %s\nfont: %s\ninput: %s\nneurodivergence: %s\nbreak_interval: %dm\ntone: %s\nverbosity: %d\nfatigue_triggers: %s\n",
		p.Granularity, p.Font, p.InputMode, p.Neurodivergence, p.BreakIntervalMinutes,
		strings.Join(p.Tone, ","), p.Verbosity, strings.Join(p.FatigueTriggers, ","))
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Past tasks"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recently created tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				items, err := app.HistoryCLI.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for _, item := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", item.ID, item.CreatedAt.Format(time.RFC3339), item.Mode, item.Title)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "max entries")
	history.AddCommand(list)
	return history
}

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak, points and badges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				s, err := app.StatsCLI.Show(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "streak: %d (today: %t)\npoints: %d\ntasks: %d done, %d active\nsteps: %d\n%s\n",
					s.Streak, s.CompletedToday, s.RewardPoints, s.TotalTasksCompleted, s.TotalTasksActive, s.TotalStepsCompleted, s.MotivationalMessage)
				for _, b := range s.Badges {
					mark := "locked"
					if b.Earned {
						mark = "earned"
					}
					_, _ = fmt.Fprintf(w, "%s %s [%s]\n", b.Emoji, b.Name, mark)
				}
				return nil
			})
		},
	}
}

func newBreakCmd(dataDir *string) *cobra.Command {
	var seconds int
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Run a break countdown in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(app *bootstrap.App) error {
				if !cmd.Flags().Changed("seconds") {
					seconds = app.Config.BreakSeconds
				}
				w := cmd.OutOrStdout()
				out, err := app.TimerCLI.Break(cmd.Context(), seconds, func(t timerdto.TimerOutput) {
					_, _ = fmt.Fprintf(w, "\rbreak %s ", t.BreakClock)
				})
				if errors.Is(err, context.Canceled) {
					_, _ = fmt.Fprintln(w, "\nbreak cancelled")
					return nil
				}
				if err != nil {
					return err
				}
				if out.BreakExpired || out.BreakPhase == "expired" {
					_, _ = fmt.Fprintln(w, "\nBreak's over! Ready for the next step?")
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&seconds, "seconds", 0, "break length (default: break_seconds from config)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr, dbPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local task breakdown backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.New(cmd.ErrOrStderr(), "info")
			err := bootstrap.RunDevServer(cmd.Context(), addr, dbPath, logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":7071", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "microwins-dev.db", "SQLite database path")
	return cmd
}
