package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wumpus/cmd/wumpus/ui"
	"wumpus/internal/config"
	"wumpus/internal/kb"
	"wumpus/internal/sim"
	"wumpus/internal/store"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wumpus",
		Short: "A logical agent for the wumpus cave",
		Long: `wumpus runs a knowledge-based agent through the classic cave:
pits, one wumpus, one heap of gold, and an agent that only ever knows
what its percepts let it prove. The default command opens the
interactive board; use "solve" for headless batch runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger, err = buildLogger(cfg.Logging)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runTUI,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "wumpus.yaml", "path to the config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(solveCmd(), historyCmd())
	return root
}

// buildLogger follows the config but lets --verbose win.
func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(lc.Level); err != nil {
		return nil, fmt.Errorf("bad logging level %q: %w", lc.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if lc.File != "" {
		zcfg.OutputPaths = []string{lc.File}
		zcfg.ErrorOutputPaths = []string{lc.File}
	}
	return zcfg.Build()
}

func newRunner(seed int64) *sim.Runner {
	row, col := cfg.Start()
	return sim.NewRunner(sim.Options{
		Size:      cfg.World.Size,
		Start:     kb.Cell{Row: row, Col: col},
		PitChance: cfg.World.PitChance,
		Arrows:    cfg.World.Arrows,
		MaxSteps:  cfg.Agent.MaxSteps,
		Logger:    logger,
	}, seed)
}

func runTUI(cmd *cobra.Command, args []string) error {
	runner := newRunner(time.Now().UnixNano())
	interval := time.Duration(cfg.UI.AutoplayIntervalMS) * time.Millisecond

	p := tea.NewProgram(ui.NewModel(runner, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func solveCmd() *cobra.Command {
	var (
		episodes int
		seed     int64
		persist  bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run headless episodes and report outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			var db *store.EpisodeStore
			if persist {
				var err error
				db, err = store.NewEpisodeStore(cfg.Storage.DatabasePath)
				if err != nil {
					return err
				}
				defer db.Close()
			}

			runner := newRunner(seed)
			escaped := 0
			for i := 0; i < episodes; i++ {
				if i > 0 {
					runner.Reset(seed + int64(i))
				}
				res := runner.RunEpisode()
				if res.Outcome == sim.OutcomeEscaped {
					escaped++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s seed=%-12d score=%-6d steps=%d\n",
					res.Outcome, res.Seed, res.Score, res.Steps)
				if db != nil {
					if err := db.Record(res); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "escaped %d/%d\n", escaped, episodes)
			return nil
		},
	}

	cmd.Flags().IntVarP(&episodes, "episodes", "n", 1, "number of episodes to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&persist, "persist", false, "record results in the episode database")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewEpisodeStore(cfg.Storage.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := db.Recent(limit)
			if err != nil {
				return err
			}
			for _, r := range results {
				gold := "-"
				if r.GoldClaimed {
					gold = "gold"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s score=%-6d steps=%-4d %s\n",
					r.EpisodeID, r.Outcome, r.Score, r.Steps, gold)
			}

			sum, err := db.Summarize()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d episodes: %d escaped, %d died, %d stalled, mean score %.1f\n",
				sum.Episodes, sum.Escaped, sum.Died, sum.Stalled, sum.MeanScore)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of episodes to show")
	return cmd
}
