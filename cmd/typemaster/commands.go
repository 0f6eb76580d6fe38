package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/melody"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/statsui"
	"github.com/verte-zerg/typemaster/internal/store"
	"github.com/verte-zerg/typemaster/internal/upload"
)

const historyTimeout = 30 * time.Second

var (
	statsLesson      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakTop     int
	statsPlain       bool

	melodyDescribe string
	melodyAudio    string
)

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List available lessons and formats",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDESCRIPTION")
	for _, lesson := range content.Catalogue() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", lesson.ID, lesson.Title, lesson.Description)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", content.GeneratedLessonID, "AI Generator", "Generated text, see --topic and --format")
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "\nFormats: %s\n", formatNames()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLesson, "lesson", "", "lesson id filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "top", defaultWeakTop, "number of weak keys to show")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	if statsLast < 0 || statsWeakTop < 0 {
		return fmt.Errorf("--last and --top must be >= 0")
	}
	cfg := model.StatsConfig{
		Lesson:      statsLesson,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		WeakTop:     statsWeakTop,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), cfg, 0)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recent generation topics",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recent topics",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a topic",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the local list",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Merge the local list with the cloud list of --user",
		Args:  cobra.NoArgs,
		RunE:  runHistorySyncCmd,
	})
	return cmd
}

func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	a, err := openApp(ctx, cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		entries, err := a.history.List(ctx)
		if err != nil {
			return err
		}
		return printHistory(cmd, entries)
	})
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		entries, err := a.history.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		return printHistory(cmd, entries)
	})
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.history.Clear(ctx); err != nil {
			return err
		}
		logErrln("History cleared.")
		return nil
	})
}

func runHistorySyncCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		entries, err := a.history.Sync(ctx)
		if err != nil {
			return fmt.Errorf("failed to sync history: %w", err)
		}
		logErrf("Synced history for %s.\n", a.history.User())
		return printHistory(cmd, entries)
	})
}

func printHistory(cmd *cobra.Command, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tFORMAT\tTOPIC")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Format, e.Topic)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newMelodyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "melody",
		Short: "List or compose melodies for keystroke sounds",
		Args:  cobra.NoArgs,
		RunE:  runMelodyListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List preset melodies",
		Args:  cobra.NoArgs,
		RunE:  runMelodyListCmd,
	})
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Compose a melody from a description or an audio file",
		Args:  cobra.NoArgs,
		RunE:  runMelodyGenerateCmd,
	}
	generate.Flags().StringVar(&melodyDescribe, "describe", "", "describe the tune, e.g. \"happy birthday\"")
	generate.Flags().StringVar(&melodyAudio, "audio", "", "hum or play the tune into an audio file")
	cmd.AddCommand(generate)
	return cmd
}

func runMelodyListCmd(cmd *cobra.Command, _ []string) error {
	presets, err := melody.Presets()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tNOTES")
	for _, p := range presets {
		fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name, p.Title, len(p.Notes))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runMelodyGenerateCmd(cmd *cobra.Command, _ []string) error {
	if (melodyDescribe == "") == (melodyAudio == "") {
		return fmt.Errorf("use exactly one of --describe or --audio")
	}
	var audioData []byte
	var mimeType string
	if melodyAudio != "" {
		data, err := os.ReadFile(melodyAudio)
		if err != nil {
			return fmt.Errorf("failed to read --audio: %w", err)
		}
		audioData = data
		mimeType = upload.DetectMIME(melodyAudio, data)
		if !strings.HasPrefix(mimeType, "audio/") {
			return fmt.Errorf("--audio must be an audio file, got %s", mimeType)
		}
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if a.client == nil {
			return fmt.Errorf("melody generation needs OPENAI_API_KEY")
		}
		extractor := melody.NewExtractor(a.client, a.logger)
		var (
			mel *melody.Melody
			err error
		)
		if audioData != nil {
			mel, err = extractor.FromAudio(ctx, audioData, mimeType)
		} else {
			mel, err = extractor.FromDescription(ctx, melodyDescribe)
		}
		if err != nil {
			return fmt.Errorf("failed to compose melody: %w", err)
		}
		if mel == nil {
			return fmt.Errorf("no melody could be extracted")
		}
		return writeMelody(cmd, mel)
	})
}

// writeMelody prints mel in the presets file format.
func writeMelody(cmd *cobra.Command, mel *melody.Melody) error {
	names := make([]string, len(mel.Notes))
	for i, n := range mel.Notes {
		names[i] = n.Name
	}
	preset := melody.Preset{
		Name:  slug(mel.Title),
		Title: mel.Title,
		Notes: names,
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode([]melody.Preset{preset}); err != nil {
		return fmt.Errorf("failed to write melody: %w", err)
	}
	return enc.Close()
}

func slug(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	if len(fields) == 0 {
		return "melody"
	}
	return strings.Join(fields, "-")
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}
