// Package main provides the CLI entrypoint for typemaster.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/audio"
	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/melody"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/tui"
	"github.com/verte-zerg/typemaster/internal/upload"
)

const (
	defaultCurveWindow = 20
	defaultWeakTop     = 8
	defaultVolume      = 0.0
	startupSyncTimeout = 5 * time.Second
	uploadTimeout      = 2 * time.Minute
)

var (
	practiceLesson string
	practiceTopic  string
	practiceFormat string
	practiceFile   string
	practiceMute   bool
	practiceMelody string
	practiceVolume float64

	debugLogging bool
	cloudUser    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typemaster",
		Short:         "Terminal typing tutor with generated lessons",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLesson, "lesson", "", "lesson id or title to start right away (\"custom\" for generated text)")
	rootCmd.Flags().StringVar(&practiceTopic, "topic", "", "topic for generated text (implies --lesson custom)")
	rootCmd.Flags().StringVar(&practiceFormat, "format", string(model.FormatParagraph), "format for generated text")
	rootCmd.Flags().StringVar(&practiceFile, "file", "", "practice the content of a text, image or PDF file")
	rootCmd.Flags().BoolVar(&practiceMute, "mute", false, "disable sound")
	rootCmd.Flags().StringVar(&practiceMelody, "melody", "", "preset melody name, or a description to compose one")
	rootCmd.Flags().Float64Var(&practiceVolume, "volume", defaultVolume, "relative sound volume in dB")

	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "write debug logs")
	rootCmd.PersistentFlags().StringVar(&cloudUser, "user", "", "cloud history user")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newMelodyCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lesson", &practiceLesson, fileCfg.Practice.Lesson)
	applyStringConfig(cmd, "topic", &practiceTopic, fileCfg.Practice.Topic)
	applyStringConfig(cmd, "format", &practiceFormat, fileCfg.Practice.Format)
	applyBoolConfig(cmd, "mute", &practiceMute, fileCfg.Practice.Mute)
	applyStringConfig(cmd, "melody", &practiceMelody, fileCfg.Practice.Melody)
	applyFloatConfig(cmd, "volume", &practiceVolume, fileCfg.Practice.Volume)

	format, ok := content.ParseFormat(practiceFormat)
	if !ok {
		return fmt.Errorf("unknown --format %q (use one of: %s)", practiceFormat, formatNames())
	}
	cfg := model.Config{
		LessonID: strings.TrimSpace(practiceLesson),
		Topic:    strings.TrimSpace(practiceTopic),
		Format:   format,
		File:     strings.TrimSpace(practiceFile),
		Muted:    practiceMute,
		Melody:   strings.TrimSpace(practiceMelody),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx, cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.history.User() != "" {
		syncCtx, cancel := context.WithTimeout(ctx, startupSyncTimeout)
		if _, err := a.history.Sync(syncCtx); err != nil {
			a.logger.Warnw("startup history sync failed", "user", a.history.User(), "error", err)
		}
		cancel()
	}

	opts := tui.Options{Format: cfg.Format}
	if cfg.File != "" {
		lesson, err := a.uploadLesson(ctx, cfg.File)
		if err != nil {
			return err
		}
		opts.Upload = &lesson
		opts.Start = &lesson
	} else if start, ok, err := startLesson(cfg); err != nil {
		return err
	} else if ok {
		opts.Start = &start
	}

	feedback := audio.NewFeedback(audio.NewSpeaker(practiceVolume), a.logger)
	feedback.SetMuted(cfg.Muted)
	if cfg.Melody != "" {
		feedback.SetMelody(a.resolveMelody(ctx, cfg.Melody))
	}

	var remote content.TextSource
	if a.writer != nil {
		remote = a.writer
	}
	m := tui.NewModel(tui.Deps{
		Resolver: content.NewResolver(generator.New(), remote, a.logger),
		Store:    a.store,
		History:  a.history,
		Feedback: feedback,
		Logger:   a.logger,
	}, opts)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// startLesson picks the lesson to open directly, if any.
func startLesson(cfg model.Config) (model.Lesson, bool, error) {
	if cfg.Topic != "" || strings.EqualFold(cfg.LessonID, content.GeneratedLessonID) {
		return content.GeneratedLesson(cfg.Topic, cfg.Format), true, nil
	}
	if cfg.LessonID == "" {
		return model.Lesson{}, false, nil
	}
	lesson, ok := content.FindLesson(cfg.LessonID)
	if !ok {
		return model.Lesson{}, false, fmt.Errorf("unknown lesson %q (see: typemaster lessons)", cfg.LessonID)
	}
	return lesson, true, nil
}

func (a *app) uploadLesson(ctx context.Context, path string) (model.Lesson, error) {
	var tr upload.Transcriber
	if a.writer != nil {
		tr = a.writer
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	return readUpload(ctx, path, tr, a.logger)
}

// readUpload builds the lesson for --file. Files that cannot be practised
// open with the unsupported placeholder as their text; only failures to open
// or read the file are returned.
func readUpload(ctx context.Context, path string, tr upload.Transcriber, logger *zap.SugaredLogger) (model.Lesson, error) {
	name := filepath.Base(path)
	text, err := upload.Read(ctx, path, tr)
	switch {
	case errors.Is(err, upload.ErrUnsupported), errors.Is(err, upload.ErrEmpty):
		logger.Warnw("upload cannot be practised", "file", path, "error", err)
		return content.FixedLesson(name, upload.UnsupportedText), nil
	case err != nil:
		return model.Lesson{}, fmt.Errorf("failed to load --file: %w", err)
	}
	return content.FixedLesson(name, text), nil
}

// resolveMelody returns a preset by name or composes one from a description.
// Failures fall back to the default cues.
func (a *app) resolveMelody(ctx context.Context, name string) *melody.Melody {
	if mel, err := melody.FindPreset(name); err == nil {
		return mel
	}
	if a.client == nil {
		logErrf("unknown melody %q and no AI backend configured; playing default cues\n", name)
		return nil
	}
	mel, err := melody.NewExtractor(a.client, a.logger).FromDescription(ctx, name)
	if err != nil || mel == nil {
		logErrf("could not compose melody %q; playing default cues\n", name)
		return nil
	}
	return mel
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.File != "" {
		if _, err := os.Stat(cfg.File); err != nil {
			return fmt.Errorf("failed to read --file: %w", err)
		}
	}
	if practiceVolume < -20 || practiceVolume > 10 {
		return fmt.Errorf("--volume must be between -20 and 10")
	}
	return nil
}

func formatNames() string {
	formats := model.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
