// Package main provides the entry point for the voicestudio CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/voicelab/voicestudio/internal/audio"
	"github.com/voicelab/voicestudio/internal/catalog"
	"github.com/voicelab/voicestudio/internal/config"
	"github.com/voicelab/voicestudio/internal/session"
	"github.com/voicelab/voicestudio/internal/tts"
	"github.com/voicelab/voicestudio/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineFlag string
	voiceFlag  string
	outputDir  string

	rootCmd = &cobra.Command{
		Use:   "voicestudio [SCRIPT]",
		Short: "Cast, audition, and synthesize AI voices on the CLI",
		Long: paragraph(
			fmt.Sprintf("\nBrowse a catalog of synthetic voice personas and hear any script %s, right from your terminal.", keyword("read aloud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		RunE:             execute,
	}

	speakCmd = &cobra.Command{
		Use:     "speak [SCRIPT]",
		Short:   "Start an interactive speak session",
		Example: "voicestudio speak \"Hello there\"\nvoicestudio speak script.txt",
		Args:    cobra.MaximumNArgs(1),
		RunE:    execute,
	}
)

// scriptFromArg resolves the script text: "-" or a pipe reads stdin, an
// existing file path reads the file, anything else is the script itself.
func scriptFromArg(arg string) (string, error) {
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		return string(b), nil
	}

	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		b, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("unable to open file: %w", err)
		}
		return string(b), nil
	}

	return arg, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// resolveScript picks the script from args or a piped stdin.
func resolveScript(args []string) (string, error) {
	if len(args) == 1 {
		return scriptFromArg(args[0])
	}
	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes {
		return scriptFromArg("-")
	}
	return "", nil
}

// loadConfig layers the config file, environment, and flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if engineFlag != "" {
		cfg.Engine = engineFlag
	}
	if voiceFlag != "" {
		cfg.Voice = voiceFlag
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return cfg, cfg.Validate()
}

// buildController assembles the session controller from cfg.
func buildController(cfg config.Config) (*session.Controller, *config.Capability) {
	caps := config.NewCapability(cfg)
	cloud := tts.NewCloudClient("",
		tts.WithBaseURL(cfg.Endpoint),
		tts.WithModel(cfg.SpeechModel),
		tts.WithKeyFunc(caps.Key),
	)
	dispatcher := tts.NewDispatcher(cloud, tts.NewLocalSpeaker(), caps)
	player := audio.NewEngine(audio.NewOtoContext)
	ctrl := session.NewController(dispatcher, player, tts.EngineType(cfg.Engine), cfg.Voice)
	return ctrl, caps
}

func execute(_ *cobra.Command, args []string) error {
	script, err := resolveScript(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("missing script: pass text, a file path, or pipe to stdin")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat := catalog.Default()
	if cfg.Engine == string(tts.EngineCloud) {
		if _, ok := cat.Lookup(cfg.Voice); !ok {
			return fmt.Errorf("unknown voice %q: run `voicestudio voices` to list the catalog", cfg.Voice)
		}
	}

	ctrl, _ := buildController(cfg)

	log.Debug("starting speak session", "engine", cfg.Engine, "voice", cfg.Voice)
	p := ui.NewProgram(ctrl, ui.Config{
		Script:    script,
		Catalog:   cat,
		OutputDir: cfg.OutputDir,
	})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run speak session: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default voicestudio.yml in the user config directory)")
	rootCmd.PersistentFlags().StringVarP(&engineFlag, "engine", "e", "", "synthesis engine: cloud or local")
	rootCmd.PersistentFlags().StringVarP(&voiceFlag, "voice", "V", "", "voice to speak with (persona name or platform voice)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "directory for downloaded WAV files")

	rootCmd.AddCommand(speakCmd, voicesCmd, castCmd, synthCmd, configCmd, manCmd)
}
