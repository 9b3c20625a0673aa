package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/voicelab/voicestudio/internal/catalog"
	"github.com/voicelab/voicestudio/internal/config"
	"github.com/voicelab/voicestudio/internal/pcm"
	"github.com/voicelab/voicestudio/internal/tts"
)

var synthCmd = &cobra.Command{
	Use:     "synth [SCRIPT]",
	Short:   "Synthesize a script straight to a WAV file",
	Long:    paragraph(fmt.Sprintf("\nSynthesize a script with a cloud voice and write the result as a %s file, no playback.", keyword("WAV"))),
	Example: "voicestudio synth \"Hello there\" --voice Charon\ncat script.txt | voicestudio synth",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		voice := cfg.Voice
		if _, ok := catalog.Default().Lookup(voice); !ok {
			return fmt.Errorf("unknown voice %q: run `voicestudio voices` to list the catalog", voice)
		}

		caps := config.NewCapability(cfg)
		cloud := tts.NewCloudClient("",
			tts.WithBaseURL(cfg.Endpoint),
			tts.WithModel(cfg.SpeechModel),
			tts.WithKeyFunc(caps.Key),
		)
		dispatcher := tts.NewDispatcher(cloud, tts.NewLocalSpeaker(), caps)

		res, err := dispatcher.Dispatch(cmd.Context(), tts.Request{
			Script: script,
			Engine: tts.EngineCloud,
			Voice:  voice,
		})
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("voice-gen-%s.wav", voice))
		data := pcm.EncodeWAV(res.Buffer)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("unable to write WAV file: %w", err)
		}

		log.Debug("synthesized script",
			"voice", voice,
			"frames", res.Buffer.Frames(),
			"duration", res.Buffer.Duration())
		fmt.Printf("Wrote %s (%s, %s)\n",
			path,
			humanize.Bytes(uint64(len(data))),
			res.Buffer.Duration().Round(10*time.Millisecond))
		return nil
	},
}
