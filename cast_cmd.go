package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/voicelab/voicestudio/internal/catalog"
	"github.com/voicelab/voicestudio/internal/config"
)

var (
	castCount int

	castReasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginLeft(2)

	castCmd = &cobra.Command{
		Use:     "cast BRIEF",
		Short:   "Get AI casting suggestions for a use case",
		Long:    paragraph(fmt.Sprintf("\nDescribe what you need a voice for and get a %s from the catalog.", keyword("casting shortlist"))),
		Example: `voicestudio cast "calm bedtime stories for kids"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			caps := config.NewCapability(cfg)
			if !caps.HasCredential() && !caps.RequestCredential() {
				return fmt.Errorf("casting needs a cloud credential: set GEMINI_API_KEY")
			}

			cat := catalog.Default()
			rec := catalog.NewCloudRecommender(caps.Key(), cat).
				WithEndpoint(cfg.Endpoint, cfg.CastingModel)

			recs, err := rec.Recommend(cmd.Context(), strings.Join(args, " "), castCount)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("no suggestions for that brief")
			}

			for _, r := range recs {
				fmt.Println(voiceNameStyle.Render(r.Voice))
				fmt.Println(castReasonStyle.Render(r.Reason))
				fmt.Println()
			}
			return nil
		},
	}
)

func init() {
	castCmd.Flags().IntVarP(&castCount, "count", "n", 3, "number of suggestions")
}
