package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/voicelab/voicestudio/internal/catalog"
)

var (
	voicesGender string
	voicesPitch  string
	voicesQuery  string

	voiceNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AD58B4"))
	voiceMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	voiceDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginLeft(2)

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the voice persona catalog",
		Example: "voicestudio voices\nvoicestudio voices --gender female --pitch low\nvoicestudio voices --search gritty",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat := catalog.Default()

			var personas []catalog.Persona
			if voicesQuery != "" {
				personas = catalog.New(cat.Search(voicesQuery)).Filter(criteria())
			} else {
				personas = cat.Filter(criteria())
			}
			if len(personas) == 0 {
				return fmt.Errorf("no voices match")
			}

			width := 80
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = min(w, 100)
			}

			for _, p := range personas {
				fmt.Println(voiceNameStyle.Render(p.Name) + "  " + voiceMetaStyle.Render(
					fmt.Sprintf("%s · %s pitch · %s",
						p.Analysis.Gender, p.Analysis.Pitch,
						strings.Join(p.Analysis.Characteristics, ", "))))
				fmt.Println(voiceDescStyle.Render(wordwrap.String(p.Analysis.Description, width-4)))
				fmt.Println()
			}
			return nil
		},
	}
)

func criteria() catalog.Criteria {
	return catalog.Criteria{Gender: voicesGender, Pitch: voicesPitch}
}

func init() {
	voicesCmd.Flags().StringVar(&voicesGender, "gender", "", "filter by gender")
	voicesCmd.Flags().StringVar(&voicesPitch, "pitch", "", "filter by pitch (low, mid, high)")
	voicesCmd.Flags().StringVarP(&voicesQuery, "search", "s", "", "fuzzy search names and characteristics")
}
