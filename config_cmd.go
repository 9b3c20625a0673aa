package main

import (
	"fmt"
	"os"
	"path"

	"github.com/charmbracelet/x/editor"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"

	"github.com/voicelab/voicestudio/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the voicestudio config file",
	Long:    paragraph(fmt.Sprintf("\n%s the voicestudio config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: "voicestudio config\nvoicestudio config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if configFile == "" {
			configFile = config.DefaultPath()
		}
		if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
			return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
		}
		if err := config.EnsureFile(configFile); err != nil {
			return err
		}

		c, err := editor.Cmd("VoiceStudio", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man page",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to generate man page: %w", err)
		}
		manPage = manPage.WithSection("Copyright", "(c) 2026 VoiceLab.\nReleased under MIT license.")
		fmt.Println(manPage.Build(roff.NewDocument()))
		return nil
	},
}
