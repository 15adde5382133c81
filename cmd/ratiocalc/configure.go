package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/julianshen/ratiocalc/internal/config"
	"github.com/julianshen/ratiocalc/internal/tui"
)

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Edit storage and logging settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !stdinIsTerminal() {
				return fmt.Errorf("configure needs an interactive terminal")
			}

			path, err := resolveConfigPath()
			if err != nil {
				return err
			}
			// Environment overrides are for this run only and must not
			// end up in the file.
			cfg, err := config.LoadFile(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			form := tui.NewConfigForm(cfg, path)
			if err := form.Form().Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return err
			}
			if form.IsAborted() {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes saved")
				return nil
			}
			if err := form.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			return nil
		},
	}
}
