package main

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/julianshen/ratiocalc/internal/pricing"
)

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirmer picks how a destructive command gets its yes/no answer: --yes
// accepts, a terminal gets a prompt, anything else declines.
func confirmer(yes bool, detail string) pricing.Confirmer {
	if yes {
		return pricing.Always
	}
	if !stdinIsTerminal() {
		return pricing.Never
	}
	return pricing.ConfirmFunc(func(prompt string) bool {
		ok := false
		err := huh.NewConfirm().
			Title(prompt).
			Description(detail).
			Affirmative("Yes").
			Negative("No").
			Value(&ok).
			Run()
		return err == nil && ok
	})
}
