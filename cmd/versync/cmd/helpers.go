package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/bianoble/versync/internal/engine"
	"github.com/bianoble/versync/internal/logging"
	"github.com/bianoble/versync/internal/prompt"
	"github.com/bianoble/versync/pkg/versync"
)

// newClient opens the project described by the global flags.
func newClient() (*versync.Client, error) {
	return versync.New(versync.Options{
		ConfigPath:    configPath,
		LockfilePath:  lockfilePath,
		StoreDir:      storeDir,
		NoInherit:     noInherit,
		Logger:        logging.New(verbose, quiet),
		Prompter:      prompt.New(),
		InstallOutput: os.Stdout,
	})
}

var (
	styleGood    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleBad     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeading = lipgloss.NewStyle().Bold(true)
)

// paint renders s with style unless color is disabled.
func paint(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

func stateStyle(s engine.ComponentState) lipgloss.Style {
	switch s {
	case engine.StateClean:
		return styleGood
	case engine.StateModified:
		return styleWarn
	case engine.StateMissing:
		return styleBad
	}
	return styleMuted
}

func fileStatusStyle(s engine.FileStatus) lipgloss.Style {
	switch s {
	case engine.FileMerged, engine.FileAdded:
		return styleGood
	case engine.FileManual:
		return styleBad
	case engine.FileOverridden:
		return styleWarn
	case engine.FileUnchanged:
		return styleMuted
	}
	return lipgloss.NewStyle()
}

func humanSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
