package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"clipforge/transcode"
	"clipforge/tui"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <video file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		flag.Usage()
		os.Exit(2)
	}

	duration, err := transcode.ProbeDuration(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to probe %s: %v\n", path, err)
		os.Exit(1)
	}

	m := tui.NewModel(path, duration)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
