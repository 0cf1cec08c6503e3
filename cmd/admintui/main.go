package main

import (
	"fmt"
	"os"

	"codeberg.org/atelier/server/client"
	"codeberg.org/atelier/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	endpoint := os.Getenv("ATELIER_API_ENDPOINT")

	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	api, err := client.New(endpoint)
	if err != nil {
		fmt.Printf("error creating api client: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(api)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running admin console: %v\n", err)
		os.Exit(1)
	}
}
