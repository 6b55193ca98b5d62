package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration

	FilePath  string
	Objective string
	Taxonomy  string
	Mode      string
	Genre     string
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    150 * time.Second,
	}

	flag.StringVar(&cfg.FilePath, "file", "", "lesson document to turn into a game (.txt, .md, .csv)")
	flag.StringVar(&cfg.Objective, "objective", "", "learning objective for the game")
	flag.StringVar(&cfg.Taxonomy, "taxonomy", "remember", "taxonomy level: remember, understand, apply, analyze, evaluate, create")
	flag.StringVar(&cfg.Mode, "mode", "engine", "game mode: legacy or engine")
	flag.StringVar(&cfg.Genre, "genre", "", "preferred theme: space, fantasy, ocean, jungle, mystery, wild-west")
	flag.Parse()

	if cfg.FilePath == "" || cfg.Objective == "" {
		fmt.Fprintf(os.Stderr, "Usage: console -file lesson.txt -objective \"What students should learn\"\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	content, err := uploadDocument(client, cfg.APIBaseURL, cfg.FilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract document: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, content),
		tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
