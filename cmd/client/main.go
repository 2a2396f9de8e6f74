package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/anime-shed/food-inspector-go/pkg/client"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string        `env:"FOOD_INSPECTOR_URL,default=http://localhost:5000"`
	Timeout   time.Duration `env:"FOOD_INSPECTOR_TIMEOUT,default=60s"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "food-inspector: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	imageURL := flag.String("url", "", "analyze a remote image instead of a local file")
	flag.Parse()
	if *imageURL == "" && flag.NArg() != 1 {
		return exitConfig, fmt.Errorf("usage: food-inspector [-url URL | IMAGE_FILE]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	c := client.New(config.ServerURL)

	var (
		result interface{}
		err    error
	)
	if *imageURL != "" {
		result, err = c.AnalyzeURL(ctx, *imageURL)
	} else {
		path := flag.Arg(0)
		f, openErr := os.Open(path)
		if openErr != nil {
			return exitRuntime, openErr
		}
		defer f.Close()
		result, err = c.Analyze(ctx, filepath.Base(path), f)
	}
	if err != nil {
		return exitRuntime, err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
