// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/notecall"
	"github.com/poiesic/notecall/query"
	"github.com/poiesic/notecall/upload"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "notecall",
		Usage: "Upload documents to a note-embedding backend and ask questions about them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Backend API root (overrides NOTECALL_BASE_URL)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request HTTP timeout (overrides NOTECALL_TIMEOUT)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "upload",
				Usage:  "Register a document with the backend",
				Action: uploadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Local file to upload",
					},
					&cli.StringFlag{
						Name:  "server-path",
						Usage: "Path of a file already in the server's uploads folder",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Source title (defaults to the file's basename)",
					},
					&cli.StringSliceFlag{
						Name:  "notebook",
						Usage: "Notebook ID to link the source into (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "no-embed",
						Usage: "Register without embedding",
					},
					&cli.BoolFlag{
						Name:  "sync",
						Usage: "Process synchronously instead of queueing a job",
					},
					&cli.BoolFlag{
						Name:    "wait",
						Aliases: []string{"w"},
						Usage:   "Poll until processing reaches a terminal state",
					},
				},
			},
			{
				Name:      "batch",
				Usage:     "Upload several local files concurrently",
				ArgsUsage: "FILE [FILE...]",
				Action:    batchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent uploads (0 picks a default)",
					},
					&cli.StringSliceFlag{
						Name:  "notebook",
						Usage: "Notebook ID to link each source into (repeatable)",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Check or await a source's processing status",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source ID to check",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "wait",
						Aliases: []string{"w"},
						Usage:   "Poll until a terminal state instead of checking once",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Delay between polls",
						Value: notecall.DefaultPollInterval,
					},
					&cli.DurationFlag{
						Name:  "poll-timeout",
						Usage: "Give up after this long (0 disables)",
						Value: notecall.DefaultPollTimeout,
					},
				},
			},
			{
				Name:   "ask",
				Usage:  "Ask a question against embedded sources",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "Question to ask",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Source ID to scope the question to (repeatable)",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model override for answering",
					},
				},
			},
			{
				Name:   "notebook-ask",
				Usage:  "Ask through the notebook chat pipeline (full source content as context)",
				Action: notebookAskCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source ID to ask about",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Aliases:  []string{"m"},
						Usage:    "Message to send",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "notebook",
						Usage: "Reuse an existing notebook instead of creating one",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Reuse an existing chat session",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model override for answering",
					},
				},
			},
			{
				Name:   "models",
				Usage:  "Show the backend's default models",
				Action: modelsCommand,
			},
			{
				Name:   "run",
				Usage:  "Upload a document, wait for embedding, then ask a question",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Local file to ask about",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "Question to ask once the file is embedded",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildApp assembles an Application from the environment plus any
// command-line overrides.
func buildApp(c *cli.Context, extra ...notecall.ConfigOption) (*notecall.Application, error) {
	cfg, err := notecall.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if v := c.String("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v := c.Duration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	for _, opt := range extra {
		opt(cfg)
	}
	return notecall.NewApplication(cfg)
}

func uploadCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	var opts []upload.RequestOption
	if title := c.String("title"); title != "" {
		opts = append(opts, upload.WithTitle(title))
	}
	if notebooks := c.StringSlice("notebook"); len(notebooks) > 0 {
		opts = append(opts, upload.WithNotebooks(notebooks...))
	}
	if c.Bool("no-embed") {
		opts = append(opts, upload.WithoutEmbedding())
	}
	if c.Bool("sync") {
		opts = append(opts, upload.WithSyncProcessing())
	}

	sources, err := app.RegisterAndProcess(ctx, c.String("file"), c.String("server-path"), opts...)
	if err != nil {
		return fmt.Errorf("registering source: %w", err)
	}

	for _, src := range sources {
		fmt.Printf("%s\t%s\t%s\n", src.ID, src.Status, src.Title)
	}

	if c.Bool("wait") && len(sources) > 0 {
		report, err := app.WaitForSource(ctx, sources[0].ID)
		if err != nil {
			return fmt.Errorf("awaiting processing: %w", err)
		}
		fmt.Printf("%s\t%s\n", report.SourceID, report.Status)
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	ctx := context.Background()

	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one file path is required")
	}

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	var opts []upload.RequestOption
	if notebooks := c.StringSlice("notebook"); len(notebooks) > 0 {
		opts = append(opts, upload.WithNotebooks(notebooks...))
	}

	results, err := app.Uploader().BatchUpload(ctx, paths, c.Int("workers"), opts...)
	if err != nil {
		return fmt.Errorf("batch upload: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED\t%s\t%v\n", res.Path, res.Err)
			continue
		}
		for _, src := range res.Sources {
			fmt.Printf("%s\t%s\t%s\n", src.ID, res.Path, src.Title)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c,
		notecall.WithPollInterval(c.Duration("interval")),
		notecall.WithPollTimeout(c.Duration("poll-timeout")),
	)
	if err != nil {
		return err
	}

	sourceID := c.String("source")
	check := app.Poller().Check
	if c.Bool("wait") {
		check = app.Poller().Wait
	}

	report, err := check(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("checking status: %w", err)
	}

	fmt.Printf("%s\t%s\n", report.SourceID, report.Status)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	var opts []query.AskOption
	if model := c.String("model"); model != "" {
		opts = append(opts, query.WithModelOverride(model))
	}

	answer, err := app.AskWithSources(ctx, c.String("question"), c.StringSlice("source"), opts...)
	if err != nil {
		return fmt.Errorf("asking question: %w", err)
	}

	fmt.Println(answer.Text)
	return nil
}

func notebookAskCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	var opts []query.NotebookOption
	if id := c.String("notebook"); id != "" {
		opts = append(opts, query.WithNotebookID(id))
	}
	if id := c.String("session"); id != "" {
		opts = append(opts, query.WithSessionID(id))
	}
	if model := c.String("model"); model != "" {
		opts = append(opts, query.WithNotebookModel(model))
	}

	result, err := app.NotebookAsk(ctx, c.String("source"), c.String("message"), opts...)
	if err != nil {
		return fmt.Errorf("notebook ask: %w", err)
	}

	fmt.Fprintf(os.Stderr, "notebook: %s\nsession: %s\n", result.NotebookID, result.SessionID)
	fmt.Println(result.Answer)
	return nil
}

func modelsCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	models, err := app.Query().DefaultModels(ctx)
	if err != nil {
		return fmt.Errorf("fetching default models: %w", err)
	}

	out, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	filePath := c.String("file")
	question := c.String("question")

	fmt.Fprintf(os.Stderr, "File: %s\n", filePath)
	fmt.Fprintf(os.Stderr, "Question: %s\n", question)
	fmt.Fprintln(os.Stderr)

	start := time.Now()
	answer, err := app.Run(ctx, filePath, question)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Answered in %s\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Println(answer.Text)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
