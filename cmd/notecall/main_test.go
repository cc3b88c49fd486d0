package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testApp() *cli.App {
	return &cli.App{
		Name: "notecall",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "interval",
						Value: 2 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "poll-timeout",
						Value: 10 * time.Minute,
					},
				},
			},
			{
				Name:   "ask",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "source",
						Aliases: []string{"s"},
					},
				},
			},
			{
				Name:   "run",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Required: true,
					},
				},
			},
		},
	}
}

func TestStatusCommandFlags(t *testing.T) {
	app := testApp()

	t.Run("source is required", func(t *testing.T) {
		err := app.Run([]string{"notecall", "status"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source")
	})

	t.Run("interval has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var intervalFlag *cli.DurationFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.DurationFlag); ok && f.Name == "interval" {
				intervalFlag = f
				break
			}
		}
		require.NotNil(t, intervalFlag)
		assert.Equal(t, 2*time.Second, intervalFlag.Value)
	})
}

func TestAskCommandFlags(t *testing.T) {
	app := testApp()

	t.Run("question is required", func(t *testing.T) {
		err := app.Run([]string{"notecall", "ask", "--source", "src_1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question")
	})
}

func TestRunCommandFlags(t *testing.T) {
	app := testApp()

	t.Run("file is required", func(t *testing.T) {
		err := app.Run([]string{"notecall", "run", "--question", "what?"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("question is required", func(t *testing.T) {
		err := app.Run([]string{"notecall", "run", "--file", "/tmp/sample.pdf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question")
	})
}

func TestSetupLogger(t *testing.T) {
	app := &cli.App{
		Name: "notecall",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}

	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, app.Run([]string{"notecall", "--log-level", level}))
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := app.Run([]string{"notecall", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
