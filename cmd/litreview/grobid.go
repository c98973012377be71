// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/container"
	"github.com/pdiddy/litreview/internal/extract"
)

const grobidPollInterval = 2 * time.Second

var grobidCmd = &cobra.Command{
	Use:   "grobid",
	Short: "Manage the local GROBID container",
	Long: `GROBID turns PDFs into structured TEI documents and is the default
extraction backend. These commands run it as a container through docker or
podman, publishing the configured port on localhost.`,
}

var grobidStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start GROBID and wait until it answers",
	RunE:  runGrobidStart,
}

var grobidStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the GROBID container",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := container.DetectRuntime(cmd.Context())
		if err != nil {
			return err
		}
		if err := rt.Stop(cmd.Context(), container.GROBIDName); err != nil {
			return err
		}
		fmt.Println("GROBID stopped")
		return nil
	},
}

var grobidStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether GROBID is running and reachable",
	RunE:  runGrobidStatus,
}

func init() {
	grobidStartCmd.Flags().Duration("wait", 3*time.Minute, "how long to wait for the service to come up")

	grobidCmd.AddCommand(grobidStartCmd, grobidStopCmd, grobidStatusCmd)
	rootCmd.AddCommand(grobidCmd)
}

func runGrobidStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Starting %s with %s on port %d\n", cfg.GROBID.Image, rt.Name(), cfg.GROBID.Port)
	started, err := container.EnsureService(ctx, rt, container.GROBIDName, cfg.GROBID.Image, cfg.GROBID.Port)
	if err != nil {
		return err
	}
	if !started {
		fmt.Println("GROBID container already running")
	}

	wait, _ := cmd.Flags().GetDuration("wait")
	wctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	g := extract.NewGROBID(cfg.GROBID, slog.Default())
	if err := g.WaitAlive(wctx, grobidPollInterval); err != nil {
		return fmt.Errorf("GROBID did not become ready at %s: %w", cfg.GROBID.URL, err)
	}
	fmt.Printf("GROBID ready at %s\n", cfg.GROBID.URL)
	return nil
}

func runGrobidStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if rt, err := container.DetectRuntime(ctx); err == nil {
		running, err := rt.Running(ctx, container.GROBIDName)
		switch {
		case err != nil:
			fmt.Printf("container: unknown (%v)\n", err)
		case running:
			fmt.Printf("container: %s running (%s)\n", container.GROBIDName, rt.Name())
		default:
			fmt.Printf("container: %s not running (%s)\n", container.GROBIDName, rt.Name())
		}
	} else {
		fmt.Printf("container: no runtime (%v)\n", err)
	}

	if err := extract.NewGROBID(cfg.GROBID, slog.Default()).Alive(ctx); err != nil {
		fmt.Printf("service:   unreachable at %s\n", cfg.GROBID.URL)
		return err
	}
	fmt.Printf("service:   alive at %s\n", cfg.GROBID.URL)
	return nil
}
