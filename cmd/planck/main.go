// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	isatty "github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/planck-zk/planck/log"
	"github.com/planck-zk/planck/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Planck",
		Usage:     "Planck rollup node",
		Copyright: "2020 The Planck developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			blockIntervalFlag,
			maxBlockTxsFlag,
			poolLimitFlag,
			sigWorkersFlag,
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx)

	configPath := ctx.String(configFlag.Name)
	if configPath == "" {
		return fmt.Errorf("--%s is required", configFlag.Name)
	}
	config, err := loadNodeConfig(configPath)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	node, err := newNode(config, dataDir, nodeOptions{
		APIAddr:       ctx.String(apiAddrFlag.Name),
		APICors:       ctx.String(apiCorsFlag.Name),
		APILogs:       ctx.Bool(enableAPILogsFlag.Name),
		MetricsAddr:   ctx.String(metricsAddrFlag.Name),
		EnableMetrics: ctx.Bool(enableMetricsFlag.Name),
		BlockInterval: ctx.Uint64(blockIntervalFlag.Name),
		MaxBlockTxs:   int(ctx.Uint64(maxBlockTxsFlag.Name)),
		PoolLimit:     int(ctx.Uint64(poolLimitFlag.Name)),
		SigWorkers:    int(ctx.Uint64(sigWorkersFlag.Name)),
	})
	if err != nil {
		return err
	}
	defer node.Close()

	return node.Run(handleExitSignal())
}

func initLogger(ctx *cli.Context) {
	lvl := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewTerminalHandler(os.Stderr, lvl, useColor))
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planck"
	}
	return filepath.Join(home, ".planck")
}

// handleExitSignal returns a context canceled on SIGINT/SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
