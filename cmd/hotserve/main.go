// Copyright 2025 The HotServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the sentence autocomplete server and CLI [DBG] application.

HotServe suggests the three most frequent sentences starting with what has been
typed so far, one keystroke at a time, and learns every sentence terminated
with '#'. Sentences use lowercase letters and spaces only.

# Usage

Start the IPC server with a seed corpus:

	hotserve -corpus history.txt

Run in CLI mode for interactive testing:

	hotserve -c -corpus history.txt -d

# Corpus

Text corpora hold one "<weight>\t<sentence>" pair per line. TOML corpora hold
[[entry]] tables with "sentence" and "weight" keys. Learned sentences live in
memory only and are gone when the process exits.

# Configuration

Runtime configuration is read from a TOML file:

	[engine]
	max_suggestions = 3
	max_sentence_length = 200
	enforce_max_length = true
	ranking = "bucket"
	cache_size = 1024

	[corpus]
	path = ""

The file is created with defaults under the user config dir if it doesn't exist.

# Command Line Flags

	-config string
	    Path to a config file
	-corpus string
	    Seed corpus file (overrides [corpus] path)
	-ranking string
	    Ranking strategy: bucket or bounded
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/hotserve/internal/cli"
	"github.com/bastiangx/hotserve/internal/logger"
	"github.com/bastiangx/hotserve/pkg/config"
	"github.com/bastiangx/hotserve/pkg/corpus"
	"github.com/bastiangx/hotserve/pkg/server"
	"github.com/bastiangx/hotserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "hotserve"
	gh      = "https://github.com/bastiangx/hotserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, corpus and session, then hands over to the server or CLI.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file")
	corpusPath := flag.String("corpus", "", "Seed corpus file (.txt or .toml)")
	ranking := flag.String("ranking", "", "Ranking strategy: bucket or bounded")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetDefault(logger.NewWithConfig("", log.DebugLevel, true, true, log.TextFormatter))
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if *corpusPath != "" {
		appConfig.Corpus.Path = *corpusPath
	}
	if *ranking != "" {
		appConfig.Engine.Ranking = *ranking
	}

	seed := &corpus.Corpus{}
	if appConfig.Corpus.Path != "" {
		seed, err = corpus.Load(appConfig.Corpus.Path)
		if err != nil {
			log.Fatalf("Failed to load corpus: %v", err)
		}
	} else {
		log.Warn("No corpus specified, starting with an empty trie...")
	}

	session, err := suggest.NewWithOptions(seed.Sentences, seed.Weights, appConfig.SessionOptions())
	if err != nil {
		log.Fatalf("Failed to init session: %v", err)
	}
	log.Debug("Session init done", "sentences", session.Stats()["sentences"])

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(session, appConfig.CLI.ShowFrequency)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(session, appConfig)
	showStartupInfo(appConfig.Corpus.Path, session.Stats()["sentences"])
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ HotServe ] Hot sentences, one keystroke at a time")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(corpusPath string, sentences int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	if corpusPath != "" {
		log.Infof("corpus: ( %s ), %d sentences", corpusPath, sentences)
	}
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
