// Copyright 2025 The SeqServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the sequence completion server and CLI application.

SeqServe provides prefix-based completion over two kinds of sequential data:
sanitized text (characters or words) and tokenized melodies (intervals or
pitch classes). Both run on the same generic trie engine; the engines differ
only in the normalizer bound at construction. It can operate as a
MessagePack IPC server for integration with editors and players, or as a
CLI application for testing and debugging.

# Usage

Serve completions over msgpack IPC from a text corpus and a melody corpus:

	seqserve -text data/words.txt -melodies data/melodies.csv

Run the interactive text CLI with word tokens:

	seqserve -c -mode word -sentences data/sentences.csv

Run the interactive melody CLI with pitch-class tokens:

	seqserve -c -melody -enc pitch -melodies data/melodies.csv

# Corpora

Three corpus formats are supported:

  - plain text, one entry per line (-text)
  - CSV rows of sentence,weight (-sentences)
  - CSV rows of name,pitch,duration,pitch,duration,... (-melodies);
    a blank cell ends the row's notes early

Entries are sanitized before indexing; lines reducing to nothing are
skipped. Melody rows outside the corpus pitch range are skipped with a
warning.

# Configuration

Runtime configuration is managed through a TOML file with engine policies,
server parameters, and CLI defaults:

	[engine]
	text_mode = "char"
	melody_encoding = "interval"
	cache_entries = 4096

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

The config file is automatically created with defaults if it doesn't exist.
Flags override the engine policies for one run; the token mode and melody
encoding bind at startup and stay fixed for the process lifetime, since
entries indexed under one policy are unreachable under another.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. See pkg/server
for the message catalogue. A text request and response look like:

	{"id": "req1", "p": "what a", "l": 8}
	{"id": "req1", "s": [{"v": "what a wonderful world", "r": 1}], "c": 1, "t": 120}

Melody requests send note events or raw interval tokens and get back melody
names with their full note sequences, ready to hand to a player.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/seqserve/internal/cli"
	"github.com/bastiangx/seqserve/internal/logger"
	"github.com/bastiangx/seqserve/pkg/config"
	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/server"
	"github.com/bastiangx/seqserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "seqserve"
	gh      = "https://github.com/bastiangx/seqserve"
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

// main wires config, corpora and engines together and hands off to the
// server or a REPL. It does not implement completion logic itself.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	melodyCLI := flag.Bool("melody", false, "Use the melody REPL in CLI mode")
	flag.String("mode", defaultConfig.Engine.TextMode, "Text token mode: char or word")
	flag.String("enc", defaultConfig.Engine.MelodyEncoding, "Melody encoding: interval or pitch")
	textPath := flag.String("text", "", "Plain text corpus, one entry per line")
	sentencesPath := flag.String("sentences", "", "Sentence CSV corpus (sentence,weight)")
	melodiesPath := flag.String("melodies", "", "Melody CSV corpus (name,pitch,dur,...)")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	configPath := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	// Flags the user actually passed override the configured policies for
	// this run; unset flags leave the config file's values alone.
	applyEngineFlags(flag.CommandLine, &appConfig.Engine)

	textEngine := suggest.NewTextEngineWithCache(appConfig.TextMode(), appConfig.Engine.CacheEntries)
	melodyEngine := suggest.NewMelodyEngine(appConfig.MelodyEncoding())

	loadCorpora(textEngine, melodyEngine, *textPath, *sentencesPath, *melodiesPath)

	if *cliMode {
		log.SetReportTimestamp(false)
		if *melodyCLI {
			handler := cli.NewMelodyInputHandler(melodyEngine, *limit)
			if err := handler.Start(); err != nil {
				log.Fatalf("CLI error: %v", err)
			}
			return
		}
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		handler := cli.NewTextInputHandler(textEngine, *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(textEngine, melodyEngine, appConfig)

	showStartupInfo(textEngine, melodyEngine)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// applyEngineFlags copies the engine policy flags the user explicitly set
// onto the loaded config. Visit only reports flags present on the command
// line, so config file values survive when a flag is left at its default.
func applyEngineFlags(fs *flag.FlagSet, engine *config.EngineConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			engine.TextMode = f.Value.String()
		case "enc":
			engine.MelodyEncoding = f.Value.String()
		}
	})
}

// loadCorpora indexes whichever corpus files were given. Running with no
// corpora is allowed; the engines just start empty.
func loadCorpora(textEngine *suggest.TextEngine, melodyEngine *suggest.MelodyEngine, textPath, sentencesPath, melodiesPath string) {
	if textPath != "" {
		lines, err := corpus.LoadLines(textPath)
		if err != nil {
			log.Fatalf("Failed to load text corpus: %v", err)
		}
		added, err := textEngine.Build(lines)
		if err != nil {
			log.Fatalf("Failed to index text corpus: %v", err)
		}
		log.Debugf("Indexed %d text entries", added)
	}
	if sentencesPath != "" {
		entries, err := corpus.LoadSentences(sentencesPath)
		if err != nil {
			log.Fatalf("Failed to load sentence corpus: %v", err)
		}
		added, err := textEngine.BuildSentences(entries)
		if err != nil {
			log.Fatalf("Failed to index sentence corpus: %v", err)
		}
		log.Debugf("Indexed %d sentence entries", added)
	}
	if melodiesPath != "" {
		melodies, err := corpus.LoadMelodies(melodiesPath)
		if err != nil {
			log.Fatalf("Failed to load melody corpus: %v", err)
		}
		added, err := melodyEngine.Build(melodies)
		if err != nil {
			log.Fatalf("Failed to index melody corpus: %v", err)
		}
		log.Debugf("Indexed %d melodies", added)
	}
	if textPath == "" && sentencesPath == "" && melodiesPath == "" {
		log.Warn("No corpus specified, running with empty engines...")
	}
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
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
	banner.Print("[ SeqServe ] Prefix completions for text and melodies")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(textEngine *suggest.TextEngine, melodyEngine *suggest.MelodyEngine) {
	startupLog := logger.NewWithConfig(AppName, log.InfoLevel, false, false, log.TextFormatter)

	startupLog.Infof("Version: %s", Version)
	startupLog.Infof("Process ID: [ %d ]", os.Getpid())
	startupLog.Infof("text entries: %d (%s tokens)", textEngine.Len(), textEngine.Mode())
	startupLog.Infof("melodies: %d (%s tokens)", melodyEngine.Len(), melodyEngine.Encoding())
	startupLog.Info("status: ready")
}
