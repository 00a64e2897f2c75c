// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// taskboard is a terminal kanban board for the task manager API.
//
// Run "taskboard login <username>" once to authenticate and save a
// session, then "taskboard" for the personal dashboard or
// "taskboard --project <id>" for a project board.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Crabbercat/PBL4-Task-manager/lib/apiclient"
	"github.com/Crabbercat/PBL4-Task-manager/lib/boardui"
	"github.com/Crabbercat/PBL4-Task-manager/lib/clock"
	"github.com/Crabbercat/PBL4-Task-manager/lib/config"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
	"github.com/Crabbercat/PBL4-Task-manager/lib/session"
	"github.com/Crabbercat/PBL4-Task-manager/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var projectID int64
	var personal bool
	var serverURL string
	var configPath string
	var logOutput string

	flagSet := pflag.NewFlagSet("taskboard", pflag.ContinueOnError)
	flagSet.Int64Var(&projectID, "project", 0, "open a project board instead of the personal dashboard")
	flagSet.BoolVar(&personal, "personal", false, "open the personal dashboard (the default)")
	flagSet.StringVar(&serverURL, "server", "", "API base URL (overrides the config file)")
	flagSet.StringVar(&configPath, "config", "", "path to the config file")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--version" {
		if len(args) > 1 && args[1] == "--full" {
			fmt.Println("taskboard " + version.Full())
		} else {
			fmt.Println("taskboard " + version.Info())
		}
		return nil
	}
	if len(args) > 0 && args[0] == "login" {
		return runLogin(args[1:])
	}
	if len(args) > 0 && args[0] == "logout" {
		return runLogout()
	}
	if len(args) > 0 && args[0] == "projects" {
		return runProjects(args[1:])
	}
	if len(args) > 0 && args[0] == "tasks" {
		return runTasks(args[1:])
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if personal && projectID != 0 {
		return fmt.Errorf("--personal and --project are mutually exclusive")
	}

	configuration, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if serverURL != "" {
		configuration.Server.BaseURL = serverURL
	}
	if logOutput != "" {
		configuration.Log.File = logOutput
	}

	stored, err := loadSession(configuration)
	if err != nil {
		return err
	}
	if stored.Server != "" && serverURL == "" {
		configuration.Server.BaseURL = stored.Server
	}

	logger, closeLog, err := openLogger(configuration)
	if err != nil {
		return err
	}
	defer closeLog()

	// The auth-expiry hook fires from a request goroutine; it posts a
	// message into the program so the shutdown happens on the UI loop.
	var program *tea.Program
	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL:    configuration.Server.BaseURL,
		Token:      stored.AccessToken,
		HTTPClient: &http.Client{Timeout: configuration.Server.Timeout},
		Logger:     logger,
		OnAuthExpired: func() {
			sessionFile(configuration).remove()
			if program != nil {
				program.Send(boardui.AuthExpiredMsg{})
			}
		},
	})
	if err != nil {
		return err
	}

	model, err := boardui.NewModel(boardui.Config{
		Backend: client,
		Session: session.New(func(ctx context.Context) (schema.User, error) {
			return client.CurrentUser(ctx)
		}),
		ProjectID:   projectID,
		DueSoonDays: configuration.Board.DueSoonDays,
		HideDone:    configuration.Board.HideDone,
		Clock:       clock.Real(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	program = tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func runLogin(args []string) error {
	var serverURL string
	var passwordFile string
	var configPath string

	flagSet := pflag.NewFlagSet("taskboard login", pflag.ContinueOnError)
	flagSet.StringVar(&serverURL, "server", "", "API base URL (overrides the config file)")
	flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
	flagSet.StringVar(&configPath, "config", "", "path to the config file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: taskboard login <username>")
	}
	username := flagSet.Arg(0)

	configuration, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if serverURL == "" {
		serverURL = configuration.Server.BaseURL
	}

	password, err := readPassword(passwordFile)
	if err != nil {
		return err
	}

	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL:    serverURL,
		HTTPClient: &http.Client{Timeout: configuration.Server.Timeout},
	})
	if err != nil {
		return err
	}
	credentials, err := client.Login(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", apiclient.UserMessage(err))
	}

	stored := &session.Stored{
		Username:    username,
		AccessToken: credentials.AccessToken,
		Server:      serverURL,
	}
	file := sessionFile(configuration)
	if err := file.save(stored); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Logged in as %s\n", username)
	fmt.Fprintf(os.Stderr, "Session saved to %s\n", file.path)
	return nil
}

func runLogout() error {
	configuration, err := loadConfig("")
	if err != nil {
		return err
	}
	file := sessionFile(configuration)
	if err := file.remove(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Session removed from %s\n", file.path)
	return nil
}

// readPassword prompts on the terminal with echo disabled, or reads
// the password from a file for scripted use.
func readPassword(passwordFile string) (string, error) {
	if passwordFile != "" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", fmt.Errorf("file %s is empty", passwordFile)
		}
		return password, nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", fmt.Errorf("no terminal available for the password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(passwordBytes), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// storedSessionFile binds the session helpers to the configured path.
type storedSessionFile struct {
	path string
}

func sessionFile(configuration *config.Config) storedSessionFile {
	if configuration.SessionFile != "" {
		return storedSessionFile{path: configuration.SessionFile}
	}
	return storedSessionFile{path: session.FilePath()}
}

func (file storedSessionFile) load() (*session.Stored, error) {
	return session.LoadFrom(file.path)
}

func (file storedSessionFile) save(stored *session.Stored) error {
	return session.SaveTo(stored, file.path)
}

func (file storedSessionFile) remove() error {
	return session.RemoveFrom(file.path)
}

func loadSession(configuration *config.Config) (*session.Stored, error) {
	return sessionFile(configuration).load()
}

// newAPIClient builds an authenticated client for the one-shot
// subcommands. Auth failures surface as plain errors; only the TUI
// installs the expiry hook.
func newAPIClient(configPath, serverURL string) (*apiclient.Client, error) {
	configuration, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		configuration.Server.BaseURL = serverURL
	}
	stored, err := loadSession(configuration)
	if err != nil {
		return nil, err
	}
	if stored.Server != "" && serverURL == "" {
		configuration.Server.BaseURL = stored.Server
	}
	return apiclient.NewClient(apiclient.Config{
		BaseURL:    configuration.Server.BaseURL,
		Token:      stored.AccessToken,
		HTTPClient: &http.Client{Timeout: configuration.Server.Timeout},
	})
}

// openLogger builds the slog logger from config. The TUI owns the
// terminal, so without a log file everything is discarded.
func openLogger(configuration *config.Config) (*slog.Logger, func(), error) {
	if configuration.Log.File == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	file, err := os.OpenFile(configuration.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: configuration.LogLevel()})
	return slog.New(handler), func() { _ = file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "taskboard — terminal kanban board")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  taskboard [flags]            open the personal dashboard")
	fmt.Fprintln(os.Stderr, "  taskboard --project <id>     open a project board")
	fmt.Fprintln(os.Stderr, "  taskboard login <username>   authenticate and save a session")
	fmt.Fprintln(os.Stderr, "  taskboard logout             remove the saved session")
	fmt.Fprintln(os.Stderr, "  taskboard projects [cmd]     list and manage projects")
	fmt.Fprintln(os.Stderr, "  taskboard tasks              print the personal dashboard")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
}
