package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/BackendStack21/knapsack-go/core"
	"github.com/BackendStack21/knapsack-go/utils"
)

// Environment variables read at startup. Flags override them.
const (
	EnvFile      = "KNAPSACK_ENV_FILE"
	EnvKeyLength = "KNAPSACK_KEY_LENGTH"
	EnvFormat    = "KNAPSACK_FORMAT"
	EnvXOF       = "KNAPSACK_XOF"
	EnvMode      = "KNAPSACK_MODE"
)

// OutputFormat represents the output format for ciphertexts
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatText OutputFormat = "text"
)

// SymbolMode selects how plaintext maps to symbol codes.
type SymbolMode string

const (
	ModeBytes SymbolMode = "bytes"
	ModeRunes SymbolMode = "runes"
)

// CLIConfig holds CLI configuration
type CLIConfig struct {
	KeyLength    int
	OutputFormat OutputFormat
	Mode         SymbolMode
	XOF          string
	OutputFile   string
	InputFile    string
	Verbose      bool
	Timing       bool
}

// defaultConfig returns built-in defaults overlaid with the environment.
// A .env file (or the file named by KNAPSACK_ENV_FILE) is loaded first;
// variables already set in the process environment win over the file.
func defaultConfig() (CLIConfig, error) {
	config := CLIConfig{
		KeyLength:    core.KS8Params.N,
		OutputFormat: FormatJSON,
		Mode:         ModeBytes,
		XOF:          "shake256",
	}

	envFile := os.Getenv(EnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("loading %s: %w", envFile, err)
	}

	if v := os.Getenv(EnvKeyLength); v != "" {
		n, err := parseKeyLength(v)
		if err != nil {
			return config, fmt.Errorf("%s: %w", EnvKeyLength, err)
		}
		config.KeyLength = n
	}
	if v := os.Getenv(EnvFormat); v != "" {
		format, err := parseFormat(v)
		if err != nil {
			return config, fmt.Errorf("%s: %w", EnvFormat, err)
		}
		config.OutputFormat = format
	}
	if v := os.Getenv(EnvMode); v != "" {
		mode, err := parseMode(v)
		if err != nil {
			return config, fmt.Errorf("%s: %w", EnvMode, err)
		}
		config.Mode = mode
	}
	if v := os.Getenv(EnvXOF); v != "" {
		if _, err := utils.ParseXOF(v); err != nil {
			return config, fmt.Errorf("%s: %w", EnvXOF, err)
		}
		config.XOF = v
	}
	return config, nil
}

func parseConfig(args []string) CLIConfig {
	config, err := defaultConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if length := getArg(args, "--length", "-l"); length != "" {
		n, err := parseKeyLength(length)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid key length '%s': %v\n", length, err)
			os.Exit(1)
		}
		config.KeyLength = n
	}

	if format := getArg(args, "--format", "-f"); format != "" {
		f, err := parseFormat(format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.OutputFormat = f
	}

	if mode := getArg(args, "--mode", "-md"); mode != "" {
		m, err := parseMode(mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.Mode = m
	}

	if name := getArg(args, "--xof", "-x"); name != "" {
		if _, err := utils.ParseXOF(name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.XOF = name
	}

	config.OutputFile = getArg(args, "--output", "-o")
	config.InputFile = getArg(args, "--input", "-i")
	config.Verbose = hasFlag(args, "--verbose", "-v")
	config.Timing = hasFlag(args, "--timing", "-t")

	return config
}

func parseKeyLength(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if err := core.ValidateParams(core.ParamsForLength(n)); err != nil {
		return 0, err
	}
	return n, nil
}

func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatJSON, FormatText:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("invalid format '%s'. Must be one of: json, text", s)
}

func parseMode(s string) (SymbolMode, error) {
	switch SymbolMode(s) {
	case ModeBytes, ModeRunes:
		return SymbolMode(s), nil
	}
	return "", fmt.Errorf("invalid mode '%s'. Must be one of: bytes, runes", s)
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || args[i] == short {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || arg == short {
			return true
		}
	}
	return false
}
