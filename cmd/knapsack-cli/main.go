// Package main provides the knapsack-cli command line interface for knapsack operations.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	knapsack "github.com/BackendStack21/knapsack-go"
	"github.com/BackendStack21/knapsack-go/classical"
	"github.com/BackendStack21/knapsack-go/core"
	"github.com/BackendStack21/knapsack-go/mhkc"
	"github.com/BackendStack21/knapsack-go/utils"
)

const (
	version = "1.0.0"
	appName = "knapsack-cli"

	// MaxInputFileSize bounds every file the CLI reads.
	MaxInputFileSize = 100 * 1024 * 1024
)

// KeyPairExport represents an exported MHKC key file.
// PrivateKey is omitted by "mhkc pubkey".
type KeyPairExport struct {
	KeyLength   int                  `json:"key_length"`
	PublicKey   knapsack.PublicKey   `json:"public_key"`
	PrivateKey  *knapsack.PrivateKey `json:"private_key,omitempty"`
	Fingerprint string               `json:"fingerprint"`
	CreatedAt   string               `json:"created_at"`
}

// CiphertextExport represents an exported ciphertext.
type CiphertextExport struct {
	Fingerprint string              `json:"fingerprint,omitempty"`
	Mode        SymbolMode          `json:"mode"`
	Ciphertext  knapsack.Ciphertext `json:"ciphertext"`
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, version)
		fmt.Printf("knapsack library version %s\n", knapsack.Version)
	case "mhkc":
		handleMHKC(os.Args[2:])
	case "caesar":
		handleCaesar(os.Args[2:])
	case "vigenere":
		handleVigenere(os.Args[2:])
	case "benchmark":
		handleBenchmark(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Merkle-Hellman knapsack and classical cipher CLI

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    mhkc        Merkle-Hellman knapsack operations
    caesar      Caesar cipher
    vigenere    Vigenère cipher
    benchmark   Run performance benchmarks
    version     Show version information
    help        Show this help message

Use "%s <COMMAND> --help" for more information about a command.

ENVIRONMENT:
    KNAPSACK_ENV_FILE     File to load variables from (default: .env)
    KNAPSACK_KEY_LENGTH   Default key length (default: 8)
    KNAPSACK_FORMAT       Default ciphertext format: json or text
    KNAPSACK_MODE         Default symbol mode: bytes or runes
    KNAPSACK_XOF          Default XOF for seeded key generation

EXAMPLES:
    %s mhkc keygen --length 8 --output key.json
    %s mhkc encrypt --key key.json --message "HELLO" --output ct.json
    %s mhkc decrypt --key key.json --ciphertext ct.json
    %s caesar encrypt --offset 3 --message "PYTHON"
    %s vigenere encrypt --keyword LEMON --message "ATTACKATDAWN"
    %s benchmark --length 16 --iterations 10
`, appName, appName, appName, appName, appName, appName, appName, appName, appName)
}

// ============================================================================
// MHKC Commands
// ============================================================================

func handleMHKC(args []string) {
	if len(args) < 1 {
		printMHKCUsage()
		os.Exit(1)
	}

	subcommand := args[0]
	switch subcommand {
	case "keygen":
		mhkcKeygen(args[1:])
	case "pubkey":
		mhkcPubkey(args[1:])
	case "encrypt", "enc":
		mhkcEncrypt(args[1:])
	case "decrypt", "dec":
		mhkcDecrypt(args[1:])
	case "help", "--help", "-h":
		printMHKCUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown mhkc subcommand: %s\n", subcommand)
		printMHKCUsage()
		os.Exit(1)
	}
}

func printMHKCUsage() {
	fmt.Printf(`%s mhkc - Merkle-Hellman knapsack operations

USAGE:
    %s mhkc <SUBCOMMAND> [OPTIONS]

SUBCOMMANDS:
    keygen      Generate a new key pair
    pubkey      Extract the public key from a key file
    encrypt     Encrypt a message with a public key
    decrypt     Decrypt a ciphertext with a private key
    help        Show this help message

OPTIONS:
    --length <n>            Key length in weights (default: 8)
    --seed <hex>            64+ hex chars for deterministic key generation
    --xof <name>            shake128, shake256, blake2xb or blake2xs (default: shake256)
    --key <file>            Key file
    --message <text>        Message to encrypt (default: --input or stdin)
    --ciphertext <file>     Ciphertext file
    --mode <bytes|runes>    Symbol mode (default: bytes)
    --format <json|text>    Ciphertext format (default: json)
    --output <file>         Output file (default: stdout)
    --timing                Show timing information
    --verbose               Verbose output
`, appName, appName)
}

func mhkcKeygen(args []string) {
	config := parseConfig(args)
	seedHex := getArg(args, "--seed", "-s")
	params := core.ParamsForLength(config.KeyLength)

	start := time.Now()
	var kp *knapsack.KeyPair
	var err error
	if seedHex != "" {
		kp, err = keyPairFromSeed(params, seedHex, config.XOF)
	} else {
		kp, err = mhkc.GenerateKeyPairFrom(utils.RandReader, params)
	}
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key pair: %v\n", err)
		os.Exit(1)
	}

	if config.Timing {
		fmt.Fprintf(os.Stderr, "Key generation took: %v\n", elapsed)
	}

	export := KeyPairExport{
		KeyLength:   params.N,
		PublicKey:   kp.PublicKey,
		PrivateKey:  &kp.PrivateKey,
		Fingerprint: hex.EncodeToString(mhkc.Fingerprint(&kp.PublicKey)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
		os.Exit(1)
	}

	writeOutput(output, config.OutputFile)

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Generated key pair with %d weights\n", params.N)
		fmt.Fprintf(os.Stderr, "Modulus size: %d bits\n", kp.PrivateKey.Q.BitLen())
		fmt.Fprintf(os.Stderr, "Fingerprint: %s\n", export.Fingerprint)
	}
}

func keyPairFromSeed(params knapsack.Params, seedHex, xofName string) (*knapsack.KeyPair, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid seed hex: %w", err)
	}
	defer utils.Zeroize(seed)

	id, err := utils.ParseXOF(xofName)
	if err != nil {
		return nil, err
	}
	r, err := utils.NewXOFReader(id, seed)
	if err != nil {
		return nil, err
	}
	return mhkc.GenerateKeyPairFrom(r, params)
}

func mhkcPubkey(args []string) {
	config := parseConfig(args)
	keyFile := requireArg(args, "--key", "-k")

	export, err := loadKeyFile(keyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading key: %v\n", err)
		os.Exit(1)
	}

	export.PrivateKey = nil
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
		os.Exit(1)
	}
	writeOutput(output, config.OutputFile)
}

func mhkcEncrypt(args []string) {
	config := parseConfig(args)
	keyFile := requireArg(args, "--key", "-k")
	message := getArg(args, "--message", "-m")

	// Get message from argument, file or stdin
	var msgBytes []byte
	if message != "" {
		msgBytes = []byte(message)
	} else if config.InputFile != "" {
		var err error
		msgBytes, err = readLimitedFile(config.InputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		var err error
		msgBytes, err = readStdin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
	}

	export, err := loadKeyFile(keyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading public key: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	var ct knapsack.Ciphertext
	switch config.Mode {
	case ModeRunes:
		ct, err = mhkc.EncryptString(&export.PublicKey, string(msgBytes))
	default:
		ct, err = mhkc.Encrypt(&export.PublicKey, msgBytes)
	}
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encrypting: %v\n", err)
		os.Exit(1)
	}

	if config.Timing {
		fmt.Fprintf(os.Stderr, "Encryption took: %v\n", elapsed)
	}

	var output []byte
	switch config.OutputFormat {
	case FormatText:
		output = []byte(formatCiphertextText(ct))
	default:
		output, err = json.MarshalIndent(CiphertextExport{
			Fingerprint: export.Fingerprint,
			Mode:        config.Mode,
			Ciphertext:  ct,
		}, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
			os.Exit(1)
		}
	}

	writeOutput(output, config.OutputFile)

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Encryption successful\n")
		fmt.Fprintf(os.Stderr, "Plaintext size: %d bytes\n", len(msgBytes))
		fmt.Fprintf(os.Stderr, "Ciphertext values: %d\n", len(ct))
	}
}

func mhkcDecrypt(args []string) {
	config := parseConfig(args)
	keyFile := requireArg(args, "--key", "-k")
	ctFile := requireArg(args, "--ciphertext", "-ct")

	export, err := loadKeyFile(keyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading private key: %v\n", err)
		os.Exit(1)
	}
	if export.PrivateKey == nil {
		fmt.Fprintf(os.Stderr, "Error: key file %s has no private key\n", keyFile)
		os.Exit(1)
	}

	ctData, err := readLimitedFile(ctFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ciphertext: %v\n", err)
		os.Exit(1)
	}
	ctExport, err := parseCiphertext(ctData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing ciphertext: %v\n", err)
		os.Exit(1)
	}

	mode := config.Mode
	if ctExport.Mode != "" && getArg(args, "--mode", "-md") == "" {
		mode = ctExport.Mode
	}

	start := time.Now()
	var plaintext string
	switch mode {
	case ModeRunes:
		plaintext, err = mhkc.DecryptString(export.PrivateKey, ctExport.Ciphertext)
	default:
		var raw []byte
		raw, err = mhkc.Decrypt(export.PrivateKey, ctExport.Ciphertext)
		plaintext = string(raw)
	}
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decrypting: %v\n", err)
		os.Exit(1)
	}

	if config.Timing {
		fmt.Fprintf(os.Stderr, "Decryption took: %v\n", elapsed)
	}

	writeOutput([]byte(plaintext), config.OutputFile)
}

// ============================================================================
// Classical Cipher Commands
// ============================================================================

func handleCaesar(args []string) {
	if len(args) < 1 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		fmt.Printf("USAGE:\n    %s caesar <encrypt|decrypt> --offset <k> [--message <text>]\n", appName)
		return
	}

	offsetStr := requireArg(args, "--offset", "-k")
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid offset '%s'\n", offsetStr)
		os.Exit(1)
	}
	message := readMessage(args)

	switch args[0] {
	case "encrypt", "enc":
		fmt.Println(classical.EncryptCaesar(message, offset))
	case "decrypt", "dec":
		fmt.Println(classical.DecryptCaesar(message, offset))
	default:
		fmt.Fprintf(os.Stderr, "Unknown caesar subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func handleVigenere(args []string) {
	if len(args) < 1 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		fmt.Printf("USAGE:\n    %s vigenere <encrypt|decrypt> --keyword <KEY> [--message <text>]\n", appName)
		return
	}

	keyword := requireArg(args, "--keyword", "-k")
	message := readMessage(args)

	var out string
	var err error
	switch args[0] {
	case "encrypt", "enc":
		out, err = classical.EncryptVigenere(message, keyword)
	case "decrypt", "dec":
		out, err = classical.DecryptVigenere(message, keyword)
	default:
		fmt.Fprintf(os.Stderr, "Unknown vigenere subcommand: %s\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

// ============================================================================
// Benchmark
// ============================================================================

func handleBenchmark(args []string) {
	config := parseConfig(args)
	iterationsStr := getArg(args, "--iterations", "-n")

	iterations := 10
	if iterationsStr != "" {
		_, _ = fmt.Sscanf(iterationsStr, "%d", &iterations)
	}

	if iterations < 1 {
		iterations = 1
	}

	params := core.ParamsForLength(config.KeyLength)
	testMessage := []byte(strings.Repeat("Hello, knapsack!", 16))

	fmt.Printf("Merkle-Hellman Benchmark Results\n")
	fmt.Printf("================================\n")
	fmt.Printf("Key length: %d\n", params.N)
	fmt.Printf("Iterations: %d\n", iterations)
	fmt.Printf("Message: %d symbols\n\n", len(testMessage))

	var kp *knapsack.KeyPair
	keygen := measure(iterations, func() error {
		var err error
		kp, err = mhkc.GenerateKeyPairFrom(utils.RandReader, params)
		return err
	})

	// Keys narrower than a byte get the low bits of each byte.
	mask := uint64(0xFF)
	if err := core.CheckSymbolWidth(params.N, mask); err != nil {
		mask = 1<<uint(params.N) - 1
	}
	symbols := make([]uint64, len(testMessage))
	for i, b := range testMessage {
		symbols[i] = uint64(b) & mask
	}

	var ct knapsack.Ciphertext
	encrypt := measure(iterations, func() error {
		var err error
		ct, err = mhkc.EncryptSymbols(&kp.PublicKey, symbols)
		return err
	})
	decrypt := measure(iterations, func() error {
		_, err := mhkc.DecryptSymbols(&kp.PrivateKey, ct)
		return err
	})

	printTimings("KeyGen", keygen)
	printTimings("Encrypt", encrypt)
	printTimings("Decrypt", decrypt)

	fmt.Println()
	fmt.Println("Benchmark complete!")
}

// measure runs fn iterations times and returns each run in microseconds.
func measure(iterations int, fn func() error) stats.Float64Data {
	samples := make(stats.Float64Data, 0, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "Benchmark error: %v\n", err)
			os.Exit(1)
		}
		samples = append(samples, float64(time.Since(start).Microseconds()))
	}
	return samples
}

func printTimings(name string, samples stats.Float64Data) {
	mean, _ := samples.Mean()
	median, _ := samples.Median()
	p95, _ := samples.Percentile(95)
	stddev, _ := samples.StandardDeviation()
	fmt.Printf("  %-8s mean %8.1fµs  median %8.1fµs  p95 %8.1fµs  stddev %7.1fµs\n", name+":", mean, median, p95, stddev)
}

// ============================================================================
// Utility Functions
// ============================================================================

func requireArg(args []string, long, short string) string {
	v := getArg(args, long, short)
	if v == "" {
		fmt.Fprintf(os.Stderr, "Error: %s is required\n", long)
		os.Exit(1)
	}
	return v
}

// readMessage returns --message, else the --input file, else stdin.
func readMessage(args []string) string {
	if message := getArg(args, "--message", "-m"); message != "" {
		return message
	}
	var data []byte
	var err error
	if input := getArg(args, "--input", "-i"); input != "" {
		data, err = readLimitedFile(input)
	} else {
		data, err = readStdin()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading message: %v\n", err)
		os.Exit(1)
	}
	return string(trimNewline(data))
}

// readStdin reads a message from stdin without the shell's trailing newline.
func readStdin() ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxInputFileSize))
	if err != nil {
		return nil, err
	}
	return trimNewline(data), nil
}

func trimNewline(data []byte) []byte {
	return bytes.TrimRight(data, "\r\n")
}

// readLimitedFile reads a file after checking its size.
func readLimitedFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxInputFileSize {
		return nil, fmt.Errorf("input file too large: %d > %d bytes", info.Size(), MaxInputFileSize)
	}
	return os.ReadFile(filename)
}

// loadKeyFile reads a key file written by "mhkc keygen" or "mhkc pubkey".
// The public key is re-derived when the private key is present, so a file
// whose halves disagree is rejected.
func loadKeyFile(filename string) (*KeyPairExport, error) {
	data, err := readLimitedFile(filename)
	if err != nil {
		return nil, err
	}

	var export KeyPairExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", knapsack.ErrMalformedKey, err)
	}
	if export.PublicKey.Len() == 0 {
		return nil, fmt.Errorf("%w: key file has no public key", knapsack.ErrMalformedKey)
	}
	if err := utils.CheckLength(export.PublicKey.Len(), utils.MaxKeyLength); err != nil {
		return nil, fmt.Errorf("%w: public key: %v", knapsack.ErrMalformedKey, err)
	}
	if err := export.PublicKey.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", knapsack.ErrMalformedKey, err)
	}

	if export.PrivateKey != nil {
		if err := export.PrivateKey.Validate(); err != nil {
			return nil, err
		}
		derived := mhkc.DerivePublicKey(export.PrivateKey)
		if hex.EncodeToString(mhkc.Fingerprint(derived)) != hex.EncodeToString(mhkc.Fingerprint(&export.PublicKey)) {
			return nil, fmt.Errorf("%w: public key does not match private key", knapsack.ErrMalformedKey)
		}
	}

	fingerprint := hex.EncodeToString(mhkc.Fingerprint(&export.PublicKey))
	if export.Fingerprint != "" && export.Fingerprint != fingerprint {
		return nil, fmt.Errorf("%w: fingerprint mismatch", knapsack.ErrMalformedKey)
	}
	export.Fingerprint = fingerprint
	return &export, nil
}

// parseCiphertext accepts the JSON export or whitespace separated decimals.
func parseCiphertext(data []byte) (*CiphertextExport, error) {
	var export CiphertextExport
	if err := json.Unmarshal(data, &export); err == nil {
		return &export, nil
	}

	fields := strings.Fields(string(data))
	if err := utils.CheckLength(len(fields), utils.MaxMessageSize); err != nil {
		return nil, err
	}
	ct := make(knapsack.Ciphertext, len(fields))
	for i, field := range fields {
		v, ok := new(big.Int).SetString(field, 10)
		if !ok {
			return nil, fmt.Errorf("%w: value %d is not a decimal integer", knapsack.ErrMalformedKey, i)
		}
		ct[i] = v
	}
	return &CiphertextExport{Ciphertext: ct}, nil
}

func formatCiphertextText(ct knapsack.Ciphertext) string {
	parts := make([]string, len(ct))
	for i, c := range ct {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func writeOutput(data []byte, filename string) {
	if filename != "" {
		// Create file with restrictive permissions (0600 read-write for owner only).
		f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		if _, err := f.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}

		// Ensure permissions are enforced even if umask is permissive
		if err := os.Chmod(filename, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting file permissions: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(string(data))
	}
}
