package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/drummonds/imgconv/formats"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ServerConfig contains all of the server settings
type ServerConfig struct {
	ListenAddrIP   string
	ListenAddrPort string
	// MaxUploadBytes caps the size of a single uploaded source file
	MaxUploadBytes int64
	SessionTTL     time.Duration
	// SweepInterval is how often idle sessions are evicted, in minutes
	SweepInterval int
	FrontEndConfig
}

// FrontEndConfig stores all of the frontend settings
type FrontEndConfig struct {
	ServerAPIURL string
	Defaults     formats.Options
}

// CLIConfig stores the settings for the command line converter
type CLIConfig struct {
	OutputDir string
	Overwrite bool
	Defaults  formats.Options
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// defaultOptions reads DEFAULT_FORMAT and DEFAULT_SCALE. A default format that
// cannot be encoded falls back to PNG so a fresh session never starts failed.
func defaultOptions(logger *slog.Logger) formats.Options {
	opts := formats.DefaultOptions()
	target := formats.ParseFormat(getEnv("DEFAULT_FORMAT", string(formats.PNG)))
	if target.CanEncode() {
		opts.Target = target
	} else {
		logger.Warn("DEFAULT_FORMAT cannot be encoded, using PNG", "format", target)
	}
	opts.Scale = formats.ParseScale(getEnv("DEFAULT_SCALE", "1"))
	return opts
}

// SetupServer loads configuration and returns ServerConfig and Logger
func SetupServer() (ServerConfig, *slog.Logger) {
	serverConfigLive := ServerConfig{}
	frontEndConfigLive := FrontEndConfig{}

	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	logger := setupLogging()
	Logger = logger

	serverConfigLive.ListenAddrPort = getEnv("SERVER_PORT", "8000")
	serverConfigLive.ListenAddrIP = getEnv("SERVER_ADDR", "")

	maxUploadMB := getEnvInt("MAX_UPLOAD_MB", 25)
	if maxUploadMB <= 0 {
		logger.Warn("MAX_UPLOAD_MB must be positive, using 25", "value", maxUploadMB)
		maxUploadMB = 25
	}
	serverConfigLive.MaxUploadBytes = int64(maxUploadMB) << 20

	ttl := getEnvInt("SESSION_TTL_MINUTES", 30)
	if ttl <= 0 {
		ttl = 30
	}
	serverConfigLive.SessionTTL = time.Duration(ttl) * time.Minute
	serverConfigLive.SweepInterval = getEnvInt("SESSION_SWEEP_INTERVAL", 5)

	fmt.Println("\n========================================")
	fmt.Println("   imgconv - Image Format Converter")
	fmt.Println("========================================")
	fmt.Printf("Server will start on: %s:%s\n", serverConfigLive.ListenAddrIP, serverConfigLive.ListenAddrPort)
	if serverConfigLive.ListenAddrIP == "" {
		fmt.Println("(Listening on all network interfaces)")
	}
	fmt.Printf("Detailed logs: %s\n", getEnv("LOG_FILE", "imgconv.log"))
	fmt.Println("Initializing...")

	frontEndConfigLive.ServerAPIURL = getEnv("SERVER_API_URL", "")
	frontEndConfigLive.Defaults = defaultOptions(logger)
	serverConfigLive.FrontEndConfig = frontEndConfigLive

	logger.Info("Server configuration loaded",
		"maxUploadMB", maxUploadMB,
		"sessionTTL", serverConfigLive.SessionTTL,
		"defaultFormat", frontEndConfigLive.Defaults.Target,
		"defaultScale", frontEndConfigLive.Defaults.Scale)

	return serverConfigLive, logger
}

// SetupFrontend loads configuration for frontend-only server
func SetupFrontend() (FrontEndConfig, *slog.Logger) {
	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")
	_ = godotenv.Load("frontend.env")

	logger := setupLogging()
	Logger = logger

	frontendConfig := FrontEndConfig{}
	frontendConfig.ServerAPIURL = getEnv("SERVER_API_URL", "http://localhost:8000")
	frontendConfig.Defaults = defaultOptions(logger)

	logger.Info("Frontend configuration loaded", "apiURL", frontendConfig.ServerAPIURL)

	return frontendConfig, logger
}

// SetupCLI loads configuration for the command line tool. Logs go to the log
// file unless LOG_OUTPUT says otherwise, so they never mix with command output.
func SetupCLI() (CLIConfig, *slog.Logger) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	logger := setupLogging()
	Logger = logger

	cliConfig := CLIConfig{}
	outputDir, err := filepath.Abs(filepath.ToSlash(getEnv("OUTPUT_DIR", ".")))
	if err != nil {
		logger.Error("Failed creating absolute path for output directory", "error", err)
		outputDir = "."
	}
	cliConfig.OutputDir = outputDir
	cliConfig.Overwrite = getEnvBool("OUTPUT_OVERWRITE", false)
	cliConfig.Defaults = defaultOptions(logger)

	return cliConfig, logger
}

// setupLogging configures the application logger
func setupLogging() *slog.Logger {
	logLevel := getEnv("LOG_LEVEL", "debug")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelDebug
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	logOutput := getEnv("LOG_OUTPUT", "file")
	var logWriter io.Writer

	switch logOutput {
	case "stdout":
		logWriter = os.Stdout
	case "stderr":
		logWriter = os.Stderr
	case "none":
		logWriter = io.Discard
	default:
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "imgconv.log")))
		if err != nil {
			fmt.Printf("Error creating log file path: %v\n", err)
			logWriter = os.Stdout
		} else {
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Printf("Failed to open log file: %v\n", err)
				logWriter = os.Stdout
			} else {
				logWriter = logFile
			}
		}
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler)
}

// GetPreferredOutboundIP gets preferred outbound IP of this machine
func GetPreferredOutboundIP() (net.IP, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP, nil
}
