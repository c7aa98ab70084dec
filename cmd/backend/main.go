package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	config "github.com/drummonds/imgconv/config"
	converter "github.com/drummonds/imgconv/converter"
	engine "github.com/drummonds/imgconv/engine"
	"github.com/drummonds/imgconv/internal/web"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	config.Logger = Logger
	converter.Logger = Logger
	engine.Logger = Logger
	web.Logger = Logger
}

// @title imgconv Backend API
// @version 1.0
// @description Image conversion API - upload a source image, pick a scale and target format, download the result

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name Sessions
// @tag.description Interactive conversion sessions

// @tag.name Convert
// @tag.description One-shot conversion

// @tag.name Info
// @tag.description Formats and service information

func main() {
	port := flag.String("port", "", "Port to run backend server on (overrides SERVER_PORT)")
	flag.Parse()

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("🔧  imgconv Backend API Server")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("• API-only mode (no frontend)")
	fmt.Println("• Sessions and one-shot conversion under /api/*")
	fmt.Println(strings.Repeat("=", 50) + "\n")

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages
	if *port != "" {
		serverConfig.ListenAddrPort = *port
	}

	e, serverHandler := newBackend(serverConfig)

	Logger.Info("Initializing backend services...")
	serverHandler.InitializeSchedules()
	if err := serverHandler.StartupChecks(); err != nil {
		Logger.Error("Startup checks failed", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
	Logger.Info("Starting Backend API Server", "address", addr)
	fmt.Printf("\n✅  Backend API Server running on %s\n", addr)
	fmt.Printf("🏥  Health check: http://%s/api/health\n\n", addr)

	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		Logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

// newBackend builds the API-only server. Downloads are read cross-origin, so
// Content-Disposition has to be exposed for the page to see the file name.
func newBackend(serverConfig config.ServerConfig) (*echo.Echo, *engine.ServerHandler) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = web.ErrorHandler(e, true)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodPatch},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	serverHandler := engine.NewServerHandler(e, serverConfig)
	serverHandler.RegisterRoutes()
	return e, serverHandler
}
