package main

import (
	"fmt"
	"log/slog"
	"os"

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

func main() {
	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	e, serverHandler := newServer(serverConfig)
	Logger.Info("Echo created")

	serverHandler.InitializeSchedules() //start the idle session sweeper
	if err := serverHandler.StartupChecks(); err != nil {
		Logger.Error("Startup checks failed", "error", err)
		fmt.Printf("Startup checks failed: %v\n", err)
		os.Exit(1)
	}
	Logger.Info("Startup checks complete")

	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
		if ip, err := config.GetPreferredOutboundIP(); err == nil {
			fmt.Printf("Reachable on your network at http://%s:%s\n", ip, serverConfig.ListenAddrPort)
		}
	}

	port, err := web.StartWithRetry(e, serverConfig.ListenAddrIP, serverConfig.ListenAddrPort, 5)
	if err != nil {
		Logger.Error("Failed to start server", "requested_port", serverConfig.ListenAddrPort, "error", err)
		os.Exit(1)
	}
	Logger.Info("Server stopped", "port", port)
}

// newServer builds the combined API and web app server
func newServer(serverConfig config.ServerConfig) (*echo.Echo, *engine.ServerHandler) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = web.ErrorHandler(e, false)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))

	serverHandler := engine.NewServerHandler(e, serverConfig)
	serverHandler.RegisterRoutes()

	web.MountApp(e, serverConfig.ServerAPIURL)
	return e, serverHandler
}
