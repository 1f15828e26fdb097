package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fusion2048/internal/api"
	"github.com/vovakirdan/fusion2048/internal/config"
	"github.com/vovakirdan/fusion2048/internal/platform/tui"
	"github.com/vovakirdan/fusion2048/internal/session"
)

const (
	clockInterval   = 100 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagServeRedis  string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and HTTP servers",
	Long: `Start an SSH server for terminal play and an HTTP API for clients.

Each SSH connection gets its own menu and games. Scores and saves are
shared by everyone on the server.

The HTTP API runs independent game sessions:
  POST   /api/games               create (mode, grid_size, goal_value, ...)
  GET    /api/games               list
  GET    /api/games/{id}          state (resumes a stored session)
  POST   /api/games/{id}/move     {"direction": "left"}
  POST   /api/games/{id}/reset
  GET    /api/games/{id}/moves    possible moves
  DELETE /api/games/{id}
  GET    /api/games/{id}/ws       websocket state stream
  GET    /health

Sessions are saved to the save store after every change, so they survive
a restart. Pass an empty address to disable a server.

Examples:
  fusion serve
  fusion serve --ssh :2222 --http :9090
  fusion serve --http "" --host-key ./host_key
  fusion serve --redis redis://localhost:6379/0

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (default from config, :8080)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().StringVar(&flagServeRedis, "redis", "", "Redis URL for saved sessions (overrides config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "SSH idle timeout in minutes (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) {
	srvCfg := settings.Server
	if cmd.Flags().Changed("ssh") {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if cmd.Flags().Changed("http") {
		srvCfg.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeoutMins = flagIdleTimeout
	}
	if srvCfg.SSHAddr == "" && srvCfg.HTTPAddr == "" {
		fail("nothing to serve: both --ssh and --http are empty")
	}

	s, err := openStores(flagServeRedis)
	if err != nil {
		fail("opening storage: %v", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	var shutdowns []func(context.Context) error

	if srvCfg.SSHAddr != "" {
		dataDir, err := config.DataDir()
		if err != nil {
			fail("%v", err)
		}
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = srvCfg.SSHAddr
		sshCfg.HostKeyPath = srvCfg.HostKeyPath
		if d := srvCfg.IdleTimeout(); d > 0 {
			sshCfg.IdleTimeout = d
		}
		sshCfg.TickRate = flagFPS
		sshSrv, err := tui.NewSSHServer(sshCfg, s.env(), dataDir, logger.WithPrefix("ssh"))
		if err != nil {
			fail("creating SSH server: %v", err)
		}
		go func() { errCh <- sshSrv.ListenAndServe() }()
		shutdowns = append(shutdowns, sshSrv.Shutdown)
		logger.Info("connect with ssh", "command", "ssh localhost -p "+port(srvCfg.SSHAddr))
	}

	if srvCfg.HTTPAddr != "" {
		sessions := session.NewManager(session.Options{
			Store:  s.saves,
			Logger: logger.WithPrefix("sessions"),
		})
		go sessions.RunClock(ctx, clockInterval)

		httpSrv := &http.Server{
			Addr:              srvCfg.HTTPAddr,
			Handler:           api.NewServer(sessions, settings.Game.Engine(), logger.WithPrefix("http")),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("starting HTTP server", "address", srvCfg.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
				return
			}
			errCh <- nil
		}()
		shutdowns = append(shutdowns, httpSrv.Shutdown)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("server error", "err", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, shutdown := range shutdowns {
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}

	if serveErr != nil {
		s.Close()
		fail("%v", serveErr)
	}
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
