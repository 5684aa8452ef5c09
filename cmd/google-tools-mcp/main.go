// Google Tools MCP server exposes Gmail and Google Calendar access
// through Model Context Protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/google-tools-mcp/internal/auth"
	"github.com/hal9000y/google-tools-mcp/internal/gservice"
	"github.com/hal9000y/google-tools-mcp/internal/tool"
)

const (
	defaultCredentialsFile = "credentials.json"
	defaultTokenFile       = "token.json"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:0", "HTTP SERVER listen addr")
	credentialsFile := flag.String("credentials-file", "", "Path to the OAuth client-secret JSON (default credentials.json)")
	tokenFile := flag.String("token-file", "", "Path to cache the google oauth token (default token.json)")
	envFileParam := flag.String("env-file", "", "Path to env file")
	emailEntries := flag.Int64("default-email-entries", 10, "Default number of emails to fetch")
	calendarEntries := flag.Int64("default-calendar-entries", 10, "Default number of calendar entries to fetch")
	enableStdio := flag.Bool("stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	logFile := flag.String("log-file", "", "Path to log file (only used with stdio transport, otherwise logs to stdout)")

	flag.Parse()

	persistLogs := setupLogger(enableStdio, logFile)
	defer persistLogs()

	if *envFileParam != "" {
		if err := godotenv.Load(*envFileParam); err != nil {
			panic(fmt.Errorf("godotenv.Load failed: %w", err))
		}
	}

	config := mustCreateOauthCfg(resolvePath(*credentialsFile, "GOOGLE_CREDENTIALS_FILE", defaultCredentialsFile))

	store := auth.NewFileStore(resolvePath(*tokenFile, "GOOGLE_TOKEN_FILE", defaultTokenFile))
	mgr := auth.NewManager(config, store, auth.NewLocalServerFlow(config))

	gmailSvc := gservice.NewGmail(config, mgr)
	calendarSvc := gservice.NewCalendar(config, mgr)

	toolCfg := tool.Config{
		DefaultEmailEntries:    *emailEntries,
		DefaultCalendarEntries: *calendarEntries,
	}
	googleT := tool.NewServer(gmailSvc, calendarSvc, tool.SessionNotifier{}, toolCfg)

	mux := http.NewServeMux()
	mux.Handle("/oauth", auth.NewHTTPHandler(mgr))

	mcpHTTP := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return googleT }, nil)
	mux.Handle("/mcp", mcpHTTP)

	srv := &http.Server{
		Handler: mux,
	}

	ln := mustListen(httpAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	defer stopHTTP()

	var errStdioCh <-chan error
	if *enableStdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdio(googleT)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		log.Println("Error http server", err)
	case err := <-errStdioCh:
		log.Println("Error stdio", err)
	case <-shutdown:
		log.Println("Shutdown signal received")
	}
}

func serveStdio(srv *mcp.Server) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Println("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			err = fmt.Errorf("srv.Run failed: %w", err)
			errStdioCh <- err
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Println("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting http server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("HTTP server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr *string) net.Listener {
	if httpAddr == nil {
		panic("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func mustCreateOauthCfg(credentialsPath string) *oauth2.Config {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		panic(fmt.Errorf("unable to read client-secret file %s: %w", credentialsPath, err))
	}

	config, err := google.ConfigFromJSON(b,
		gmail.GmailReadonlyScope,
		gmail.GmailComposeScope,
		calendar.CalendarReadonlyScope,
	)
	if err != nil {
		panic(fmt.Errorf("google.ConfigFromJSON failed: %w", err))
	}

	return config
}

func resolvePath(flagValue, envVar, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func setupLogger(enableStdio *bool, logFile *string) func() {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if *enableStdio {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stdout)
	}

	return func() {}
}
