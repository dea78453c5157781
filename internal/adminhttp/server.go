package adminhttp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"

	"battlesim_server/internal/manager"
	"battlesim_server/pkg/dispatcher"
	"battlesim_server/pkg/duration"
	"battlesim_server/pkg/logger"
)

// Server :
// Exposes a battle manager over HTTP: starting, reinforcing,
// repositioning, retargeting and stopping battles, plus read-only
// status and health endpoints. Grounded on the teacher's
// internal/routes.Server, stripped of its database-proxy wiring since
// a battle manager has no rows to serve generically — the manager
// itself is the only backing store this server talks to.
//
// The `port` is the TCP port this server listens on.
//
// The `router` dispatches incoming requests to the registered
// handlers.
//
// The `mgr` is the battle manager backing every endpoint.
//
// The `defaultSeed` is substituted for a start request that does not
// supply its own seed.
//
// The `instanceID` is echoed back in the health response so that an
// operator juggling multiple instances can tell them apart in logs.
type Server struct {
	port   int
	router *dispatcher.Router

	mgr          *manager.Manager
	defaultSeed  int64
	instanceID   string
	tickInterval duration.Duration

	log logger.Logger
}

// ErrUnexpectedServeError :
// Indicates that an error occurred while serving requests.
var ErrUnexpectedServeError = fmt.Errorf("unexpected error occurred while serving http requests")

// ErrServerShutdownError :
// Indicates that an error occurred while shutting down the server.
var ErrServerShutdownError = fmt.Errorf("unexpected error occurred while shutting down the server")

// NewServer :
// Creates a new admin server bound to the given manager. The manager
// is expected to already have had Run called on it; this server only
// owns the HTTP listener, not the simulation's background processes.
func NewServer(port int, mgr *manager.Manager, defaultSeed int64, instanceID string, tickInterval time.Duration, log logger.Logger) *Server {
	return &Server{
		port:         port,
		mgr:          mgr,
		defaultSeed:  defaultSeed,
		instanceID:   instanceID,
		tickInterval: duration.NewDuration(tickInterval),
		log:          log,
	}
}

// Serve :
// Starts listening on the configured port and blocks until a SIGINT
// is received, at which point it gracefully shuts the HTTP listener
// down. Mirrors the teacher's own Serve: a CORS-wrapped router served
// behind a goroutine protected by recover(), torn down on signal with
// a bounded context.
func (s *Server) Serve() error {
	if s.router != nil {
		panic(fmt.Errorf("cannot start serving admin requests, process already running"))
	}

	s.router = dispatcher.NewRouter(s.log)
	s.routes()

	aMethods := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	aOrigins := handlers.AllowedOrigins([]string{"*"})
	aHeaders := handlers.AllowedHeaders([]string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"})
	corsRouter := handlers.CORS(aHeaders, aOrigins, aMethods)(handlers.CombinedLoggingHandler(os.Stdout, s.router))

	server := &http.Server{
		Addr:    ":" + strconv.FormatInt(int64(s.port), 10),
		Handler: corsRouter,
	}

	var serveErr error
	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.log.Trace(logger.Fatal, "adminhttp", fmt.Sprintf("caught unexpected error while serving requests (err: %v)", err))
				serveErr = ErrUnexpectedServeError
			}

			wg.Done()
			s.log.Trace(logger.Notice, "adminhttp", "server has stopped")
		}()

		s.log.Trace(logger.Notice, "adminhttp", "server has started")

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	s.mgr.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		s.log.Trace(logger.Error, "adminhttp", fmt.Sprintf("caught unexpected error while shutting down server (err: %v)", err))
		return ErrServerShutdownError
	}

	wg.Wait()

	return serveErr
}
