/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ortuman/c2sgate/auth"
	"github.com/ortuman/c2sgate/bus"
	"github.com/ortuman/c2sgate/bus/memorybus"
	"github.com/ortuman/c2sgate/bus/natsbus"
	"github.com/ortuman/c2sgate/c2s"
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/router"
	"github.com/ortuman/c2sgate/storage"
	"github.com/ortuman/c2sgate/storage/repository"
	"github.com/ortuman/c2sgate/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultShutDownWaitTime = time.Duration(5) * time.Second
)

const (
	ingressChannel  = "stanzas"
	deliveryChannel = "deliveries"
)

var logoStr = []string{
	`        ___                        _       `,
	`   ___ |_  )  ___  __ _  __ _  _| |_ ___ `,
	`  / __| / /  (_-< / _' |/ _' ||_   _/ -_)`,
	`  \___|/___| /__/ \__, |\__,_|  |_| \___|`,
	`                  |___/                   `,
}

const usageStr = `
Usage: c2sgate [options]

Server Options:
    -c, --config <file>    Configuration file path
Common Options:
    -h, --help             Show this message
    -v, --version          Show version
`

// Application encapsulates a c2sgate server application.
type Application struct {
	output           io.Writer
	args             []string
	rep              repository.Container
	bus              *routingBus
	router           *router.Router
	c2s              *c2s.C2S
	debugSrv         *http.Server
	waitStopCh       chan os.Signal
	shutDownWaitSecs time.Duration
}

// New returns a runnable application given an output and a command line arguments array.
func New(output io.Writer, args []string) *Application {
	return &Application{
		output:           output,
		args:             args,
		waitStopCh:       make(chan os.Signal, 1),
		shutDownWaitSecs: defaultShutDownWaitTime}
}

// Run runs c2sgate application until either a stop signal is received or an error occurs.
func (a *Application) Run() error {
	if len(a.args) == 0 {
		return errors.New("empty command-line arguments")
	}
	var configFile string
	var showVersion, showUsage bool

	fs := flag.NewFlagSet("c2sgate", flag.ContinueOnError)
	fs.SetOutput(a.output)

	fs.BoolVar(&showUsage, "help", false, "Show this message")
	fs.BoolVar(&showUsage, "h", false, "Show this message")
	fs.BoolVar(&showVersion, "version", false, "Print version information.")
	fs.BoolVar(&showVersion, "v", false, "Print version information.")
	fs.StringVar(&configFile, "config", "/etc/c2sgate/c2sgate.yml", "Configuration file path.")
	fs.StringVar(&configFile, "c", "/etc/c2sgate/c2sgate.yml", "Configuration file path.")
	fs.Usage = func() {
		for i := range logoStr {
			_, _ = fmt.Fprintf(a.output, "%s\n", logoStr[i])
		}
		_, _ = fmt.Fprintf(a.output, "%s\n", usageStr)
	}
	if err := fs.Parse(a.args[1:]); err != nil {
		return err
	}
	// print usage
	if showUsage {
		fs.Usage()
		return nil
	}
	// print version
	if showVersion {
		a.showVersion()
		return nil
	}
	// load configuration
	var cfg Config
	if err := cfg.FromFile(configFile); err != nil {
		return err
	}
	// create PID file
	if err := a.createPIDFile(cfg.PIDFile); err != nil {
		return err
	}
	// initialize logger
	if err := log.Initialize(&cfg.Logger); err != nil {
		return err
	}

	// show c2sgate's fancy logo
	a.printLogo()

	ctx := context.Background()

	// initialize storage
	rep, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return err
	}
	a.rep = rep

	// initialize routing bus
	a.bus, err = initBus(&cfg.Bus)
	if err != nil {
		return err
	}
	a.router = router.New(a.bus.ingress, a.bus.delivery)

	// start serving c2s...
	authr, err := initAuthenticator(&cfg.C2S.SASL, a.rep)
	if err != nil {
		return err
	}
	a.c2s = c2s.New(cfg.C2S, a.router, authr)
	if err := a.c2s.Start(); err != nil {
		return err
	}

	// initialize debug server...
	if cfg.Debug.Port > 0 {
		if _, err := a.initDebugServer(fmt.Sprintf(":%d", cfg.Debug.Port)); err != nil {
			return err
		}
	}

	// ...wait for stop signal to shutdown
	sig := a.waitForStopSignal()
	log.Infof("received %s signal... shutting down...", sig.String())

	return a.gracefullyShutdown()
}

func (a *Application) showVersion() {
	_, _ = fmt.Fprintf(a.output, "c2sgate version: %v\n", version.ApplicationVersion)
}

func (a *Application) createPIDFile(pidFile string) error {
	if len(pidFile) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(pidFile), os.ModePerm); err != nil {
		return err
	}
	file, err := os.Create(pidFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	currentPid := os.Getpid()
	if _, err := file.WriteString(strconv.FormatInt(int64(currentPid), 10)); err != nil {
		return err
	}
	return nil
}

func (a *Application) printLogo() {
	for i := range logoStr {
		log.Infof("%s", logoStr[i])
	}
	log.Infof("")
	log.Infof("c2sgate %v\n", version.ApplicationVersion)
}

func (a *Application) initDebugServer(address string) (net.Addr, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))
	mux.Handle("/debug/pprof/", http.HandlerFunc(pprof.Index))
	mux.Handle("/debug/pprof/cmdline", http.HandlerFunc(pprof.Cmdline))
	mux.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
	mux.Handle("/debug/pprof/symbol", http.HandlerFunc(pprof.Symbol))
	mux.Handle("/debug/pprof/trace", http.HandlerFunc(pprof.Trace))

	a.debugSrv = &http.Server{Handler: mux}
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	go func() { _ = a.debugSrv.Serve(ln) }()
	log.Infof("debug server listening at %s...", ln.Addr().String())
	return ln.Addr(), nil
}

func (a *Application) waitForStopSignal() os.Signal {
	signal.Notify(a.waitStopCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	return <-a.waitStopCh
}

func (a *Application) gracefullyShutdown() error {
	// wait until application has been shut down
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(a.shutDownWaitSecs))
	defer cancel()

	select {
	case err := <-a.shutdown(ctx):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Application) shutdown(ctx context.Context) <-chan error {
	c := make(chan error, 1)
	go func() {
		if a.debugSrv != nil {
			_ = a.debugSrv.Shutdown(ctx)
		}
		if err := a.c2s.Shutdown(ctx); err != nil {
			c <- err
			return
		}
		if err := a.bus.Close(ctx); err != nil {
			log.Warnf("app: bus close: %v", err)
		}
		if err := a.rep.Close(ctx); err != nil {
			log.Warnf("app: storage close: %v", err)
		}
		log.Shutdown()
		c <- nil
	}()
	return c
}

// routingBus groups the two routing directions: client stanzas flow
// onto ingress, processed stanzas come back through delivery.
type routingBus struct {
	ingress  bus.Bus
	delivery bus.Bus
	closers  []bus.Bus
}

func (rb *routingBus) Close(ctx context.Context) error {
	for _, c := range rb.closers {
		if err := c.Close(ctx); err != nil {
			return err
		}
	}
	return nil
}

func initBus(cfg *bus.Config) (*routingBus, error) {
	switch cfg.Type {
	case bus.Memory:
		ingress, delivery := memorybus.New(), memorybus.New()
		return &routingBus{
			ingress:  ingress,
			delivery: delivery,
			closers:  []bus.Bus{ingress, delivery},
		}, nil
	case bus.NATS:
		b, err := natsbus.New(cfg.NATS)
		if err != nil {
			return nil, err
		}
		return &routingBus{
			ingress:  b.Channel(ingressChannel),
			delivery: b.Channel(deliveryChannel),
			closers:  []bus.Bus{b},
		}, nil
	default:
		return nil, fmt.Errorf("app: unrecognized bus type: %d", cfg.Type)
	}
}

func initAuthenticator(cfg *c2s.SASLConfig, rep repository.Container) (auth.Authenticator, error) {
	var v auth.Validator
	switch cfg.Validator {
	case c2s.AllowAllValidator:
		log.Warnf("app: sasl validator accepts any credentials")
		v = auth.AllowAll
	default:
		v = auth.NewStorageValidator(rep.User())
	}
	return auth.New(cfg.Mechanisms, v)
}
