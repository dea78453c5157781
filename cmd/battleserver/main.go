package main

import (
	"flag"
	"fmt"
	"runtime/debug"

	"battlesim_server/internal/adminhttp"
	"battlesim_server/internal/manager"
	"battlesim_server/pkg/arguments"
	"battlesim_server/pkg/logger"
)

// usage :
// Displays the usage of the server. Requires a configuration file to
// fetch the tunables that govern its battle simulation and HTTP port.
func usage() {
	fmt.Println("Usage:")
	fmt.Println("./battleserver -config=[file] for configuration file to use (development/production)")
}

// main :
// Starts the battle manager's background processes and serves the
// admin HTTP endpoints until interrupted.
func main() {
	help := flag.Bool("h", false, "Print usage")
	conf := flag.String("config", "", "Configuration file to customize app behavior (development/production)")

	flag.Parse()

	if *help {
		usage()
	}

	trueConf := ""
	if conf != nil {
		trueConf = *conf
	}
	metadata := arguments.Parse(trueConf)
	simCfg := arguments.ParseSimConfig()

	log := logger.NewStdLogger(metadata.InstanceID, metadata.PublicIPv4)

	defer func() {
		err := recover()
		if err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("app crashed after error: %v (stack: %s)", err, stack))
		}

		log.Release()
	}()

	mgr := manager.NewManager(simCfg, log)
	if err := mgr.Run(); err != nil {
		panic(fmt.Errorf("unexpected error while starting battle manager (err: %v)", err))
	}

	server := adminhttp.NewServer(metadata.Port, mgr, simCfg.DefaultSeed, metadata.InstanceID, simCfg.TickInterval, log)

	if err := server.Serve(); err != nil {
		panic(fmt.Errorf("unexpected error while listening to port %d (err: %v)", metadata.Port, err))
	}
}
