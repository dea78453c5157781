package arguments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// AppMetadata :
// Describes some properties used to identify the current instance of
// the application. This includes data about the machine executing it
// but also information about its behavior (such as the port that is
// exposed for external clients to target the app).
// Some information will be retrieved from the machine itself through
// various means and default values can be provided in the case of a
// local machine (typically in development environment).
//
// Most of these information will be used during the logging process
// to provide some context to messages and distinguish among running
// instances of the application (in case several are available).
//
// The `PublicIPv4` corresponds to the IP address of the machine that
// is executing the server and persists through a restart. It allows
// to easily connect to a specific machine based on the logs, and also
// to identify furthermore the instances of a single application.
// The default value is "localhost".
//
// The `InstanceID` describes an identifier of the current instance
// of the server. Each instance has its own identifier which allows
// to start several instances of a given app on the same machine.
// This value is generated at runtime and is meant to be unique and
// change upon restart of the application on the same machine.
// The default value is automatically generated.
//
// The `Environment` is a string describing the configuration used to
// start this application.
// The default value is "unknown".
//
// The `Port` specifies on which port the admin end points defined by
// the app can be accessed.
// The default value is 3000.
type AppMetadata struct {
	PublicIPv4  string `json:"public_ipv4"`
	InstanceID  string `json:"instance_id"`
	Environment string `json:"environment"`
	Port        int
}

// SimConfig :
// Gathers the tunables governing the lifecycle of a battle simulation.
// All of these values are meant to be overridden through the config
// file or through environment variables so that the timing behavior of
// the simulation can be adapted without recompiling the server.
//
// The `TickInterval` defines the period at which the scheduler steps
// every active battle. The default value is 50 milliseconds (20Hz).
//
// The `IdleCheckInterval` defines how often an idle battle is polled
// to determine whether it should resume ticking.
// The default value is 500 milliseconds.
//
// The `TimeoutCheckInterval` defines how often every active battle is
// inspected for wall-clock based timeout conditions.
// The default value is 10 seconds.
//
// The `MaxDuration` defines the maximum wall-clock duration a battle
// is allowed to run before being force-concluded.
// The default value is 30 minutes.
//
// The `StalemateWindow` defines the wall-clock duration during which
// no damage has been dealt before a battle is declared a stalemate.
// The default value is 5 minutes.
//
// The `RetentionWindow` defines how long a concluded battle remains
// queryable through the admin endpoints before being purged from the
// registry.
// The default value is 60 seconds.
//
// The `DefaultSeed` provides the seed used to derive per-weapon firing
// jitter when no explicit seed is supplied when starting a battle.
type SimConfig struct {
	TickInterval         time.Duration
	IdleCheckInterval    time.Duration
	TimeoutCheckInterval time.Duration
	MaxDuration          time.Duration
	StalemateWindow      time.Duration
	RetentionWindow      time.Duration
	DefaultSeed          int64
}

// Parse :
// Used to parse the app arguments and produce the corresponding data. The
// arguments allows to gather information about the runtime machine that is
// executing the application. It is useful to provide contexts in the error
// messages produced by the application but also general properties of the
// environment into which the application is to be executed.
// These properties can be used to adapt the behavior of the application (for
// example by specifying the port to expose to the outside world, etc.).
//
// The `configFile` is a string describing the configuration file provided
// by the runtime of the application. This is usually the name of the
// configuration file without the extension which contains the parameters
// to apply to the varuous aspects of the application. Parse panics if this
// file cannot be found and read.
//
// This function returns the built-in application's properties.
func Parse(configFile string) AppMetadata {
	// Assign the extra path to use to reach the configuration file.
	viper.SetEnvPrefix("ENV")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	// Put the configuration file in the config structure
	// name of config file (without extension).
	viper.SetConfigName(configFile)

	// Optionally look for config in the working directory and in the common
	// `data/config` directory.
	viper.AddConfigPath(".")
	viper.AddConfigPath("data/config")

	// Find and read the config file.
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("could not parse input configuration \"%s\" (err: %v)", configFile, err))
	}

	// Create the default application properties.
	metadata := AppMetadata{
		"localhost",
		uuid.New().String(),
		"unknown",
		3000,
	}

	// Fetch values from the configuration produced by the runtime.
	if len(configFile) > 0 {
		metadata.Environment = configFile
	}
	if viper.IsSet("App.Port") {
		metadata.Port = viper.GetInt("App.Port")
	}
	if viper.IsSet("App.PublicIPv4") {
		metadata.PublicIPv4 = viper.GetString("App.PublicIPv4")
	}

	// Return the built-in configuration object.
	return metadata
}

// ParseSimConfig :
// Used to parse the tunables governing the battle simulation lifecycle.
// Values are read from the same configuration source as `Parse` (the
// config file must already have been loaded by a call to `Parse`) and
// fall back to the documented defaults when absent.
//
// Returns the built-in simulation configuration.
func ParseSimConfig() SimConfig {
	cfg := SimConfig{
		TickInterval:         50 * time.Millisecond,
		IdleCheckInterval:    500 * time.Millisecond,
		TimeoutCheckInterval: 10 * time.Second,
		MaxDuration:          30 * time.Minute,
		StalemateWindow:      5 * time.Minute,
		RetentionWindow:      60 * time.Second,
		DefaultSeed:          0,
	}

	if viper.IsSet("Sim.TickIntervalMs") {
		cfg.TickInterval = time.Duration(viper.GetInt("Sim.TickIntervalMs")) * time.Millisecond
	}
	if viper.IsSet("Sim.IdleCheckIntervalMs") {
		cfg.IdleCheckInterval = time.Duration(viper.GetInt("Sim.IdleCheckIntervalMs")) * time.Millisecond
	}
	if viper.IsSet("Sim.TimeoutCheckIntervalMs") {
		cfg.TimeoutCheckInterval = time.Duration(viper.GetInt("Sim.TimeoutCheckIntervalMs")) * time.Millisecond
	}
	if viper.IsSet("Sim.MaxDurationMinutes") {
		cfg.MaxDuration = time.Duration(viper.GetInt("Sim.MaxDurationMinutes")) * time.Minute
	}
	if viper.IsSet("Sim.StalemateWindowMinutes") {
		cfg.StalemateWindow = time.Duration(viper.GetInt("Sim.StalemateWindowMinutes")) * time.Minute
	}
	if viper.IsSet("Sim.RetentionWindowSeconds") {
		cfg.RetentionWindow = time.Duration(viper.GetInt("Sim.RetentionWindowSeconds")) * time.Second
	}
	if viper.IsSet("Sim.DefaultSeed") {
		cfg.DefaultSeed = viper.GetInt64("Sim.DefaultSeed")
	}

	return cfg
}
