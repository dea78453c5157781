package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// configuration :
// Provides a way to configure the way logs are displayed both in terms of
// level and in terms of the machine executing the logger.
// This logger uses a display to the standard output as a logging strategy
// with some coloring based on the severity of the logs to display. The
// logger is initialized with default name for the application and with a
// local configuration but information are retrieved from the configuration
// file to modify it.
//
// The `AppName` describes a string for the name of the application using
// the logger.
// The default value is "Unknown app".
//
// The `Environment` allows to specify which configuration is used by the
// application executing the logger.
// The default value is "development".
//
// The `ForceLocal` allows to make sure that the instance ID assigned to
// this logger will be "local" no matter what the value provided by the
// runtime is.
// The default value is `false`.
//
// The `Level` is a string representing the minimum level of a log message
// in order for it to be displayed.
// The default value is "info".
//
// The `Buffer` allows to specify the size of the buffer to handle log
// messages so that bursts of log production do not block callers.
// The default value is 500.
type configuration struct {
	AppName     string
	Environment string
	ForceLocal  bool
	Level       string
	Buffer      int
}

// traceMessage :
// Describes a message to be enqueued by the logger.
//
// The `level` value represents the actual importance of the log message.
//
// The `module` identifies which part of the application produced the
// message (e.g. "scheduler", "timeouts", "adminhttp", "dispatcher").
//
// The `content` represents the content of the message and is dumped as
// is during the logging process.
type traceMessage struct {
	level   Severity
	module  string
	content string
}

// StdLogger :
// Describes the logger structure used to perform logging.
// This logger is forwarding log messages received as go structures to the
// standard output and handles a buffer mechanism so that callers are not
// blocked while the underlying display system is performing the log.
//
// The `config` allows to retrieve information about the settings and
// changes to apply to input log messages before displaying them.
//
// The `instanceID` represents the name of the instance of the application
// running the logger.
//
// The `publicIP` represents the public IP of the machine as a string.
//
// The `logChannel` is used to receive the trace messages from go modules
// before sending them to the logging device.
//
// The `endChannel` allows to terminate the active loop which transmits
// log messages from the `logChannel` to the logging device.
//
// The `closed` value indicates whether the logger has been terminated.
//
// The `locker` allows to protect the `closed` boolean from concurrent
// accesses.
//
// The `waiter` allows to wait for this process to complete before
// returning from `Release`.
type StdLogger struct {
	config     configuration
	instanceID string
	publicIP   string
	logChannel chan traceMessage
	endChannel chan bool
	closed     bool
	locker     sync.Mutex
	waiter     sync.WaitGroup
}

// parseConfiguration :
// Used to retrieve the parameters to apply to the logger from the
// configuration file. A default configuration is provided to work in
// most cases but one can modify some settings at runtime.
//
// Returns the arguments parsed from the configuration file.
func parseConfiguration() configuration {
	config := configuration{
		"Unknown app",
		"development",
		false,
		"info",
		500,
	}

	if viper.IsSet("Logger.Name") {
		config.AppName = viper.GetString("Logger.Name")
	}
	if viper.IsSet("Logger.Environment") {
		config.Environment = viper.GetString("Logger.Environment")
	}
	if viper.IsSet("Logger.ForceLocal") {
		config.ForceLocal = viper.GetBool("Logger.ForceLocal")
	}
	if viper.IsSet("Logger.Level") {
		config.Level = viper.GetString("Logger.Level")
	}
	if viper.IsSet("Logger.Buffer") {
		config.Buffer = viper.GetInt("Logger.Buffer")
	}

	return config
}

// NewStdLogger :
// Used to create a new logger with the specified instance name and
// public ip. The created logger will parse the configuration file
// provided by the env and adapt its configuration right away.
//
// The `instanceID` string identifies the current instance of the server.
//
// The `publicIP` provides the IP to use to target the machine executing
// the logger. If empty, "localhost" is used instead.
//
// Returns the produced logger.
func NewStdLogger(instanceID string, publicIP string) Logger {
	config := parseConfiguration()

	log := StdLogger{
		config:     config,
		instanceID: instanceID,
		publicIP:   publicIP,
		logChannel: make(chan traceMessage, config.Buffer),
		endChannel: make(chan bool),
		closed:     false,
	}

	if len(log.instanceID) == 0 || config.ForceLocal {
		log.instanceID = "local"
	}
	if len(log.publicIP) == 0 {
		log.publicIP = "localhost"
	}

	log.waiter.Add(1)
	go log.performLogging()

	return &log
}

// Release :
// Used to perform the stopping of the active loop meant to handle
// logging to the underlying device. It will block until the method
// actually returns to make sure that the last logs posted are dumped.
func (log *StdLogger) Release() {
	log.endChannel <- false

	log.locker.Lock()
	log.closed = true
	close(log.logChannel)
	log.locker.Unlock()

	log.waiter.Wait()
}

// Trace :
// Used to perform the log of the input message with the specified
// level and originating module. The log message is not directly
// transmitted to the logging device but instead placed in the internal
// buffer of trace messages so that it can be processed by the active
// logger loop. This function does not block the caller unless the
// internal buffer is full.
//
// The `level` describes the severity of the message to log.
//
// The `module` identifies the part of the application emitting the
// message.
//
// The `message` describes the content of the message to log.
func (log *StdLogger) Trace(level Severity, module string, message string) {
	trace := traceMessage{
		level:   level,
		module:  module,
		content: message,
	}

	log.locker.Lock()
	defer log.locker.Unlock()
	if !log.closed {
		log.logChannel <- trace
	}
}

// performLogging :
// Used to perform logging. This method is meant to be launched as a go
// routine and will regularly poll the internal trace channel to perform
// logging.
func (log *StdLogger) performLogging() {
	keepConnection := true

	for keepConnection {
		select {
		case keepConnection = <-log.endChannel:
		case trace := <-log.logChannel:
			log.performSingleLog(trace)
		}
	}

	for trace := range log.logChannel {
		log.performSingleLog(trace)
	}

	log.waiter.Done()
}

// performSingleLog :
// Used to perform a single log for the input trace. This method is
// called from the active logging loop and performs the conversion of
// the input message into something that can be displayed on the
// standard output.
//
// The `trace` describes the message to log.
func (log *StdLogger) performSingleLog(trace traceMessage) {
	out := FormatWithBrackets(log.config.AppName, Magenta)
	out += " " + FormatWithBrackets(log.instanceID, Magenta)
	out += " " + FormatWithNoBrackets(time.Now().Format("2006-01-02 15:04:05"), Magenta)
	out += " " + FormatWithBrackets(trace.module, Cyan)
	out += " " + trace.level.String()

	out += " " + trace.content

	fmt.Println(out)
}
