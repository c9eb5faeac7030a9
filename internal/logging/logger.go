package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/sportanalytics/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultService names the log file and tags entries when no service is set.
const DefaultService = "sportanalytics"

type LoggerSetupParams struct {
	// Service tags every entry and names the log file when LogFileName is a directory.
	Service string
	// LogFileName is a file path or a directory. Empty logs to STDOUT only.
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	// LogMaxBackups is the number of rotated files kept, 0 keeps all of them.
	LogMaxBackups    int
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.Service == "" {
		params.Service = DefaultService
	}
	if params.SentryServerName == "" {
		params.SentryServerName = params.Service
	}

	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.AddHook(NewFieldsHook(logrus.Fields{
		"service": params.Service,
		"env":     params.Environment,
	}))

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			logrus.Infoln("sentry set up successfully")
		}
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Println("writing logs only to STDOUT")
		return
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   LogFilePath(params.LogFileName, params.Service),
		MaxSize:    50, // megabytes
		MaxBackups: params.LogMaxBackups,
		LocalTime:  false, // UTC
		Compress:   true,
	}

	if params.LogToStdout {
		logrus.Println("writing logs to file and STDOUT")
		logrus.SetOutput(
			pkg.NewCombinedWriter(os.Stdout, lumberJackLogger),
		)
	} else {
		logrus.SetOutput(lumberJackLogger)
	}
	logrus.Debugf("writing logs to [%s]", lumberJackLogger.Filename)
}

// LogFilePath resolves the log file of a service. A directory gets
// <service>.log inside it, a file name gets the .log suffix when missing.
func LogFilePath(name, service string) string {
	if service == "" {
		service = DefaultService
	}
	if strings.HasSuffix(name, string(os.PathSeparator)) {
		return filepath.Join(name, service+".log")
	}
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return filepath.Join(name, service+".log")
	}
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	return name
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
