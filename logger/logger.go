package logger

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

/*
* Configure the process-wide logrus logger
* Format is json unless "text" is asked for
* Unknown levels fall back to info
 */
func Init(level string, format string) {
	log.SetOutput(os.Stdout)
	if strings.EqualFold(format, "text") {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	if level == "" {
		level = "info"
	}
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)
}

func WithField(key string, value interface{}) *log.Entry {
	return log.WithField(key, value)
}

func WithFields(fields log.Fields) *log.Entry {
	return log.WithFields(fields)
}
