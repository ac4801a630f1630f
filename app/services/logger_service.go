package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

// LoggerService handles application logging: a daily-rotated file in
// the user config directory plus stdout. It also installs itself as
// the output of the stdlib logger, so package-level log.Printf calls
// end up in the same file.
type LoggerService struct {
	logDir     string
	logFile    *os.File
	logger     *log.Logger
	currentDay string
}

// NewLoggerService creates a new logger service.
func NewLoggerService() *LoggerService {
	service := &LoggerService{}
	service.initializeLogger()
	return service
}

func (s *LoggerService) initializeLogger() error {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: Could not get home directory: %v", err)
			s.logDir = "logs"
		} else {
			appData = filepath.Join(homeDir, ".config")
		}
	}

	if appData != "" {
		s.logDir = filepath.Join(appData, "CounterPOS", "logs")
	} else {
		s.logDir = "logs"
	}

	if err := os.MkdirAll(s.logDir, 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
		s.logDir = "logs"
		os.MkdirAll(s.logDir, 0755)
	}

	if err := s.rotateLogFile(); err != nil {
		log.Printf("Warning: Could not create log file: %v. Logging to stdout only.", err)
		s.logger = log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile)
		log.SetOutput(os.Stdout)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		return nil
	}

	multiWriter := io.MultiWriter(os.Stdout, s.logFile)
	s.logger = log.New(multiWriter, "", log.LstdFlags|log.Lshortfile)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	s.LogInfo("Logger initialized", fmt.Sprintf("Log directory: %s", s.logDir))
	return nil
}

// rotateLogFile creates a new log file for the current day.
func (s *LoggerService) rotateLogFile() error {
	now := time.Now()
	today := now.Format("2006-01-02")

	if s.currentDay == today && s.logFile != nil {
		return nil
	}

	if s.logFile != nil {
		s.logFile.Close()
	}

	logFilePath := filepath.Join(s.logDir, fmt.Sprintf("%s.log", today))
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	s.logFile = file
	s.currentDay = today
	return nil
}

// LogInfo logs an informational message.
func (s *LoggerService) LogInfo(message string, details ...string) {
	s.checkAndRotate()
	detailStr := ""
	if len(details) > 0 {
		detailStr = " | " + details[0]
	}
	s.logger.Printf("[INFO] %s%s", message, detailStr)
}

// LogWarning logs a warning message.
func (s *LoggerService) LogWarning(message string, details ...string) {
	s.checkAndRotate()
	detailStr := ""
	if len(details) > 0 {
		detailStr = " | " + details[0]
	}
	s.logger.Printf("[WARNING] %s%s", message, detailStr)
}

// LogError logs an error message.
func (s *LoggerService) LogError(message string, err error) {
	s.checkAndRotate()
	errorStr := ""
	if err != nil {
		errorStr = fmt.Sprintf(" | Error: %v", err)
	}
	s.logger.Printf("[ERROR] %s%s", message, errorStr)
}

// LogPanic logs a recovered panic with its stack trace.
func (s *LoggerService) LogPanic(recovered interface{}) {
	s.checkAndRotate()
	s.logger.Printf("[PANIC] Recovered from panic: %v", recovered)
	s.logger.Printf("[PANIC] Stack trace:\n%s", string(debug.Stack()))
}

// checkAndRotate rotates to a new day's log file when needed.
func (s *LoggerService) checkAndRotate() {
	today := time.Now().Format("2006-01-02")
	if s.currentDay != today {
		s.rotateLogFile()
		if s.logFile != nil {
			multiWriter := io.MultiWriter(os.Stdout, s.logFile)
			s.logger.SetOutput(multiWriter)
			log.SetOutput(multiWriter)
		}
	}
}

// Close closes the log file.
func (s *LoggerService) Close() {
	if s.logFile != nil {
		s.logFile.Close()
	}
}

// RecoverPanic is a helper to recover from panics in goroutines.
func (s *LoggerService) RecoverPanic() {
	if r := recover(); r != nil {
		s.LogPanic(r)
	}
}
