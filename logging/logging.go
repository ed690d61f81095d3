package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	debugLogger *log.Logger
	logFile     *os.File
	console     io.Writer = os.Stdout
	mu          sync.Mutex
	isSetup     bool

	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// SetupLogger initializes the debug logger with the specified log file
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	debugLogger = log.New(logFile, "", log.LstdFlags)
	debugLogger.Printf("--- handcompare debug log started at %s ---\n", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		debugLogger.Printf("--- handcompare debug log closed at %s ---\n", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		debugLogger = nil
		isSetup = false
	}
}

// SetConsoleOutput redirects console messages, mainly for tests
func SetConsoleOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("INFO: "+format, args...)
	}
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf(format, args...)
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("ERROR: "+format, args...)
	}
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("WARNING: "+format, args...)
	}
}

// Info prints a plain console message and mirrors it to the debug log
func Info(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	fmt.Fprintf(console, format+"\n", args...)
	if debugLogger != nil {
		debugLogger.Printf("INFO: "+format, args...)
	}
}

// Warn prints a highlighted warning on the console and to the debug log
func Warn(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	warnColor.Fprintf(console, "Warning: "+format+"\n", args...)
	if debugLogger != nil {
		debugLogger.Printf("WARNING: "+format, args...)
	}
}

// Success prints a completion message on the console
func Success(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	successColor.Fprintf(console, format+"\n", args...)
	if debugLogger != nil {
		debugLogger.Printf("INFO: "+format, args...)
	}
}

// Error prints a highlighted error on the console and to the debug log
func Error(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	errorColor.Fprintf(console, "Error: "+format+"\n", args...)
	if debugLogger != nil {
		debugLogger.Printf("ERROR: "+format, args...)
	}
}

// LogPairCompared logs the outcome of one comparison
func LogPairCompared(reference, candidate string, success bool, errMsg string) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		if success {
			debugLogger.Printf("COMPARED: %s vs %s", reference, candidate)
		} else {
			debugLogger.Printf("FAILED: %s vs %s - Error: %s", reference, candidate, errMsg)
		}
	}
}
