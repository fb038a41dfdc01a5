package common

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else if log.GetLevel() == log.DebugLevel {
		log.SetLevel(log.InfoLevel)
	}
}

// ConfigureLogging sets the log level by name and, when file is not empty,
// appends log output to that file instead of stderr.
func ConfigureLogging(level, file string) error {
	if level != "" {
		ll, err := log.ParseLevel(level)
		if err != nil {
			return FormatError(ErrInvalidLogLevel, err)
		}
		log.SetLevel(ll)
		VerboseMode = ll >= log.DebugLevel
	}
	if file != "" {
		fd, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return FormatError(ErrFailedToOpenLogFile, err)
		}
		log.SetOutput(fd)
	}
	return nil
}

// Error messages
const (
	ErrFailedToOpenImage        = "failed to open disc image"
	ErrFailedToReadSector       = "failed to read sector"
	ErrFailedToLoadCatalog      = "failed to load disc catalog"
	ErrFailedToParseCatalog     = "failed to parse disc catalog"
	ErrFailedToLoadConfig       = "failed to load config"
	ErrFailedToOpenLogFile      = "failed to open log file"
	ErrFailedToParseItem        = "failed to parse play item"
	ErrFailedToStartPlayback    = "failed to start playback"
	ErrFailedToCreateOutputFile = "failed to create output file"
	ErrFailedToWriteStream      = "failed to write stream data"
	ErrInvalidLogLevel          = "invalid log level"
	ErrImageSizeNotAligned      = "image size is not a multiple of a known sector size"
	ErrRefusingTerminalOutput   = "refusing to write MPEG data to a terminal, use --output"
	ErrServingRequest           = "Error serving %s: %v"
	ErrRunningServer            = "failed to run HTTP server"
)

// Info messages
const (
	InfoImageOpened       = "Opened disc image %s (%d sectors of %d bytes)"
	InfoCatalogLoaded     = "Loaded catalog: %d tracks, %d entries, %d segments, %d LIDs"
	InfoPlaybackStarted   = "Playing %s"
	InfoPlaybackFinished  = "Playback finished, %s written"
	InfoServerListening   = "Now accepting HTTP connections on %v"
	InfoStillFrame        = "Holding still frame for %v"
	InfoStillFrameForever = "Holding still frame until interrupted"
	InfoStreamStarted     = "Streaming to %s"
	InfoStreamFinished    = "Stream to %s closed after %s"
)

// Debug messages
const (
	DebugSetOrigin        = "origin %d, lsn %d, end %d, track %d"
	DebugEndOfItem        = "end of item reached at lsn %d"
	DebugEntryContinues   = "continuing into next entry %d"
	DebugLoopReplay       = "loop %d of %d, replaying %s"
	DebugTimeoutJump      = "timeout to LID %d"
	DebugRandomSelection  = "random selection %d, LID %d"
	DebugPlayListItem     = "play list item %d of %d: %s"
	DebugPlayListWait     = "play list wait time %d"
	DebugSelectionWait    = "selection list timeout time %d"
	DebugEnterLID         = "entering LID %d (%s)"
	DebugNewEntry         = "new entry %d at lsn %d"
	DebugSeek             = "seek offset %d, origin %d, lsn %d, entry %d"
	DebugPaddingSector    = "skipping padding sector %d"
	DebugNavigation       = "navigation %s -> %s"
	DebugStreamerCommand  = "streamer command %s"
	DebugStreamerIdle     = "streamer idle after %s"
	DebugImageReadSector  = "reading LSN %d at offset %d"
	DebugImageRegistered  = "log handler registered"
	DebugCatalogLIDParsed = "LID %d parsed as %s"
)

// Warning messages
const (
	WarnCouldNotReadLSN        = "Could not read LSN %d: %v"
	WarnUnknownLogLevel        = "The above message had unknown log level %d"
	WarnCommandListUnsupported = "Command list at LID %d is not supported"
	WarnSelectionFallback      = "Selection list at LID %d has no timeout or selection, holding still"
	WarnMalformedTarget        = "LID %d points at invalid LID %d (%s)"
	WarnHopLimit               = "navigation exceeded %d hops starting at LID %d"
	WarnSkippingBadSector      = "Skipping bad sector %d"
	WarnStreamBusy             = "Rejecting stream request from %s, a stream is already open"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Infof(message, args...)
	} else {
		log.Info(message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Warnf(message, args...)
	} else {
		log.Warn(message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Errorf(message, args...)
	} else {
		log.Error(message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Debugf(message, args...)
	} else {
		log.Debug(message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
