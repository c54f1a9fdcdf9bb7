package logging

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultLoggerFactory implements LoggerFactory using zap loggers
type DefaultLoggerFactory struct {
	base    *zap.Logger
	loggers map[string]Logger
	mu      sync.Mutex
}

// NewLoggerFactory creates a new logger factory on top of base
func NewLoggerFactory(base *zap.Logger) *DefaultLoggerFactory {
	return &DefaultLoggerFactory{
		base:    base,
		loggers: make(map[string]Logger),
	}
}

// CreateLogger creates a basic logger for the specified component
func (f *DefaultLoggerFactory) CreateLogger(component string) Logger {
	return f.getOrCreate(component, func() Logger {
		return NewZapLogger(component, f.base)
	})
}

// CreateCommandLogger creates a logger for Discord command operations
func (f *DefaultLoggerFactory) CreateCommandLogger(commandName string) Logger {
	return NewCommandLogger(f.CreateLogger("commands"), commandName)
}

func (f *DefaultLoggerFactory) getOrCreate(component string, create func() Logger) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	logger := create()
	f.loggers[component] = logger
	return logger
}

// DatabaseLoggerFactory extends the default factory with database persistence
type DatabaseLoggerFactory struct {
	*DefaultLoggerFactory
	repository LogRepository
}

// NewDatabaseLoggerFactory creates a logger factory with database persistence
func NewDatabaseLoggerFactory(base *zap.Logger, repository LogRepository) *DatabaseLoggerFactory {
	return &DatabaseLoggerFactory{
		DefaultLoggerFactory: NewLoggerFactory(base),
		repository:           repository,
	}
}

// CreateLogger creates a database-backed logger for the specified component
func (f *DatabaseLoggerFactory) CreateLogger(component string) Logger {
	return f.getOrCreate(component, func() Logger {
		return NewDatabaseLogger(NewZapLogger(component, f.base), component, f.repository)
	})
}

// CreateCommandLogger creates a database-backed logger for Discord command operations
func (f *DatabaseLoggerFactory) CreateCommandLogger(commandName string) Logger {
	return NewCommandLogger(f.CreateLogger("commands"), commandName)
}

// GlobalLoggerFactory provides a singleton logger factory instance
var (
	globalFactory LoggerFactory
	globalMu      sync.RWMutex
)

// GetGlobalLoggerFactory returns the global logger factory instance. Until one is
// set, loggers fall back to a production zap logger.
func GetGlobalLoggerFactory() LoggerFactory {
	globalMu.RLock()
	factory := globalFactory
	globalMu.RUnlock()
	if factory != nil {
		return factory
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalFactory == nil {
		base, err := NewZap(Options{})
		if err != nil {
			base = zap.NewNop()
		}
		globalFactory = NewLoggerFactory(base)
	}
	return globalFactory
}

// SetGlobalLoggerFactory sets the global logger factory (useful for dependency injection)
func SetGlobalLoggerFactory(factory LoggerFactory) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFactory = factory
}
