// Package log contains the Logger used by the whole module. The Logger is a wrapper around zap.SugaredLogger.
// There should be a single root Logger, created in main and injected into anything that needs to log.
// Components derive their own child with Named.
package log
