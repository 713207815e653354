// Package logger builds context-aware slog loggers for the toolkit.
//
// New creates a *slog.Logger from functional options: output format (text or
// json), minimum level, static attributes, and ContextExtractor callbacks
// that pull request-scoped values out of a context on every log call.
// NewFromConfig does the same from an environment-driven Config.
//
// Attribute constructors (Error, UserID, RequestID, Path, ...) keep field
// naming consistent across packages:
//
//	log.InfoContext(ctx, "identity revalidated",
//	    logger.UserID(id.ID),
//	    logger.Duration(time.Since(start)),
//	)
package logger
