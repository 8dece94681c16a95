package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	// Create logger
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewDiscard returns a logger that drops everything. Used by tests.
func NewDiscard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithActor adds the acting staff/customer id to logger context
func (l *Logger) WithActor(actorID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("actor_id", actorID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogSeatsReserved logs a successful capacity reservation
func (l *Logger) LogSeatsReserved(ctx context.Context, departureID string, pax, bookedCount, quota int) {
	l.Logger.InfoContext(ctx,
		"Seats Reserved",
		slog.String("departure_id", departureID),
		slog.Int("pax", pax),
		slog.Int("booked_count", bookedCount),
		slog.Int("quota", quota),
	)
}

// LogSeatsReleased logs a capacity release
func (l *Logger) LogSeatsReleased(ctx context.Context, departureID string, pax, bookedCount int) {
	l.Logger.InfoContext(ctx,
		"Seats Released",
		slog.String("departure_id", departureID),
		slog.Int("pax", pax),
		slog.Int("booked_count", bookedCount),
	)
}

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, departureID string, pax int) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("departure_id", departureID),
		slog.Int("pax", pax),
	)
}

// LogBookingTransition logs a booking status change
func (l *Logger) LogBookingTransition(ctx context.Context, bookingID, from, to, event string) {
	l.Logger.InfoContext(ctx,
		"Booking Transition",
		slog.String("booking_id", bookingID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("event", event),
	)
}

// LogPaymentVerified logs a payment verification outcome
func (l *Logger) LogPaymentVerified(ctx context.Context, paymentID, bookingID, outcome, paid, remaining string) {
	l.Logger.InfoContext(ctx,
		"Payment Verified",
		slog.String("payment_id", paymentID),
		slog.String("booking_id", bookingID),
		slog.String("outcome", outcome),
		slog.String("paid_amount", paid),
		slog.String("remaining_amount", remaining),
	)
}

// Persistence logging methods

// LogRetry logs a retried persistence conflict
func (l *Logger) LogRetry(ctx context.Context, attempt int, err error) {
	l.Logger.WarnContext(ctx,
		"Persistence Conflict Retry",
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

// Security logging methods

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
