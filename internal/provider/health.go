package provider

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/chatstack/chatcore/internal/config"
	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
)

// DefaultHealthTimeout bounds every probe; health checks must never hang.
const DefaultHealthTimeout = 10 * time.Second

// Checker probes configured providers for reachability and available
// models. All failures become HealthStatus values, never errors, so
// callers can aggregate statuses without exception handling.
type Checker struct {
	cfg     *config.Config
	timeout time.Duration
}

// NewChecker creates a health checker. A non-positive timeout falls back
// to DefaultHealthTimeout.
func NewChecker(cfg *config.Config, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &Checker{cfg: cfg, timeout: timeout}
}

// Check probes one provider's discovery endpoint and reports the result.
func (c *Checker) Check(ctx context.Context, pt domain.ProviderType) HealthStatus {
	settings, ok := c.cfg.Provider(pt)
	if !ok {
		return HealthStatus{
			Provider:  pt,
			Error:     "provider is not configured",
			ErrorKind: ErrorKindUnexpected,
		}
	}

	status := HealthStatus{
		Provider: pt,
		BaseURL:  settings.BaseURL,
	}

	spec, ok := SpecFor(pt)
	if !ok {
		status.Error = "unknown provider type"
		status.ErrorKind = ErrorKindUnexpected
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	models, err := spec.NewClient(settings, c.timeout).ListModels(ctx)
	elapsed := time.Since(start)

	if err != nil {
		// Any probe failure marks the provider unhealthy; ErrorKind tells
		// callers whether the server rejected us or was unreachable.
		status.Error = err.Error()
		status.ErrorKind = classify(err)
		return status
	}

	status.Connected = true
	status.Metadata = map[string]string{
		"latency_ms":  strconv.FormatInt(elapsed.Milliseconds(), 10),
		"model_count": strconv.Itoa(len(models)),
	}
	if len(models) > 0 {
		status.ModelDetected = true
		status.ModelID = models[0].ID
	}
	return status
}

// CheckAll probes every known provider in priority order.
func (c *Checker) CheckAll(ctx context.Context) []HealthStatus {
	statuses := make([]HealthStatus, 0, len(domain.KnownProviders))
	for _, pt := range domain.KnownProviders {
		statuses = append(statuses, c.Check(ctx, pt))
	}
	return statuses
}

// classify maps a probe failure to an ErrorKind.
func classify(err error) ErrorKind {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return ErrorKindHTTPStatus
	}
	var protoErr *llm.ProtocolError
	if errors.As(err, &protoErr) {
		return ErrorKindProtocol
	}
	var transportErr *llm.TransportError
	if errors.As(err, &transportErr) {
		return ErrorKindTransport
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorKindTransport
	}
	return ErrorKindUnexpected
}
