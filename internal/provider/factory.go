package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatstack/chatcore/internal/config"
	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
)

// Handle is a resolved, ready-to-use model binding.
type Handle struct {
	Provider domain.ProviderType
	BaseURL  string
	Model    string
	Client   llm.Client
}

// Factory resolves logical provider names to configured clients. The
// explicit-provider/explicit-model path is synchronous and performs no
// network I/O; only ResolveAuto and DetectModel probe backends.
type Factory struct {
	cfg     *config.Config
	checker *Checker
	timeout time.Duration
}

// NewFactory creates a provider factory.
func NewFactory(cfg *config.Config, checker *Checker) *Factory {
	return &Factory{
		cfg:     cfg,
		checker: checker,
		timeout: cfg.LLMTimeout,
	}
}

// Resolve builds a handle for an explicit provider. The model falls back
// to the provider's configured default; an empty model on a provider with
// no default is a configuration error, since this path must not perform
// discovery I/O.
func (f *Factory) Resolve(name string, model string) (*Handle, error) {
	pt := domain.ProviderType(strings.ToLower(strings.TrimSpace(name)))
	if pt == domain.ProviderAuto {
		return nil, configErrorf("provider %q requires asynchronous resolution, use ResolveAuto", name)
	}

	spec, ok := SpecFor(pt)
	if !ok {
		return nil, configErrorf("unknown provider %q", name)
	}

	settings, ok := f.cfg.Provider(pt)
	if !ok {
		return nil, configErrorf("provider %q is not configured", name)
	}
	if spec.RequiresKey && settings.APIKey == "" {
		return nil, configErrorf("provider %q requires an API key", name)
	}

	if model == "" {
		model = settings.Model
	}
	if model == "" {
		return nil, configErrorf("provider %q has no default model configured; pass a model or use DetectModel", name)
	}

	return &Handle{
		Provider: pt,
		BaseURL:  settings.BaseURL,
		Model:    model,
		Client:   spec.NewClient(settings, f.timeout),
	}, nil
}

// DetectModel resolves a provider's model by discovery. An empty discovery
// result is a hard error: the caller must be told to provision a model
// rather than receive a degraded default.
func (f *Factory) DetectModel(ctx context.Context, name string) (*Handle, error) {
	pt := domain.ProviderType(strings.ToLower(strings.TrimSpace(name)))
	spec, ok := SpecFor(pt)
	if !ok {
		return nil, configErrorf("unknown provider %q", name)
	}

	settings, ok := f.cfg.Provider(pt)
	if !ok {
		return nil, configErrorf("provider %q is not configured", name)
	}

	client := spec.NewClient(settings, f.timeout)
	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("model discovery for %s failed: %w", pt, err)
	}
	if len(models) == 0 {
		return nil, configErrorf("provider %q has no models available; provision one before use", name)
	}

	return &Handle{
		Provider: pt,
		BaseURL:  settings.BaseURL,
		Model:    models[0].ID,
		Client:   client,
	}, nil
}

// ResolveAuto probes configured providers in priority order and binds the
// first one that is connected with a detected model. When none qualify it
// fails with a configuration error naming every attempted provider and
// its individual failure; it never returns a non-functional handle.
func (f *Factory) ResolveAuto(ctx context.Context) (*Handle, error) {
	var attempts []string

	for _, pt := range domain.KnownProviders {
		settings, ok := f.cfg.Provider(pt)
		if !ok {
			continue
		}
		spec, _ := SpecFor(pt)
		if spec.RequiresKey && settings.APIKey == "" {
			attempts = append(attempts, fmt.Sprintf("%s: no API key configured", pt))
			continue
		}

		status := f.checker.Check(ctx, pt)
		switch {
		case !status.Connected:
			attempts = append(attempts, fmt.Sprintf("%s: %s", pt, status.Error))
		case !status.ModelDetected:
			attempts = append(attempts, fmt.Sprintf("%s: reachable but no models available", pt))
		default:
			model := settings.Model
			if model == "" {
				model = status.ModelID
			}
			return &Handle{
				Provider: pt,
				BaseURL:  settings.BaseURL,
				Model:    model,
				Client:   spec.NewClient(settings, f.timeout),
			}, nil
		}
	}

	return nil, configErrorf("no LLM backend available; attempted: %s", strings.Join(attempts, "; "))
}

// ResolveRequest dispatches on the name: "auto" (or empty, when the
// configured default is auto) probes backends, anything else resolves
// synchronously.
func (f *Factory) ResolveRequest(ctx context.Context, name, model string) (*Handle, error) {
	if name == "" {
		name = f.cfg.DefaultProvider
	}
	if domain.ProviderType(strings.ToLower(name)) == domain.ProviderAuto {
		return f.ResolveAuto(ctx)
	}
	if model == "" {
		if settings, ok := f.cfg.Provider(domain.ProviderType(strings.ToLower(name))); ok && settings.Model == "" {
			return f.DetectModel(ctx, name)
		}
	}
	return f.Resolve(name, model)
}
