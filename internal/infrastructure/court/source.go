package court

import (
	"context"
	"fmt"
	"log/slog"

	"DocketWatch/internal/domain"
	"DocketWatch/internal/ports"
	"DocketWatch/internal/scanner"
)

// Source implements ports.ReleaseSource via registered scanner strategies.
type Source struct {
	registry *scanner.Registry
	logger   *slog.Logger
}

var _ ports.ReleaseSource = (*Source)(nil)

// NewSource wires a scanner registry.
func NewSource(reg *scanner.Registry, log *slog.Logger) *Source {
	return &Source{registry: reg, logger: withComponent(log, "source")}
}

// NewDefaultRegistry registers the three court strategies against one client.
func NewDefaultRegistry(client *Client, log *slog.Logger) *scanner.Registry {
	log = withComponent(log, "scanner")
	reg := scanner.NewRegistry()
	reg.Register(NewOrdersScanner(client, log))
	reg.Register(NewSlipOpinionsScanner(client, log))
	reg.Register(NewRelatingOpinionsScanner(client, log))
	return reg
}

// Fetch resolves the category strategy and returns a release with content.
func (s *Source) Fetch(ctx context.Context, req scanner.Request) (domain.Release, error) {
	if s.registry == nil {
		return domain.Release{}, fmt.Errorf("scanner registry is not configured")
	}

	strategy, err := s.registry.Resolve(req.Category)
	if err != nil {
		return domain.Release{}, err
	}

	s.debug("fetch release", "category", req.Category, "index", req.Index, "url", req.URL, "term", req.Term)
	release, err := strategy.Fetch(ctx, req)
	if err != nil {
		return domain.Release{}, err
	}
	if len(release.Content) == 0 {
		return domain.Release{}, domain.Unavailable(release.Source, fmt.Errorf("empty content"))
	}

	s.debug("release fetched", "source", release.Source, "title", release.Title, "bytes", len(release.Content))
	return release, nil
}

func (s *Source) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func withComponent(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		return nil
	}
	return log.With("component", name)
}
