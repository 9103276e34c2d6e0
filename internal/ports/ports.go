package ports

import (
	"context"
	"time"

	"DocketWatch/internal/dedup"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/scanner"
)

// ReleaseSource retrieves one release for a category.
type ReleaseSource interface {
	Fetch(ctx context.Context, req scanner.Request) (domain.Release, error)
}

// Extractor normalizes raw release content into plain lines.
type Extractor interface {
	Extract(release domain.Release) (domain.NormalizedText, error)
}

// SeenStore persists the SeenSet. Save merges the snapshot's keys into the
// stored set; it never removes or overwrites keys written by other runs.
type SeenStore interface {
	Load(ctx context.Context) (dedup.SeenSet, error)
	Save(ctx context.Context, set dedup.SeenSet) error
}

// Notifier streams digests of new entries to a chat channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
