// Package service implements the scrape runner: fetch each vendor page,
// extract and normalize its lifecycle rows, diff against the prior snapshot,
// and republish the feed, the CSV exports, and the change archive when
// anything moved
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"modelwatch/internal/adapters/csvout"
	"modelwatch/internal/adapters/rss"
	"modelwatch/internal/core/dedupe"
	"modelwatch/internal/core/diff"
	"modelwatch/internal/core/feed"
	"modelwatch/internal/core/normalize"
	"modelwatch/internal/core/record"
	"modelwatch/internal/core/sources"
	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/fs"
	"modelwatch/internal/platform/logger"
	"modelwatch/internal/services/scrape/domain"
)

// Config holds the runner knobs
type Config struct {
	// OutDir receives feed.xml and one CSV export per source
	OutDir string

	// FeedFile is the feed name inside OutDir, defaults to feed.xml
	FeedFile string

	// MaxEntries caps the feed after fresh entries are prepended, zero keeps all
	MaxEntries int

	// Channel is the feed channel metadata
	Channel rss.Channel
}

// Service implements the scrape runner
type Service struct {
	Registry *sources.Registry
	Fetch    domain.Fetcher
	Extract  domain.Extractor
	Snaps    domain.SnapshotStore
	Archive  domain.Archiver
	Cfg      Config

	now      func() time.Time
	newRunID func() string
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the runner. Registry, fetcher, extractor and snapshot store
// are required; the archiver may be nil when no archive is configured
func New(
	reg *sources.Registry,
	f domain.Fetcher,
	ex domain.Extractor,
	snaps domain.SnapshotStore,
	arch domain.Archiver,
	cfg Config,
) *Service {
	if reg == nil {
		panic("scrape.Service requires a source registry")
	}
	if f == nil {
		panic("scrape.Service requires a Fetcher")
	}
	if ex == nil {
		panic("scrape.Service requires an Extractor")
	}
	if snaps == nil {
		panic("scrape.Service requires a snapshot store")
	}
	if cfg.FeedFile == "" {
		cfg.FeedFile = "feed.xml"
	}
	return &Service{
		Registry: reg,
		Fetch:    f,
		Extract:  ex,
		Snaps:    snaps,
		Archive:  arch,
		Cfg:      cfg,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// scraped is one source's outcome, held until the emit phase
type scraped struct {
	src     *sources.Source
	next    *record.Set
	events  []diff.Event
	dropped int
}

// Run scrapes every source (or the named subset), diffs each against its
// prior snapshot, and republishes the artifacts. The feed is rewritten only
// when something changed, so a quiet run leaves it byte identical; the CSV
// exports and snapshots are refreshed every run regardless, which is how a
// record the vendor removed (no event by design) leaves the snapshot.
// Snapshots are saved last; a failed emit never advances the baseline, the
// next run re-detects the same changes
func (s *Service) Run(ctx context.Context, only []string) (*domain.RunReport, error) {
	names, err := s.pickSources(only)
	if err != nil {
		return nil, err
	}

	report := &domain.RunReport{RunID: s.newRunID(), StartedAt: s.now().UTC()}
	defer func() { report.FinishedAt = s.now().UTC() }()
	ctx = logger.WithRun(ctx, report.RunID)

	if err := s.prepare(ctx); err != nil {
		return report, err
	}

	results := make([]scraped, 0, len(names))
	for _, name := range names {
		src, _ := s.Registry.Get(name)
		sctx := logger.WithSource(ctx, name)

		out, err := s.scrapeSource(sctx, src)
		if err != nil {
			logger.C(sctx).Error().Err(err).Msg("scrape: source failed")
			report.Failures = append(report.Failures, domain.SourceFailure{Source: name, Err: err.Error()})
			continue
		}

		res := domain.SourceResult{Source: name, Records: out.next.Len(), Dropped: out.dropped}
		for _, ev := range out.events {
			switch ev.Kind {
			case diff.KindNew:
				res.New++
			case diff.KindUpdated:
				res.Updated++
			case diff.KindBaseline:
				res.Baseline = true
			}
		}
		report.Sources = append(report.Sources, res)
		report.Events += len(out.events)
		results = append(results, out)
	}

	if len(results) == 0 {
		return report, perr.Unavailablef("scrape: every source failed, nothing extracted")
	}

	if report.Events == 0 {
		logger.C(ctx).Info().Msg("no changes detected")
	} else {
		if err := s.writeFeed(ctx, results); err != nil {
			return report, err
		}
		report.FeedWrote = true
	}

	at := s.now().UTC()
	for _, r := range results {
		sctx := logger.WithSource(ctx, r.src.Name)
		if err := s.emitSource(sctx, report.RunID, at, r); err != nil {
			logger.C(sctx).Error().Err(err).Msg("scrape: emit failed, snapshot not advanced")
			report.Failures = append(report.Failures, domain.SourceFailure{Source: r.src.Name, Err: err.Error()})
		}
	}

	logger.C(ctx).Info().
		Int("sources", len(results)).
		Int("events", report.Events).
		Int("failures", len(report.Failures)).
		Msg("scrape: run complete")
	return report, nil
}

// pickSources resolves the run's source list in registry order. Unknown
// names in only are an error, a typo must not silently scrape nothing
func (s *Service) pickSources(only []string) ([]string, error) {
	names := s.Registry.Names()
	if len(only) == 0 {
		return names, nil
	}

	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	want := make(map[string]bool, len(only))
	for _, n := range only {
		n = strings.ToLower(strings.TrimSpace(n))
		if !known[n] {
			return nil, perr.InvalidArgf("unknown source %q", n)
		}
		want[n] = true
	}

	picked := make([]string, 0, len(want))
	for _, n := range names {
		if want[n] {
			picked = append(picked, n)
		}
	}
	return picked, nil
}

// prepare bootstraps backing storage for stores that need it
func (s *Service) prepare(ctx context.Context) error {
	if p, ok := s.Snaps.(domain.Preparer); ok {
		if err := p.Ensure(ctx); err != nil {
			return err
		}
	}
	if s.Archive != nil && s.Archive.Enabled() {
		if err := s.Archive.Ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

// scrapeSource runs the fetch, extract, normalize, diff pipeline for one
// source. Zero surviving records is an error: a page redesign that yields an
// empty table must not wipe an established snapshot and re-baseline the world
// on the next good run
func (s *Service) scrapeSource(ctx context.Context, src *sources.Source) (scraped, error) {
	content, err := s.Fetch.Page(ctx, src.URL)
	if err != nil {
		return scraped{}, err
	}

	rows, err := s.Extract.Extract(content, src.Extract)
	if err != nil {
		return scraped{}, err
	}

	records, dropped := s.buildRecords(ctx, src, rows)
	next := dedupe.Collapse(records)
	if next.Len() == 0 {
		return scraped{}, perr.Extractf("scrape: %s produced no records", src.Name)
	}

	prior, err := s.Snaps.Load(ctx, src.Name, src.Scheme)
	if err != nil {
		return scraped{}, err
	}

	events := diff.New(src.Compare).Diff(prior, next)
	logger.C(ctx).Info().
		Int("rows", len(rows)).
		Int("records", next.Len()).
		Int("dropped", dropped).
		Int("events", len(events)).
		Msg("scrape: source done")
	return scraped{src: src, next: next, events: events, dropped: dropped}, nil
}

// buildRecords normalizes raw rows into canonical records. Rows that drop
// out are counted and logged, a bad row must not abort the source
func (s *Service) buildRecords(ctx context.Context, src *sources.Source, rows []record.RawRow) ([]record.Record, int) {
	out := make([]record.Record, 0, len(rows))
	dropped := 0
	for _, raw := range rows {
		r, err := buildRecord(src, raw)
		if err != nil {
			dropped++
			logger.C(ctx).Warn().Err(err).
				Str("model", raw.Get(record.FieldModelName)).
				Msg("scrape: row dropped")
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}

// buildRecord turns one raw row into a canonical record. The model name is
// normalized before identity is computed so a vendor reshuffling date stamped
// aliases does not mint a new identity; a row without a model name or without
// a parseable retirement date is dropped
func buildRecord(src *sources.Source, raw record.RawRow) (record.Record, error) {
	r := record.Record{
		Source:      src.Name,
		Type:        raw.Get(record.FieldType),
		ModelName:   normalize.ModelName(raw.Get(record.FieldModelName)),
		Version:     raw.Get(record.FieldVersion),
		Lifecycle:   raw.Get(record.FieldLifecycle),
		Replacement: raw.Get(record.FieldReplacement),
	}
	if r.ModelName == "" {
		return record.Record{}, perr.Extractf("row has no model name")
	}

	ret, ok := normalize.Date(raw.Get(record.FieldRetirement))
	if !ok {
		return record.Record{}, perr.Extractf("unparseable retirement date %q", raw.Get(record.FieldRetirement))
	}
	r.Retirement = ret

	// Deprecation is informational; free text that never parses stays empty
	if dep := raw.Get(record.FieldDeprecation); dep != "" {
		if d, ok := normalize.Date(dep); ok {
			r.Deprecation = d
		}
	}

	id, err := src.Scheme.IdentityOf(r)
	if err != nil {
		return record.Record{}, err
	}
	r.Identity = id
	return r, nil
}

// writeFeed reassembles the feed from fresh events plus the entries already
// on disk. A feed that cannot be written fails the run before any snapshot
// advances
func (s *Service) writeFeed(ctx context.Context, results []scraped) error {
	prior := s.readFeed(ctx)

	asm := feed.New(feed.Options{
		MaxEntries: s.Cfg.MaxEntries,
		Link:       s.entryLink,
		Now:        s.now,
	})
	var events []diff.Event
	for _, r := range results {
		events = append(events, r.events...)
	}
	entries := asm.Assemble(events, prior)

	b, err := rss.Marshal(s.Cfg.Channel, entries, s.now().UTC())
	if err != nil {
		return err
	}
	return fs.WriteAtomic(s.feedPath(), b, 0o644)
}

// readFeed loads the entries currently on disk. A missing or unreadable feed
// starts fresh, the artifact is derived state
func (s *Service) readFeed(ctx context.Context) []feed.Entry {
	b, err := os.ReadFile(s.feedPath())
	if err != nil {
		if !os.IsNotExist(err) {
			logger.C(ctx).Warn().Err(err).Msg("scrape: existing feed unreadable, starting fresh")
		}
		return nil
	}
	entries, err := rss.Parse(b)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("scrape: existing feed unparseable, starting fresh")
		return nil
	}
	return entries
}

// entryLink resolves the feed link for an event from its record's source.
// Multi-tab pages deep-link the tab the record came from
func (s *Service) entryLink(ev diff.Event) string {
	var r record.Record
	switch {
	case ev.Current != nil:
		r = *ev.Current
	case len(ev.Records) > 0:
		r = ev.Records[0]
	default:
		return ""
	}
	src, ok := s.Registry.Get(r.Source)
	if !ok {
		return ""
	}
	return src.LinkFor(r.Type)
}

// emitSource writes the source's CSV export, archives its events, then saves
// the snapshot. Save comes last so a partial emit leaves the old baseline in
// place
func (s *Service) emitSource(ctx context.Context, runID string, at time.Time, r scraped) error {
	path := filepath.Join(s.Cfg.OutDir, r.src.Name+".csv")
	if err := csvout.WriteFile(path, r.src.Columns, r.next.Records()); err != nil {
		return err
	}
	if s.Archive != nil && s.Archive.Enabled() && len(r.events) > 0 {
		if err := s.Archive.Archive(ctx, runID, r.src.Name, at, r.events); err != nil {
			return err
		}
	}
	return s.Snaps.Save(ctx, r.src.Name, r.next)
}

func (s *Service) feedPath() string { return filepath.Join(s.Cfg.OutDir, s.Cfg.FeedFile) }
