package articles

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-richtext/internal/identity"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/markup"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// Service is the articles API used by the importer, the migrator, the command
// handlers and the editor write path.
type Service interface {
	interfaces.ContentFetcher
	interfaces.ContentStore

	// Normalize fetches the payload stored for slug, runs it through the
	// normalizer and persists the canonical result. Nothing is normalized when
	// the fetch fails.
	Normalize(ctx context.Context, slug string) (*Article, error)
	Get(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
	// Save is the editor write path. The body must already be canonical and
	// is stored as-is.
	Save(ctx context.Context, req SaveRequest) (*Article, error)
	// Ingest stores a raw payload, creating the article or replacing its
	// source. Payloads with an unchanged checksum are left alone.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
	Delete(ctx context.Context, slug string) error
}

// SaveRequest carries an editor update.
type SaveRequest struct {
	Slug  string
	Title *string
	Body  string
}

// IngestRequest carries a raw payload from an external source.
type IngestRequest struct {
	Slug     string
	Locale   string
	Title    string
	Summary  string
	Source   string
	Metadata map[string]any
	// Revision identifies the whole input the payload came from, such as a
	// file checksum covering front matter. Set, it is stored under
	// MetadataRevision and a changed revision counts as an update even when
	// Source is identical.
	Revision string
}

// IngestAction reports what Ingest did with a payload.
type IngestAction string

const (
	IngestCreated   IngestAction = "created"
	IngestUpdated   IngestAction = "updated"
	IngestUnchanged IngestAction = "unchanged"
)

// IngestResult is the outcome of a single Ingest call.
type IngestResult struct {
	Article *Article
	Action  IngestAction
}

const defaultSummaryLength = 160

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithNormalizer replaces the markup pipeline used by Normalize.
func WithNormalizer(normalizer interfaces.Normalizer) ServiceOption {
	return func(s *service) {
		if normalizer != nil {
			s.normalizer = normalizer
		}
	}
}

// WithLogger sets the logger used for service events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithDefaultLocale sets the locale given to ingested articles without one.
func WithDefaultLocale(locale string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			s.defaultLocale = trimmed
		}
	}
}

// WithSummaryLength caps derived summaries, in runes. Zero disables them.
func WithSummaryLength(length int) ServiceOption {
	return func(s *service) {
		if length < 0 {
			length = 0
		}
		s.summaryLength = length
	}
}

type service struct {
	articles      Repository
	normalizer    interfaces.Normalizer
	logger        interfaces.Logger
	now           func() time.Time
	defaultLocale string
	summaryLength int
}

// NewService wires a Service over repo.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		articles:      repo,
		normalizer:    markup.Pipeline{},
		logger:        logging.ArticlesLogger(nil),
		now:           time.Now,
		defaultLocale: "en",
		summaryLength: defaultSummaryLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the payload stored for slug.
func (s *service) Fetch(ctx context.Context, slug string) (string, error) {
	record, err := s.fetch(ctx, slug)
	if err != nil {
		return "", err
	}
	return record.Payload(), nil
}

func (s *service) fetch(ctx context.Context, slug string) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := NormalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	return s.articles.GetBySlug(ctx, key)
}

func (s *service) Normalize(ctx context.Context, slug string) (*Article, error) {
	record, err := s.fetch(ctx, slug)
	if err != nil {
		s.logger.Debug("article.normalize.fetch_failed", "slug", slug, "error", err)
		return nil, err
	}

	logger := logging.WithArticleContext(s.logger.WithContext(ctx), record.Slug, record.Locale, "normalize")
	wasCanonical := record.IsCanonical()
	raw := record.Payload()
	started := s.now()
	canonical := s.normalizer.Normalize(raw)

	updated, err := s.store(ctx, record, canonical, true)
	if err != nil {
		logger.Error("article.normalize.store_failed", "error", err)
		return nil, err
	}
	logger.Info("article.normalized",
		"was_canonical", wasCanonical,
		"bytes_in", len(raw),
		"bytes_out", len(canonical),
		"duration", s.now().Sub(started),
	)
	return updated, nil
}

// StoreCanonical persists canonical markup under slug without running the
// pipeline.
func (s *service) StoreCanonical(ctx context.Context, slug, canonical string) error {
	_, err := s.Save(ctx, SaveRequest{Slug: slug, Body: canonical})
	return err
}

func (s *service) Get(ctx context.Context, slug string) (*Article, error) {
	return s.fetch(ctx, slug)
}

func (s *service) List(ctx context.Context) ([]*Article, error) {
	return s.articles.List(ctx)
}

func (s *service) Save(ctx context.Context, req SaveRequest) (*Article, error) {
	if !isCanonicalBody(req.Body) {
		return nil, ErrBodyNotCanonical
	}
	record, err := s.fetch(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		record.Title = strings.TrimSpace(*req.Title)
	}
	updated, err := s.store(ctx, record, req.Body, false)
	if err != nil {
		return nil, err
	}
	logging.WithArticleContext(s.logger.WithContext(ctx), updated.Slug, updated.Locale, "save").Info("article.saved")
	return updated, nil
}

func (s *service) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := NormalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Source) == "" {
		return nil, ErrSourceRequired
	}

	checksum := Checksum(req.Source)
	logger := logging.WithArticleContext(s.logger.WithContext(ctx), key, req.Locale, "ingest")

	existing, err := s.articles.GetBySlug(ctx, key)
	switch {
	case err == nil:
		if existing.SameRevision(checksum, strings.TrimSpace(req.Revision)) {
			logger.Debug("article.ingest.unchanged")
			return &IngestResult{Article: existing, Action: IngestUnchanged}, nil
		}
		s.applySource(existing, req, checksum)
		existing.UpdatedAt = s.now()
		updated, err := s.articles.Update(ctx, existing)
		if err != nil {
			return nil, err
		}
		logger.Info("article.ingest.updated", "format", updated.Format)
		return &IngestResult{Article: updated, Action: IngestUpdated}, nil
	case IsNotFound(err):
	default:
		return nil, err
	}

	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = s.defaultLocale
	}
	now := s.now()
	record := &Article{
		ID:        identity.ArticleUUID(locale, key),
		Slug:      key,
		Locale:    locale,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applySource(record, req, checksum)

	created, err := s.articles.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	logger.Info("article.ingest.created", "format", created.Format)
	return &IngestResult{Article: created, Action: IngestCreated}, nil
}

func (s *service) Delete(ctx context.Context, slug string) error {
	record, err := s.fetch(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, record.ID); err != nil {
		return err
	}
	logging.WithArticleContext(s.logger.WithContext(ctx), record.Slug, record.Locale, "delete").Info("article.deleted")
	return nil
}

// applySource replaces the payload of record. A canonical payload is stored
// as the body directly; anything else waits for normalization.
func (s *service) applySource(record *Article, req IngestRequest, checksum string) {
	record.Source = req.Source
	record.Checksum = checksum
	record.Summary = strings.TrimSpace(req.Summary)
	record.NormalizedAt = nil
	if markup.IsCanonical(req.Source) {
		record.Format = FormatCanonical
		record.Body = req.Source
	} else {
		record.Format = FormatLegacy
		record.Body = ""
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		record.Title = title
	}
	if req.Metadata != nil {
		record.Metadata = req.Metadata
	}
	if revision := strings.TrimSpace(req.Revision); revision != "" {
		record.Metadata = maps.Clone(record.Metadata)
		if record.Metadata == nil {
			record.Metadata = map[string]any{}
		}
		record.Metadata[MetadataRevision] = revision
	}
	if locale := strings.TrimSpace(req.Locale); locale != "" {
		record.Locale = locale
	}

	if record.Title == "" || record.Summary == "" {
		s.deriveOutline(record, s.normalizer.Normalize(req.Source))
	}
	if record.Title == "" {
		record.Title = record.Slug
	}
}

func (s *service) store(ctx context.Context, record *Article, canonical string, normalized bool) (*Article, error) {
	now := s.now()
	record.Body = canonical
	record.Format = FormatCanonical
	record.UpdatedAt = now
	if normalized {
		record.NormalizedAt = &now
	}
	s.deriveOutline(record, canonical)
	return s.articles.Update(ctx, record)
}

// deriveOutline fills an empty title or summary from the first heading and
// first paragraph of canonical.
func (s *service) deriveOutline(record *Article, canonical string) {
	if record.Title != "" && (record.Summary != "" || s.summaryLength == 0) {
		return
	}
	blocks, err := markup.Outline(canonical)
	if err != nil {
		s.logger.Warn("article.outline.failed", "slug", record.Slug, "error", err)
		return
	}
	if record.Title == "" {
		record.Title = markup.FirstHeading(blocks)
	}
	if record.Summary == "" && s.summaryLength > 0 {
		record.Summary = truncateRunes(markup.FirstParagraph(blocks), s.summaryLength)
	}
}

// Checksum is the hex SHA-256 of a source payload.
func Checksum(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func isCanonicalBody(body string) bool {
	return strings.TrimSpace(body) == "" || markup.IsCanonical(body)
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRightFunc(string(runes[:limit]), func(r rune) bool { return r == ' ' })
	if idx := strings.LastIndexByte(cut, ' '); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
