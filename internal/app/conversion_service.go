package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/domain"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/ports"
)

const (
	// DefaultInsertDelay is the mandatory spacing between playlist inserts.
	// The destination service rejects bursts, so this is a correctness
	// requirement, not an optimization.
	DefaultInsertDelay = 400 * time.Millisecond

	// DefaultSearchTimeout bounds each per-track video search.
	DefaultSearchTimeout = 5 * time.Second

	defaultPlaylistTitle = "Migrated from Spotify"
	querySuffix          = "official audio"
)

// Service implements ports.ConversionService: the sequential
// fetch → match → insert pipeline for one playlist conversion run.
type Service struct {
	source        ports.TrackSource
	searcher      ports.VideoSearcher
	writer        ports.PlaylistWriter
	limiter       *rate.Limiter
	searchTimeout time.Duration
	logger        *log.Logger
}

// NewService creates a conversion service. insertDelay and searchTimeout fall
// back to the package defaults when non-positive.
func NewService(source ports.TrackSource, searcher ports.VideoSearcher, writer ports.PlaylistWriter, insertDelay, searchTimeout time.Duration, logger *log.Logger) *Service {
	if insertDelay <= 0 {
		insertDelay = DefaultInsertDelay
	}
	if searchTimeout <= 0 {
		searchTimeout = DefaultSearchTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		source:        source,
		searcher:      searcher,
		writer:        writer,
		limiter:       rate.NewLimiter(rate.Every(insertDelay), 1),
		searchTimeout: searchTimeout,
		logger:        logger.With("component", "conversion"),
	}
}

// Convert runs the full pipeline and returns the aggregate report.
func (s *Service) Convert(ctx context.Context, creds domain.Credentials, req domain.ConversionRequest) (*domain.ConversionReport, error) {
	return s.ConvertWithProgress(ctx, creds, req, nil)
}

// ConvertWithProgress runs the pipeline, invoking emit for the info event and
// once per processed track. Per-track failures (no match, rejected insert)
// are folded into the report and never abort the loop; pipeline-level
// failures (auth, fetch, create, destination not writable) abort the run and
// are returned as the single error.
func (s *Service) ConvertWithProgress(ctx context.Context, creds domain.Credentials, req domain.ConversionRequest, emit func(domain.ProgressEvent)) (*domain.ConversionReport, error) {
	if emit == nil {
		emit = func(domain.ProgressEvent) {}
	}
	if creds.YouTubeToken == "" {
		return nil, domain.ErrNoDestinationAuth
	}

	// Resolving the playlist reference is pure parsing; unresolvable input
	// fails here with zero network calls.
	ref, err := domain.ParseSourceRef(req.SourceRef)
	if err != nil {
		return nil, err
	}
	if ref.Liked && creds.SpotifyToken == "" {
		return nil, domain.ErrSignInRequired
	}

	// An explicitly supplied destination is validated before anything is
	// fetched, so a bad id fails the run before any track processing.
	playlistID := req.DestinationPlaylistID
	if playlistID != "" {
		if err := s.writer.ValidatePlaylist(ctx, creds.YouTubeToken, playlistID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("fetching source tracks", "liked", ref.Liked, "playlist", ref.PlaylistID)
	tracks, err := s.source.FetchTracks(ctx, creds.SpotifyToken, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, domain.ErrEmptyPlaylist
	}

	emit(domain.InfoEvent(fmt.Sprintf("found %d tracks", len(tracks))))

	if playlistID == "" {
		title := req.Title
		if title == "" {
			title = defaultPlaylistTitle
		}
		playlistID, err = s.writer.CreatePlaylist(ctx, creds.YouTubeToken, title, req.Description, req.Privacy)
		if err != nil {
			return nil, fmt.Errorf("failed to create destination playlist: %w", err)
		}
	}

	report := &domain.ConversionReport{
		DestinationPlaylistID:  playlistID,
		DestinationPlaylistURL: s.writer.PlaylistURL(playlistID),
		Added:                  []string{},
		Failed:                 []domain.TrackFailure{},
	}

	total := len(tracks)
	for i, track := range tracks {
		// Client disconnects surface as context cancellation, observed at
		// track boundaries: no further external calls after this point.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		label := track.Label()

		videoID := s.findMatch(ctx, track)
		if videoID == "" {
			report.Failed = append(report.Failed, domain.TrackFailure{Track: label, Reason: domain.ReasonNotFound})
			emit(domain.TrackEvent(label, false, domain.ReasonNotFound, i+1, total))
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		if err := s.writer.InsertVideo(ctx, creds.YouTubeToken, playlistID, videoID); err != nil {
			var ie *domain.InsertError
			if errors.As(err, &ie) && ie.Reason == domain.ReasonPermissionDenied {
				// Continuing would only accumulate identical failures.
				return nil, fmt.Errorf("destination playlist %s is not writable: %w", playlistID, err)
			}

			reason := domain.ReasonInsertRejected
			if errors.As(err, &ie) {
				reason = ie.Reason
			} else {
				s.logger.Warn("insert failed", "track", label, "err", err)
			}
			report.Failed = append(report.Failed, domain.TrackFailure{Track: label, Reason: reason})
			emit(domain.TrackEvent(label, false, reason, i+1, total))
			continue
		}

		report.Added = append(report.Added, label)
		emit(domain.TrackEvent(label, true, "", i+1, total))
	}

	s.logger.Info("conversion complete",
		"added", len(report.Added), "failed", len(report.Failed), "playlist", playlistID)
	return report, nil
}

// findMatch searches for the track within the search timeout. Errors and
// timeouts are swallowed and reported as "no match"; the searcher's ranking
// decides which candidate wins.
func (s *Service) findMatch(ctx context.Context, track domain.Track) string {
	sctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	videoID, err := s.searcher.Search(sctx, buildQuery(track))
	if err != nil {
		s.logger.Debug("search failed", "track", track.Label(), "err", err)
		return ""
	}
	return videoID
}

// buildQuery concatenates title and primary artist with a disambiguating
// suffix, stripping control characters.
func buildQuery(track domain.Track) string {
	parts := []string{track.Title}
	if a := track.PrimaryArtist(); a != "" {
		parts = append(parts, a)
	}
	parts = append(parts, querySuffix)

	q := strings.Join(parts, " ")
	return strings.Map(func(r rune) rune {
		if r < ' ' || r == 0x7f {
			return -1
		}
		return r
	}, q)
}
