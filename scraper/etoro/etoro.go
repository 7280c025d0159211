package etoro

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"etoro-extractor/config"
	"etoro-extractor/models"
)

// ErrNotInitialized means Portfolio was called without a live session.
var ErrNotInitialized = errors.New("browser session not initialized")

// Scraper extracts public portfolio data from eToro profile pages. One
// scraper drives one session; extractions are sequential and blocking.
type Scraper struct {
	cfg     *config.Config
	logger  zerolog.Logger
	session *Session

	// Bounded waits, overridable in tests.
	ChallengePolls    int
	ChallengeInterval time.Duration
	SettleDelay       time.Duration
}

// New creates a Scraper bound to an acquired session.
func New(cfg *config.Config, logger zerolog.Logger, session *Session) *Scraper {
	return &Scraper{
		cfg:               cfg,
		logger:            logger,
		session:           session,
		ChallengePolls:    6,
		ChallengeInterval: 5 * time.Second,
		SettleDelay:       5 * time.Second,
	}
}

// Portfolio navigates to the user's public profile and extracts whatever
// portfolio data is visible.
//
// A nil portfolio with a nil error means the profile yielded no data (not
// found, private, or page-load timeout); that is an expected outcome, not a
// failure. Degraded pages (unresolved challenge, missing portfolio view,
// broken rows) yield a partial or empty portfolio. The only errors returned
// are ErrNotInitialized and browser-level faults.
func (s *Scraper) Portfolio(username string) (*models.Portfolio, error) {
	if s.session == nil || s.session.Context() == nil {
		return nil, ErrNotInitialized
	}
	ctx := s.session.Context()

	profileURL := s.cfg.ProfileURL(username)
	s.logger.Info().Str("user", username).Str("url", profileURL).Msg("Extracting portfolio")

	if err := s.navigate(ctx, profileURL); err != nil {
		// Page-load timeout is absence of data, not a crash.
		s.logger.Error().Str("url", profileURL).Err(err).Msg("Timed out waiting for profile page")
		return nil, nil
	}

	source, err := s.pageSource(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not read page source")
		return nil, nil
	}

	if isAbsent(source) {
		s.logger.Warn().Str("user", username).Msg("Profile not found or private")
		return nil, nil
	}

	challengePersisted := false
	if hasChallenge(source) {
		s.logger.Warn().Msg("Challenge detected, extraction may be limited")
		_, challengePersisted = s.waitForChallenge(func() (string, error) {
			return s.pageSource(ctx)
		})
	}

	s.activatePortfolioView(ctx)

	source, err = s.pageSource(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not read page source after activation")
		return nil, nil
	}

	currentURL := profileURL
	if err := chromedp.Run(ctx, chromedp.Location(&currentURL)); err != nil {
		s.logger.Debug().Err(err).Msg("Could not read current location, using profile URL")
	}

	portfolio := extractPortfolio(source, currentURL, s.logger)
	if challengePersisted {
		portfolio.AccessRestricted = true
		portfolio.Message = "Access may be restricted by CAPTCHA or anti-bot measures"
	}
	return portfolio, nil
}

// navigate loads the URL and blocks until the document body exists, bounded
// by the configured timeout.
func (s *Scraper) navigate(ctx context.Context, url string) error {
	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Second)
	defer cancel()

	if err := chromedp.Run(loadCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("page load: %w", err)
	}

	time.Sleep(s.SettleDelay)
	return nil
}

func (s *Scraper) pageSource(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// waitForChallenge polls the page until the challenge clears or the poll
// budget runs out, then returns the latest source and whether the challenge
// persisted. Best-effort: the pipeline continues either way.
func (s *Scraper) waitForChallenge(getSource func() (string, error)) (string, bool) {
	var latest string
	for i := 0; i < s.ChallengePolls; i++ {
		time.Sleep(s.ChallengeInterval)

		source, err := getSource()
		if err != nil {
			s.logger.Debug().Err(err).Msg("Challenge poll failed")
			continue
		}
		latest = source
		if !hasChallenge(source) {
			s.logger.Info().Int("polls", i+1).Msg("Challenge cleared")
			return latest, false
		}
	}

	s.logger.Warn().Int("polls", s.ChallengePolls).Msg("Challenge did not clear, extracting anyway")
	return latest, true
}

// isAbsent reports whether the page says the profile does not exist or is
// private.
func isAbsent(source string) bool {
	lower := strings.ToLower(source)
	for _, marker := range absenceMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// activatePortfolioView finds the portfolio tab via the selector cascade and
// clicks it, falling back to a JavaScript click. Neither finding nor
// clicking is required; extraction proceeds from whatever view is current.
func (s *Scraper) activatePortfolioView(ctx context.Context) {
	selector, found := s.findPortfolioTab(ctx)
	if !found {
		s.logger.Warn().Msg("No portfolio tab found, extracting from current page")
		return
	}
	s.logger.Info().Str("selector", selector).Msg("Found portfolio tab")

	clickCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err := chromedp.Run(clickCtx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err == nil {
		s.logger.Info().Msg("Clicked portfolio tab")
		time.Sleep(s.SettleDelay)
		return
	}
	s.logger.Warn().Err(err).Msg("Direct click failed, trying JavaScript click")

	jsCtx, cancelJS := context.WithTimeout(ctx, 15*time.Second)
	defer cancelJS()

	script := fmt.Sprintf(`(function(){
		var el = document.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector)

	var clicked bool
	if err := chromedp.Run(jsCtx, chromedp.Evaluate(script, &clicked)); err != nil || !clicked {
		s.logger.Warn().Err(err).Msg("JavaScript click failed as well")
		return
	}
	s.logger.Info().Msg("Clicked portfolio tab via JavaScript")
	time.Sleep(s.SettleDelay)
}

// findPortfolioTab evaluates the selector cascade in the page and returns
// the first selector with a visible, enabled match.
func (s *Scraper) findPortfolioTab(ctx context.Context) (string, bool) {
	quoted := make([]string, len(portfolioTabSelectors))
	for i, sel := range portfolioTabSelectors {
		quoted[i] = fmt.Sprintf("%q", sel)
	}

	script := fmt.Sprintf(`(function(){
		var selectors = [%s];
		for (var i = 0; i < selectors.length; i++) {
			var els = document.querySelectorAll(selectors[i]);
			for (var j = 0; j < els.length; j++) {
				var el = els[j];
				var style = window.getComputedStyle(el);
				if (style.display === 'none' || style.visibility === 'hidden') continue;
				if (el.disabled) continue;
				if (el.offsetWidth === 0 && el.offsetHeight === 0) continue;
				return selectors[i];
			}
		}
		return '';
	})()`, strings.Join(quoted, ","))

	evalCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var match string
	if err := chromedp.Run(evalCtx, chromedp.Evaluate(script, &match)); err != nil {
		s.logger.Debug().Err(err).Msg("Portfolio tab lookup failed")
		return "", false
	}
	return match, match != ""
}
