package etoro

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"etoro-extractor/models"
)

const textFallbackLimit = 10

// extractPortfolio parses the rendered markup into a Portfolio. It is a pure
// function over the HTML string: failures local to one row or one field are
// absorbed and only degrade the result, never propagate.
func extractPortfolio(source, pageURL string, logger zerolog.Logger) *models.Portfolio {
	portfolio := &models.Portfolio{Assets: []models.Asset{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		logger.Error().Err(err).Msg("Could not parse page markup")
		return portfolio
	}

	// The navigated URL is authoritative for the owning username; in-page
	// text is not consulted.
	portfolio.User = usernameFromURL(pageURL)

	if text := selectionText(doc.Find(selLastUpdated)); strings.Contains(text, lastUpdatedLabel) {
		portfolio.LastUpdated = strings.TrimSpace(strings.Replace(text, lastUpdatedLabel, "", 1))
	}

	rows := doc.Find(selPortfolioRow)
	logger.Info().Int("rows", rows.Length()).Msg("Found portfolio rows")

	rows.Each(func(i int, row *goquery.Selection) {
		asset := extractAsset(row, logger)
		if asset == nil {
			return
		}
		portfolio.Assets = append(portfolio.Assets, asset)
		logger.Debug().Str("asset", asset.Name()).Msg("Extracted asset")
	})

	// Structured rows absent entirely: fall back to heuristic text scanning
	// so callers get something rather than nothing.
	if rows.Length() == 0 {
		portfolio.Assets = extractAssetsFromText(doc.Text())
		if len(portfolio.Assets) > 0 {
			logger.Warn().Int("matches", len(portfolio.Assets)).Msg("No structured rows, used text fallback")
		}
	}

	portfolio.TotalAssets = len(portfolio.Assets)

	if label := doc.Find(selBalanceLabel); label.Length() > 0 {
		portfolio.BalancePercentage = selectionText(label.Parent().Find(selBalanceValue))
	}

	logger.Info().Int("assets", portfolio.TotalAssets).Msg("Extraction complete")
	return portfolio
}

// extractAsset pulls the recognized fields out of one portfolio row. Each
// field is looked up independently; a missing selector just omits the field.
// A row without a resolvable name is discarded. Any panic from malformed
// markup is absorbed so one broken row never aborts the batch.
func extractAsset(row *goquery.Selection, logger zerolog.Logger) (asset models.Asset) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().Interface("cause", r).Msg("Skipping malformed portfolio row")
			asset = nil
		}
	}()

	asset = models.Asset{}

	name := selectionText(row.Find(selAssetName))
	if name == "" {
		name = selectionText(row.Find(selAssetNameFallback))
	}
	if name == "" {
		return nil
	}
	asset[models.FieldName] = name

	if desc := selectionText(row.Find(selAssetDescription)); desc != "" {
		asset[models.FieldDescription] = desc
	}

	cells := row.Find(selTableCell)

	if direction := selectionText(cells.Eq(0).Find(selCellValue)); direction != "" {
		asset[models.FieldDirection] = direction
	}

	if cells.Length() >= 4 {
		if invested := selectionText(cells.Eq(1).Find(selCellValue)); invested != "" {
			asset[models.FieldInvestedPct] = invested
		}

		plEl := cells.Eq(2).Find(selCellValue).First()
		if pl := selectionText(plEl); pl != "" {
			asset[models.FieldProfitLossPct] = pl
			switch {
			case plEl.HasClass(classPositive):
				asset[models.FieldProfitLoss] = models.ProfitLossPositive
			case plEl.HasClass(classNegative):
				asset[models.FieldProfitLoss] = models.ProfitLossNegative
			}
		}

		if value := selectionText(cells.Eq(3).Find(selCellValue)); value != "" {
			asset[models.FieldValuePct] = value
		}
	}

	if cells.Length() >= 6 {
		if sell := selectionText(cells.Eq(4).Find(selRateValue)); sell != "" {
			asset[models.FieldSellPrice] = sell
		}
		if buy := selectionText(cells.Eq(5).Find(selRateValue)); buy != "" {
			asset[models.FieldBuyPrice] = buy
		}
	}

	if avatar := row.Find(selAssetAvatar).First(); avatar.Length() > 0 {
		if src, ok := avatar.Attr("src"); ok && src != "" {
			asset[models.FieldAvatarURL] = src
			asset[models.FieldAltText] = avatar.AttrOr("alt", "")
		}
	}

	return asset
}

// extractAssetsFromText is the heuristic fallback: scan the page text line by
// line for percentage-like tokens, capped at textFallbackLimit matches. The
// entries are tagged so callers can tell heuristic from structured results.
func extractAssetsFromText(text string) []models.Asset {
	assets := []models.Asset{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= 50 {
			continue
		}
		if !strings.Contains(line, "%") && !strings.Contains(strings.ToLower(line), "invested") {
			continue
		}

		assets = append(assets, models.Asset{
			models.FieldName:          line,
			models.FieldExtractedFrom: "text_fallback",
		})
		if len(assets) >= textFallbackLimit {
			break
		}
	}

	return assets
}

// hasChallenge reports whether an anti-bot interstitial element is present
// and not inline-hidden. Visibility in static markup is approximated by the
// element's style attribute.
func hasChallenge(source string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return false
	}

	for _, selector := range challengeSelectors {
		visible := false
		doc.Find(selector).EachWithBreak(func(i int, el *goquery.Selection) bool {
			style := strings.ReplaceAll(el.AttrOr("style", ""), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
			visible = true
			return false
		})
		if visible {
			return true
		}
	}
	return false
}

// usernameFromURL extracts the username path segment from a profile URL, or
// "" if the URL has no /people/ segment.
func usernameFromURL(pageURL string) string {
	_, after, found := strings.Cut(pageURL, "/people/")
	if !found {
		return ""
	}
	username := after
	if i := strings.IndexAny(username, "/?#"); i >= 0 {
		username = username[:i]
	}
	return username
}

func selectionText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}
