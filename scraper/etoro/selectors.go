package etoro

// The target page's markup changes without notice, so every lookup goes
// through an ordered list of selector strategies evaluated first-match-wins.
// Extend these lists rather than branching in the extraction code.

// challengeSelectors match anti-bot interstitial elements. Any visible match
// counts as an active challenge.
var challengeSelectors = []string{
	"iframe[src*='captcha']",
	".captcha",
	"#captcha",
	"[class*='captcha']",
}

// portfolioTabSelectors locate the control that switches the profile page to
// its portfolio view.
var portfolioTabSelectors = []string{
	"a[href*='portfolio']",
	"[data-etoro-automation-id='portfolio-tab']",
	"button[aria-label*='Portfolio']",
	".portfolio-tab",
	"[class*='portfolio']",
	"a[automation-id*='portfolio']",
	".et-tab[href*='portfolio']",
}

// Markers in the page source meaning the profile has no extractable data.
// Matched case-insensitively against the full source.
var absenceMarkers = []string{
	"profile not found",
	"private profile",
}

// Structural selectors for the portfolio view.
const (
	selPortfolioRow  = ".et-table-row.clickable-row"
	selLastUpdated   = "[sub-head] .et-color-dark-grey"
	selBalanceLabel  = "[automation-id='cd-public-portfolio-list-balance-label']"
	selBalanceValue  = ".et-font-s"
	lastUpdatedLabel = "Last updated on:"
)

// Per-row field selectors.
const (
	selAssetName         = "[automation-id='cd-public-portfolio-table-item-title']"
	selAssetNameFallback = ".et-bold-font.ellipsis"
	selAssetDescription  = ".et-color-dark-grey.ellipsis"
	selTableCell         = ".et-table-cell"
	selCellValue         = ".et-font-weight-normal"
	selRateValue         = "[automation-id='buy-sell-button-rate-value']"
	selAssetAvatar       = "img[automation-id='trade-item-avatar']"

	classPositive = "et-positive"
	classNegative = "et-negative"
)
