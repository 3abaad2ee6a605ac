package prices

import "github.com/battuto/EtfManager/pkg/util"

// Static ticker to ISIN mappings for commonly tracked ETFs. The justETF
// history API is keyed by ISIN; a 12-character input is treated as an ISIN
// already and passed through.
var commonISINs = map[string]string{
	"VWCE":  "IE00BK5BQT80",
	"SWDA":  "IE00B4L5Y983",
	"EIMI":  "IE00BKM4GZ66",
	"LCWD":  "IE00BP3QZJ36",
	"EXSA":  "LU0446734104",
	"XDWT":  "IE00BL25JP72",
	"AGGH":  "IE00BDBRDM35",
	"DBXD":  "LU0274211480",
	"JPGL":  "IE00BJSFQJ20",
	"XGDU":  "DE000A2T0VU5",
	"EM710": "LU1287023185",
	"FWRA":  "IE000716YHJ7",
}

// FindISIN resolves a ticker to its ISIN. ok is false for unknown tickers.
func FindISIN(ticker string) (string, bool) {
	ticker = util.NormalizeTicker(ticker)
	if ticker == "" {
		return "", false
	}
	if len(ticker) == 12 {
		return ticker, true
	}
	isin, ok := commonISINs[ticker]
	return isin, ok
}
