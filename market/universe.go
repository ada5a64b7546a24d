package market

// DefaultUniverse is the NSE large-cap scan universe.
var DefaultUniverse = []string{
	"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "ICICIBANK.NS",
	"HINDUNILVR.NS", "ITC.NS", "SBIN.NS", "BHARTIARTL.NS", "KOTAKBANK.NS",
	"AXISBANK.NS", "ASIANPAINT.NS", "MARUTI.NS", "HCLTECH.NS", "SUNPHARMA.NS",
	"TATAMOTORS.NS", "WIPRO.NS", "ULTRACEMCO.NS", "TITAN.NS", "BAJFINANCE.NS",
	"NESTLEIND.NS", "POWERGRID.NS", "BAJAJFINSV.NS", "NTPC.NS", "HINDALCO.NS",
	"JSWSTEEL.NS", "ONGC.NS", "TATACONSUM.NS", "BRITANNIA.NS", "COALINDIA.NS",
}

// sectorTable is a static symbol -> sector lookup. The concentration check in
// the risk package counts concurrent positions per sector instead of running a
// statistical correlation; this table is the whole of that approximation.
var sectorTable = map[string]string{
	"RELIANCE.NS":   "ENERGY",
	"TCS.NS":        "IT",
	"HDFCBANK.NS":   "BANKING",
	"INFY.NS":       "IT",
	"ICICIBANK.NS":  "BANKING",
	"HINDUNILVR.NS": "FMCG",
	"ITC.NS":        "FMCG",
	"SBIN.NS":       "BANKING",
	"BHARTIARTL.NS": "TELECOM",
	"KOTAKBANK.NS":  "BANKING",
	"AXISBANK.NS":   "BANKING",
	"ASIANPAINT.NS": "CONSUMER",
	"MARUTI.NS":     "AUTO",
	"HCLTECH.NS":    "IT",
	"SUNPHARMA.NS":  "PHARMA",
	"TATAMOTORS.NS": "AUTO",
	"WIPRO.NS":      "IT",
	"ULTRACEMCO.NS": "CEMENT",
	"TITAN.NS":      "CONSUMER",
	"BAJFINANCE.NS": "FINANCE",
	"NTPC.NS":       "ENERGY",
	"POWERGRID.NS":  "ENERGY",
	"ONGC.NS":       "ENERGY",
	"HINDALCO.NS":   "METALS",
	"JSWSTEEL.NS":   "METALS",
	"TATASTEEL.NS":  "METALS",
	"COALINDIA.NS":  "ENERGY",
	"CIPLA.NS":      "PHARMA",
	"DRREDDY.NS":    "PHARMA",
	"TECHM.NS":      "IT",
}

// Sector returns the sector for a symbol, or "OTHERS" if unknown.
func Sector(symbol string) string {
	if s, ok := sectorTable[symbol]; ok {
		return s
	}
	return "OTHERS"
}
