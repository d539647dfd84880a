package tagger

// defaultMappings returns the built-in symbol reference data covering widely
// discussed US equities
func defaultMappings() map[string]TickerInfo {
	return map[string]TickerInfo{
		"AAPL":  {Company: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics"},
		"MSFT":  {Company: "Microsoft Corporation", Sector: "Technology", Industry: "Software"},
		"GOOGL": {Company: "Alphabet Inc.", Sector: "Technology", Industry: "Internet Services"},
		"GOOG":  {Company: "Alphabet Inc.", Sector: "Technology", Industry: "Internet Services"},
		"AMZN":  {Company: "Amazon.com Inc.", Sector: "Consumer Cyclical", Industry: "Internet Retail"},
		"META":  {Company: "Meta Platforms Inc.", Sector: "Technology", Industry: "Internet Services"},
		"NVDA":  {Company: "NVIDIA Corporation", Sector: "Technology", Industry: "Semiconductors"},
		"AMD":   {Company: "Advanced Micro Devices", Sector: "Technology", Industry: "Semiconductors"},
		"INTC":  {Company: "Intel Corporation", Sector: "Technology", Industry: "Semiconductors"},
		"TSM":   {Company: "Taiwan Semiconductor", Sector: "Technology", Industry: "Semiconductors"},
		"TSLA":  {Company: "Tesla Inc.", Sector: "Consumer Cyclical", Industry: "Auto Manufacturers"},
		"F":     {Company: "Ford Motor Company", Sector: "Consumer Cyclical", Industry: "Auto Manufacturers"},
		"GM":    {Company: "General Motors", Sector: "Consumer Cyclical", Industry: "Auto Manufacturers"},
		"JPM":   {Company: "JPMorgan Chase", Sector: "Financial Services", Industry: "Banks"},
		"BAC":   {Company: "Bank of America", Sector: "Financial Services", Industry: "Banks"},
		"WFC":   {Company: "Wells Fargo", Sector: "Financial Services", Industry: "Banks"},
		"GS":    {Company: "Goldman Sachs", Sector: "Financial Services", Industry: "Capital Markets"},
		"MS":    {Company: "Morgan Stanley", Sector: "Financial Services", Industry: "Capital Markets"},
		"V":     {Company: "Visa Inc.", Sector: "Financial Services", Industry: "Credit Services"},
		"MA":    {Company: "Mastercard Inc.", Sector: "Financial Services", Industry: "Credit Services"},
		"BRK.B": {Company: "Berkshire Hathaway", Sector: "Financial Services", Industry: "Insurance"},
		"PYPL":  {Company: "PayPal Holdings", Sector: "Financial Services", Industry: "Credit Services"},
		"COIN":  {Company: "Coinbase Global", Sector: "Financial Services", Industry: "Capital Markets"},
		"JNJ":   {Company: "Johnson & Johnson", Sector: "Healthcare", Industry: "Drug Manufacturers"},
		"PFE":   {Company: "Pfizer Inc.", Sector: "Healthcare", Industry: "Drug Manufacturers"},
		"MRNA":  {Company: "Moderna Inc.", Sector: "Healthcare", Industry: "Biotechnology"},
		"UNH":   {Company: "UnitedHealth Group", Sector: "Healthcare", Industry: "Healthcare Plans"},
		"XOM":   {Company: "Exxon Mobil", Sector: "Energy", Industry: "Oil & Gas Integrated"},
		"CVX":   {Company: "Chevron Corporation", Sector: "Energy", Industry: "Oil & Gas Integrated"},
		"OXY":   {Company: "Occidental Petroleum", Sector: "Energy", Industry: "Oil & Gas E&P"},
		"WMT":   {Company: "Walmart Inc.", Sector: "Consumer Defensive", Industry: "Discount Stores"},
		"COST":  {Company: "Costco Wholesale", Sector: "Consumer Defensive", Industry: "Discount Stores"},
		"KO":    {Company: "Coca-Cola Company", Sector: "Consumer Defensive", Industry: "Beverages"},
		"PEP":   {Company: "PepsiCo Inc.", Sector: "Consumer Defensive", Industry: "Beverages"},
		"DIS":   {Company: "Walt Disney Company", Sector: "Communication Services", Industry: "Entertainment"},
		"NFLX":  {Company: "Netflix Inc.", Sector: "Communication Services", Industry: "Entertainment"},
		"T":     {Company: "AT&T Inc.", Sector: "Communication Services", Industry: "Telecom Services"},
		"VZ":    {Company: "Verizon Communications", Sector: "Communication Services", Industry: "Telecom Services"},
		"BA":    {Company: "Boeing Company", Sector: "Industrials", Industry: "Aerospace & Defense"},
		"CAT":   {Company: "Caterpillar Inc.", Sector: "Industrials", Industry: "Farm & Heavy Machinery"},
		"GME":   {Company: "GameStop Corp.", Sector: "Consumer Cyclical", Industry: "Specialty Retail"},
		"AMC":   {Company: "AMC Entertainment", Sector: "Communication Services", Industry: "Entertainment"},
		"PLTR":  {Company: "Palantir Technologies", Sector: "Technology", Industry: "Software"},
		"SOFI":  {Company: "SoFi Technologies", Sector: "Financial Services", Industry: "Credit Services"},
		"HOOD":  {Company: "Robinhood Markets", Sector: "Financial Services", Industry: "Capital Markets"},
	}
}
