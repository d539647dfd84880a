package models

// Ticker represents one catalog entry for a traded symbol.
// Sector and Industry are resolved names, nil when never classified.
type Ticker struct {
	ID          int64   `json:"-" db:"id"`
	Symbol      string  `json:"symbol" db:"symbol"`
	CompanyName *string `json:"company_name" db:"company_name"`
	Sector      *string `json:"sector" db:"sector"`
	Industry    *string `json:"industry" db:"industry"`
}

// Sector is a market sector dimension row
type Sector struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Industry is an industry dimension row
type Industry struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
