// Package domain provides core domain models and types.
package domain

import "time"

// AssetType represents the kind of tradable instrument
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeFund   AssetType = "fund"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeBond   AssetType = "bond"
	AssetTypeCash   AssetType = "cash"
	AssetTypeOther  AssetType = "other"
)

// ValidAssetType reports whether t is a known asset type
func ValidAssetType(t AssetType) bool {
	switch t {
	case AssetTypeStock, AssetTypeFund, AssetTypeCrypto, AssetTypeBond, AssetTypeCash, AssetTypeOther:
		return true
	}
	return false
}

// TransactionType represents the kind of ledger event
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
	TransactionSplit    TransactionType = "split"
	TransactionTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is a known transaction type
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend, TransactionSplit, TransactionTransfer:
		return true
	}
	return false
}

// Asset is a tradable instrument definition.
// Immutable after creation except for corrective edits.
type Asset struct {
	ID        string    `json:"id"`
	Type      AssetType `json:"type"`
	Symbol    string    `json:"symbol"` // short uppercase ticker
	Name      string    `json:"name"`
	Currency  string    `json:"currency"` // ISO-4217-like code, defaults to USD
	Exchange  string    `json:"exchange,omitempty"`
	PluginID  string    `json:"pluginId,omitempty"` // back-reference to an external data source, never an ownership link
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Account is a distinct holding location (brokerage, wallet, manual entry)
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PluginID  string    `json:"pluginId,omitempty"`
	IsManual  bool      `json:"isManual"` // true unless linked to an external brokerage integration
	CreatedAt time.Time `json:"createdAt"`
}

// Holding is a quantity of an asset owned within an account.
// CostBasis is the TOTAL acquisition cost of the position, not per-unit.
// Holdings are maintained independently of the transaction log; recording a
// transaction does not adjust them.
type Holding struct {
	ID         string     `json:"id"`
	AssetID    string     `json:"assetId"`
	AccountID  string     `json:"accountId"`
	Quantity   float64    `json:"quantity"`
	CostBasis  float64    `json:"costBasis"`
	AcquiredAt *time.Time `json:"acquiredAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Transaction is an immutable historical trade/dividend/transfer event
type Transaction struct {
	ID         string          `json:"id"`
	AssetID    string          `json:"assetId"`
	AccountID  string          `json:"accountId,omitempty"`
	Type       TransactionType `json:"type"`
	Quantity   float64         `json:"quantity"`
	Price      float64         `json:"price"` // unit price; 0 when economically meaningless (e.g. transfers)
	Fee        float64         `json:"fee"`
	ExecutedAt time.Time       `json:"executedAt"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AssetRef is the asset identity carried on joined rows
type AssetRef struct {
	ID       string    `json:"id,omitempty"`
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	Type     AssetType `json:"type"`
	Currency string    `json:"currency,omitempty"`
}

// ResolvedHolding is a holding joined with its asset, the input of the
// portfolio aggregator.
type ResolvedHolding struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"accountId,omitempty"`
	Quantity   float64    `json:"quantity"`
	CostBasis  float64    `json:"costBasis"`
	AcquiredAt *time.Time `json:"acquiredAt,omitempty"`
	Asset      AssetRef   `json:"asset"`
}

// ResolvedTransaction is a transaction joined with its asset identity
type ResolvedTransaction struct {
	ID         string          `json:"id"`
	Type       TransactionType `json:"type"`
	Quantity   float64         `json:"quantity"`
	Price      float64         `json:"price"`
	Fee        float64         `json:"fee"`
	ExecutedAt time.Time       `json:"executedAt"`
	Notes      string          `json:"notes,omitempty"`
	Asset      AssetRef        `json:"asset"`
}
