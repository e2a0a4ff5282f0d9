package entity

import "github.com/shopspring/decimal"

// BalanceRecord is one asset's free/locked quantity as returned by the balances endpoint.
type BalanceRecord struct {
	Asset  string          `json:"asset" yaml:"asset"`
	Free   decimal.Decimal `json:"free" yaml:"free"`
	Locked decimal.Decimal `json:"locked" yaml:"locked"`
}

// BalanceWire is the on-the-wire shape of a record: amounts travel as JSON numbers.
type BalanceWire struct {
	Asset  string  `json:"asset"`
	Free   float64 `json:"free"`
	Locked float64 `json:"locked"`
}

// BalancesResponse is the body of GET /api/balances/.
type BalancesResponse struct {
	Balances []BalanceWire `json:"balances"`
}

// ToWire converts the record into its JSON representation.
func (r BalanceRecord) ToWire() BalanceWire {
	return BalanceWire{
		Asset:  r.Asset,
		Free:   r.Free.InexactFloat64(),
		Locked: r.Locked.InexactFloat64(),
	}
}

// ToRecord converts a wire item back into a record. Amounts take the shortest
// decimal form of the float, so later rounding works on that form (1.000000005
// stays 1.000000005) rather than on the binary value.
func (w BalanceWire) ToRecord() BalanceRecord {
	return BalanceRecord{
		Asset:  w.Asset,
		Free:   decimal.NewFromFloat(w.Free),
		Locked: decimal.NewFromFloat(w.Locked),
	}
}
