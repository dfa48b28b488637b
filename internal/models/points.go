package models

// PointConversionSetting defines the exchange rate between monetary amount
// and loyalty points. Rate is points awarded per unit of currency.
type PointConversionSetting struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Points float64 `json:"points"`
}
