package domain

import (
	"encoding/json"
	"fmt"
)

type DebtOverview struct {
	KGMDebt                 string `json:"kgmBorc"`
	EurasiaDebt             string `json:"avrasyaBorc"`
	MotorwayDebt            string `json:"otoyolBorc"`
	ICADebt                 string `json:"icaBorc"`
	EuropeMotorwayDebt      string `json:"avrupaOtoyoluBorc"`
	AnatoliaMotorwayDebt    string `json:"anadoluOtoyoluBorc"`
	NorthAegeanMotorwayDebt string `json:"kuzeyEgeOtoyoluBorc"`
	ERGDebt                 string `json:"ergBorc"`
	CanakkaleDebt           string `json:"canakkaleBorc"`
	FernasDebt              string `json:"fernasBorc"`
	PayableKGM              string `json:"odenecekTutarKGM"`
	PayableYID              string `json:"odenecekTutarYID"`
	GrandTotal              string `json:"genelToplam"`
}

type DebtSummary struct {
	Plate     string       `json:"plaka"`
	QueriedAt string       `json:"sorguTarihi"`
	Overview  DebtOverview `json:"ozetBilgiler"`
	// Crossings is passed through untouched; its shape belongs to the webhook.
	Crossings json.RawMessage `json:"gecisDetaylari,omitempty"`
}

// HasNoDebt reports whether the grand total is exactly the zero amount.
func (s DebtSummary) HasNoDebt() bool {
	return s.Overview.GrandTotal == ZeroAmount
}

// Result is either Success or Failure.
type Result interface {
	isResult()
}

type Success struct {
	Data DebtSummary
}

type Failure struct {
	Message string
}

func (Success) isResult() {}
func (Failure) isResult() {}

type wireResult struct {
	Success bool         `json:"success"`
	Data    *DebtSummary `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func (s Success) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireResult{Success: true, Data: &s.Data})
}

func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireResult{Success: false, Error: f.Message})
}

// DecodeResult maps a webhook payload onto Success or Failure. A payload
// claiming success without data is treated as a failure with no message.
func DecodeResult(body []byte) (Result, error) {
	var w wireResult
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if w.Success && w.Data != nil {
		return Success{Data: *w.Data}, nil
	}
	return Failure{Message: w.Error}, nil
}

// UpstreamResponse is the webhook reply as received.
type UpstreamResponse struct {
	Status int
	Body   []byte
}
