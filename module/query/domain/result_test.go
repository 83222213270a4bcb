package domain

import (
	"encoding/json"
	"testing"
)

const successBody = `{
	"success": true,
	"data": {
		"plaka": "34ABC123",
		"sorguTarihi": "2024-05-06T10:30:00.000Z",
		"ozetBilgiler": {
			"kgmBorc": "12,50 ₺",
			"avrasyaBorc": "0,00 ₺",
			"genelToplam": "12,50 ₺"
		},
		"gecisDetaylari": [{"istasyon": "Çamlıca", "tutar": "12,50 ₺"}]
	}
}`

func TestDecodeResult_Success(t *testing.T) {
	res, err := DecodeResult([]byte(successBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, ok := res.(Success)
	if !ok {
		t.Fatalf("expected Success, got %T", res)
	}
	if s.Data.Plate != "34ABC123" {
		t.Errorf("expected 34ABC123, got %s", s.Data.Plate)
	}
	if s.Data.Overview.KGMDebt != "12,50 ₺" {
		t.Errorf("expected 12,50 ₺, got %s", s.Data.Overview.KGMDebt)
	}
	if s.Data.HasNoDebt() {
		t.Error("expected debt to be reported")
	}

	var crossings []map[string]string
	if err := json.Unmarshal(s.Data.Crossings, &crossings); err != nil {
		t.Fatalf("crossings: %v", err)
	}
	if len(crossings) != 1 || crossings[0]["istasyon"] != "Çamlıca" {
		t.Errorf("unexpected crossings: %v", crossings)
	}
}

func TestDecodeResult_Failure(t *testing.T) {
	res, err := DecodeResult([]byte(`{"success": false, "error": "CAPTCHA çözülemedi"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, ok := res.(Failure)
	if !ok {
		t.Fatalf("expected Failure, got %T", res)
	}
	if f.Message != "CAPTCHA çözülemedi" {
		t.Errorf("expected upstream message, got %q", f.Message)
	}
}

func TestDecodeResult_SuccessWithoutData(t *testing.T) {
	res, err := DecodeResult([]byte(`{"success": true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.(Failure); !ok {
		t.Fatalf("expected Failure, got %T", res)
	}
}

func TestDecodeResult_InvalidJSON(t *testing.T) {
	if _, err := DecodeResult([]byte("<html>")); err == nil {
		t.Fatal("expected error")
	}
}

func TestHasNoDebt(t *testing.T) {
	s := DebtSummary{Overview: DebtOverview{GrandTotal: ZeroAmount}}
	if !s.HasNoDebt() {
		t.Error("expected zero grand total to mean no debt")
	}

	s.Overview.GrandTotal = ""
	if s.HasNoDebt() {
		t.Error("empty grand total is not the zero amount")
	}
}

func TestFailure_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Failure{Message: MsgQueryFailed})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["success"] != false {
		t.Errorf("expected success=false, got %v", got["success"])
	}
	if got["error"] != MsgQueryFailed {
		t.Errorf("expected %q, got %v", MsgQueryFailed, got["error"])
	}
	if _, ok := got["data"]; ok {
		t.Error("failure must not carry data")
	}
}
