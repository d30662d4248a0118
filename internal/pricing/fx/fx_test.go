package fx

import (
	"errors"
	"testing"
	"time"
)

func TestNewTableNormalisesCodes(t *testing.T) {
	table, err := NewTable([]Rate{
		{Code: " usd ", ToINR: 83.2, EffectiveDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{Code: "eur", ToINR: 90.5},
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	got, err := table.Convert(10, "USD")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != 832 {
		t.Fatalf("expected 832, got %v", got)
	}
}

func TestNewTableRejectsNonPositiveRate(t *testing.T) {
	_, err := NewTable([]Rate{{Code: "USD", ToINR: 0}})
	if !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestConvertReportingCurrencyIsIdentity(t *testing.T) {
	table, err := NewTable(nil)
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	got, err := table.Convert(41200, "INR")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != 41200 {
		t.Fatalf("expected identity conversion, got %v", got)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	table, err := NewTable([]Rate{{Code: "USD", ToINR: 83.2}})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	_, err = table.Convert(100, "GBP")
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}
