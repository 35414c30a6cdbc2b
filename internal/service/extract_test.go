package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPropertyID(t *testing.T) {
	tests := []struct {
		text   string
		wantID int64
		wantOK bool
	}{
		{"show amenities for property 123", 123, true},
		{"property id 42 please", 42, true},
		{"what about #7", 7, true},
		{"close the deal for id 15", 15, true},
		{"Property 9 looks great", 9, true},
		{"no identifier here", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id, ok := ExtractPropertyID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestExtractOfferAmount(t *testing.T) {
	tests := []struct {
		text       string
		wantAmount float64
		wantOK     bool
	}{
		{"I want to offer $450,000 for property 123", 450000, true},
		{"$1,250,000.50 is my final price", 1250000.50, true},
		{"my budget is 500000 dollars", 500000, true},
		{"paying 300,000 usd", 300000, true},
		{"offer 475,000 on property 2", 475000, true},
		{"I bid 480,000", 480000, true},
		{"no numbers here", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			amount, ok := ExtractOfferAmount(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAmount, amount)
		})
	}
}
