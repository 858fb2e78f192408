package services

import (
	"testing"

	"github.com/anjiri1684/service_market/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestComputeTrustScore(t *testing.T) {
	tests := []struct {
		name     string
		provider models.Provider
		want     int
	}{
		{"empty profile", models.Provider{}, 0},
		{"verified only", models.Provider{Verified: true}, 20},
		{"phone verified only", models.Provider{PhoneVerified: true}, 15},
		{
			"verification complete",
			models.Provider{Verified: true, PhoneVerified: true, IDDocumentURL: strPtr("https://cdn/doc.pdf")},
			45,
		},
		{
			"full profile",
			models.Provider{
				Verified:          true,
				PhoneVerified:     true,
				IDDocumentURL:     strPtr("https://cdn/doc.pdf"),
				Description:       strPtr("Experienced plumber"),
				Phone:             strPtr("+919876543210"),
				YearsOfExperience: intPtr(7),
				BankDetails:       models.BankDetails{AccountNumber: strPtr("1234567890")},
				Rating:            4.8,
				CompletedBookings: 25,
			},
			85,
		},
		{
			"empty strings do not count",
			models.Provider{Description: strPtr(""), Phone: strPtr("")},
			0,
		},
		{
			"boundary rating and bookings",
			models.Provider{Rating: 4.0, CompletedBookings: 10},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTrustScore(&tt.provider); got != tt.want {
				t.Errorf("ComputeTrustScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeTrustScoreCap(t *testing.T) {
	p := models.Provider{
		Verified:          true,
		PhoneVerified:     true,
		IDDocumentURL:     strPtr("url"),
		Description:       strPtr("desc"),
		Phone:             strPtr("phone"),
		YearsOfExperience: intPtr(10),
		BankDetails:       models.BankDetails{AccountNumber: strPtr("acct")},
		Rating:            5,
		CompletedBookings: 100,
	}
	if got := ComputeTrustScore(&p); got > 100 {
		t.Errorf("ComputeTrustScore() = %d, want <= 100", got)
	}
}
