package services

import "github.com/anjiri1684/service_market/models"

// ComputeTrustScore scores a provider profile from 0 to 100 based on
// verification progress, profile completeness and track record. Recomputed
// whenever one of its inputs changes; never stored anywhere but the profile.
func ComputeTrustScore(p *models.Provider) int {
	score := 0

	if p.Verified {
		score += 20
	}
	if p.PhoneVerified {
		score += 15
	}
	if p.IDDocumentURL != nil {
		score += 10
	}

	if p.Description != nil && *p.Description != "" {
		score += 10
	}
	if p.Phone != nil && *p.Phone != "" {
		score += 10
	}
	if p.YearsOfExperience != nil {
		score += 5
	}
	if p.BankDetails.AccountNumber != nil {
		score += 5
	}

	if p.Rating > 4 {
		score += 5
	}
	if p.CompletedBookings > 10 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
