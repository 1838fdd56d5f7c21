// internal/catalog/seed.go
package catalog

import "card-advisor/internal/models"

// SeedCards returns the built-in reference catalog. Fees are SGD.
func SeedCards() []models.CardRecord {
	return []models.CardRecord{
		{
			ID:             "travel_001",
			Name:           "Singapore Airlines KrisFlyer Credit Card",
			Issuer:         "DBS Bank",
			Categories:     []string{models.CategoryTravel},
			AnnualFee:      192.60,
			RewardsRate:    "1.2 miles per S$1",
			SignupBonus:    "15,000 KrisFlyer miles",
			MinCreditScore: "excellent",
			Pros:           []string{"High miles earning", "No foreign transaction fee", "Travel insurance"},
			Cons:           []string{"High annual fee", "Limited cashback options"},
		},
		{
			ID:             "travel_002",
			Name:           "Citi PremierMiles Card",
			Issuer:         "Citibank",
			Categories:     []string{models.CategoryTravel},
			AnnualFee:      192.60,
			RewardsRate:    "1.2 miles per S$1",
			SignupBonus:    "10,000 miles",
			MinCreditScore: "good",
			Pros:           []string{"Flexible miles", "Good signup bonus", "Travel benefits"},
			Cons:           []string{"Annual fee", "Limited category bonuses"},
		},
		{
			ID:             "cashback_001",
			Name:           "DBS Live Fresh Card",
			Issuer:         "DBS Bank",
			Categories:     []string{models.CategoryCashback},
			AnnualFee:      0,
			RewardsRate:    "5% cashback on online spending",
			SignupBonus:    "S$100 cashback",
			MinCreditScore: "good",
			Pros:           []string{"No annual fee", "High online cashback", "Easy to use"},
			Cons:           []string{"Limited offline benefits", "Category restrictions"},
		},
		{
			ID:             "cashback_002",
			Name:           "OCBC 365 Credit Card",
			Issuer:         "OCBC Bank",
			Categories:     []string{models.CategoryCashback},
			AnnualFee:      0,
			RewardsRate:    "6% cashback on dining",
			SignupBonus:    "S$80 cashback",
			MinCreditScore: "good",
			Pros:           []string{"No annual fee", "High dining cashback", "Weekend bonuses"},
			Cons:           []string{"Complex bonus structure", "Minimum spending requirements"},
		},
		{
			ID:             "business_001",
			Name:           "UOB Business Card",
			Issuer:         "UOB Bank",
			Categories:     []string{models.CategoryBusiness},
			AnnualFee:      96.30,
			RewardsRate:    "1% cashback on all spending",
			SignupBonus:    "S$200 cashback",
			MinCreditScore: "good",
			Pros:           []string{"Business expense tracking", "Employee cards", "Corporate benefits"},
			Cons:           []string{"Annual fee", "Business verification required"},
		},
		{
			ID:             "student_001",
			Name:           "POSB Everyday Card",
			Issuer:         "DBS Bank",
			Categories:     []string{models.CategoryStudent, models.CategoryGeneral},
			AnnualFee:      0,
			RewardsRate:    "0.3% cashback on all spending",
			SignupBonus:    "S$20 cashback",
			MinCreditScore: "fair",
			Pros:           []string{"No annual fee", "Easy approval", "Credit building"},
			Cons:           []string{"Low rewards rate", "Low credit limit"},
		},
		{
			ID:             "general_001",
			Name:           "Standard Rewards Card",
			Issuer:         "Generic Bank",
			Categories:     []string{models.CategoryGeneral},
			AnnualFee:      48.15,
			RewardsRate:    "1% cashback on all spending",
			SignupBonus:    "S$50 cashback",
			MinCreditScore: "good",
			Pros:           []string{"Simple rewards", "Moderate annual fee", "Widely accepted"},
			Cons:           []string{"Basic benefits", "No category bonuses"},
		},
	}
}
