package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderAddress struct {
	Street     *string `gorm:"size:255" json:"street"`
	City       *string `gorm:"size:100" json:"city"`
	State      *string `gorm:"size:100" json:"state"`
	Country    *string `gorm:"size:100" json:"country"`
	PostalCode *string `gorm:"size:20" json:"postal_code"`
}

type BankDetails struct {
	AccountNumber     *string `gorm:"size:50" json:"-"`
	IFSCCode          *string `gorm:"size:20" json:"-"`
	AccountHolderName *string `gorm:"size:255" json:"-"`
	BankName          *string `gorm:"size:255" json:"-"`
}

// Provider is a service-provider profile linked to a User account.
// All monetary fields are integers in paise.
type Provider struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"not null;unique" json:"user_id"`

	Category    string  `gorm:"size:50;not null;index" json:"category"`
	Description *string `gorm:"type:text" json:"description"`
	Phone       *string `gorm:"size:20" json:"phone"`

	Latitude  float64         `gorm:"default:0" json:"latitude"`
	Longitude float64         `gorm:"default:0" json:"longitude"`
	Address   ProviderAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Verified           bool    `gorm:"default:false;index" json:"verified"`
	VerificationStatus string  `gorm:"size:20;not null;default:'pending';index" json:"verification_status"`
	VerificationNotes  *string `gorm:"type:text" json:"verification_notes"`
	IDDocumentURL      *string `gorm:"size:512" json:"id_document_url"`
	PhoneVerified      bool    `gorm:"default:false" json:"phone_verified"`
	TrustScore         int     `gorm:"default:0" json:"trust_score"`

	Rating    float64 `gorm:"default:0" json:"rating"`
	Available bool    `gorm:"default:true;index" json:"available"`

	ServiceRadius  int  `gorm:"default:10" json:"service_radius"`
	EmergencyWork  bool `gorm:"default:false" json:"emergency_work"`
	MembershipTier string `gorm:"size:20;not null;default:'basic'" json:"membership_tier"`
	SkillLevel     string `gorm:"size:20;not null;default:'beginner'" json:"skill_level"`
	YearsOfExperience *int `json:"years_of_experience"`

	// Pricing, paise.
	ServicePrice int64  `gorm:"not null" json:"service_price"`
	PricePerHour *int64 `json:"price_per_hour"`

	BankDetails BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"-"`
	UPIID       *string     `gorm:"size:100" json:"-"`

	// Running balances, paise. Mutated only through services.CreditProvider /
	// services.ReverseProviderCredit.
	TotalEarnings    int64 `gorm:"default:0" json:"total_earnings"`
	PlatformFees     int64 `gorm:"default:0" json:"platform_fees"`
	AvailableBalance int64 `gorm:"default:0" json:"available_balance"`

	TotalBookings     int `gorm:"default:0" json:"total_bookings"`
	CompletedBookings int `gorm:"default:0" json:"completed_bookings"`
	CancelledBookings int `gorm:"default:0" json:"cancelled_bookings"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
