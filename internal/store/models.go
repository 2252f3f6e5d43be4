package store

import (
	"time"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

// City is a reference entity grouping measurements. Measurements reference
// it by name, not by id, mirroring the denormalized spreadsheet data.
type City struct {
	CityID          uint   `gorm:"column:city_id;primaryKey;autoIncrement"`
	City            string `gorm:"column:city;uniqueIndex"`
	County          string `gorm:"column:county"`
	State           string `gorm:"column:state;default:MAINE"`
	UtilityProvider string `gorm:"column:utility_provider"`
}

func (City) TableName() string { return "cities" }

type UtilityProvider struct {
	ProviderID     uint   `gorm:"column:provider_id;primaryKey;autoIncrement"`
	CompanyName    string `gorm:"column:company_name;uniqueIndex"`
	MailingAddress string `gorm:"column:mailing_address"`
	PhoneNumber    string `gorm:"column:phone_number"`
	Region         string `gorm:"column:region"`
}

func (UtilityProvider) TableName() string { return "utility_providers" }

// Measurement is one persisted observation. The timestamp carries a unique
// index and acts as the idempotency key; NULL timestamps (unparseable source
// values) are admitted and never deduplicated against each other.
type Measurement struct {
	MeasurementID        uint       `gorm:"column:measurement_id;primaryKey;autoIncrement"`
	City                 string     `gorm:"column:city"`
	MethaneLevel         float64    `gorm:"column:methane_level"`
	Leak                 bool       `gorm:"column:leak"`
	TypeOfInfrastructure string     `gorm:"column:type_of_infrastructure"`
	PhotoID              *string    `gorm:"column:photo_id"`
	Latitude             *float64   `gorm:"column:latitude"`
	Longitude            *float64   `gorm:"column:longitude"`
	Volunteer            string     `gorm:"column:volunteer"`
	Timestamp            *time.Time `gorm:"column:timestamp;uniqueIndex"`
}

func (Measurement) TableName() string { return "measurements" }

type Photo struct {
	PhotoID string `gorm:"column:photo_id;primaryKey"`
	Photo   []byte `gorm:"column:photo"`
}

func (Photo) TableName() string { return "photos" }

type Volunteer struct {
	VolunteerID uint   `gorm:"column:volunteer_id;primaryKey;autoIncrement"`
	FirstName   string `gorm:"column:first_name"`
	LastName    string `gorm:"column:last_name"`
	City        string `gorm:"column:city"`
	Initials    string `gorm:"column:initials"`
}

func (Volunteer) TableName() string { return "volunteers" }

func measurementFromObservation(o domain.Observation) Measurement {
	return Measurement{
		City:                 o.City,
		MethaneLevel:         o.MethaneLevelPPM,
		Leak:                 o.Leak,
		TypeOfInfrastructure: o.Infrastructure,
		PhotoID:              o.PhotoID,
		Latitude:             o.Latitude,
		Longitude:            o.Longitude,
		Volunteer:            o.Volunteer,
		Timestamp:            o.Timestamp,
	}
}

func (m Measurement) toObservation() domain.Observation {
	return domain.Observation{
		City:            m.City,
		MethaneLevelPPM: m.MethaneLevel,
		Leak:            m.Leak,
		Infrastructure:  m.TypeOfInfrastructure,
		PhotoID:         m.PhotoID,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		Volunteer:       m.Volunteer,
		Timestamp:       m.Timestamp,
	}
}
