package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// Static reference data for the participating Maine towns. The pipeline only
// reads these tables; they are not derived from observations.
var (
	seedProviders = []UtilityProvider{
		{CompanyName: "Unitil", MailingAddress: "PO Box 981077, Boston, MA 02298", PhoneNumber: "866-933-3821", Region: "Southern Maine"},
		{CompanyName: "Bangor Natural Gas", MailingAddress: "498 Maine Ave, Bangor, ME 04401", PhoneNumber: "877-886-2214", Region: "Penobscot Valley"},
		{CompanyName: "Summit Natural Gas of Maine", MailingAddress: "1 Industrial Dr, Augusta, ME 04330", PhoneNumber: "800-909-7642", Region: "Kennebec Valley"},
		{CompanyName: "Maine Natural Gas", MailingAddress: "71 Community Dr, Augusta, ME 04330", PhoneNumber: "877-867-1642", Region: "Midcoast"},
	}

	seedCities = []City{
		{City: "Portland", County: "Cumberland", State: "MAINE", UtilityProvider: "Unitil"},
		{City: "South Portland", County: "Cumberland", State: "MAINE", UtilityProvider: "Unitil"},
		{City: "Westbrook", County: "Cumberland", State: "MAINE", UtilityProvider: "Unitil"},
		{City: "Saco", County: "York", State: "MAINE", UtilityProvider: "Unitil"},
		{City: "Bangor", County: "Penobscot", State: "MAINE", UtilityProvider: "Bangor Natural Gas"},
		{City: "Brewer", County: "Penobscot", State: "MAINE", UtilityProvider: "Bangor Natural Gas"},
		{City: "Augusta", County: "Kennebec", State: "MAINE", UtilityProvider: "Summit Natural Gas of Maine"},
		{City: "Waterville", County: "Kennebec", State: "MAINE", UtilityProvider: "Summit Natural Gas of Maine"},
		{City: "Brunswick", County: "Cumberland", State: "MAINE", UtilityProvider: "Maine Natural Gas"},
	}

	seedVolunteers = []Volunteer{
		{FirstName: "Avery", LastName: "Bishop", City: "Portland", Initials: "AB"},
		{FirstName: "Casey", LastName: "Dunham", City: "Portland", Initials: "CD"},
		{FirstName: "Elliot", LastName: "Frost", City: "Bangor", Initials: "EF"},
		{FirstName: "Gale", LastName: "Hartley", City: "Brunswick", Initials: "GH"},
	}
)

// seed populates the reference tables with the same insert-if-absent
// discipline as the pipeline: re-running against a seeded database is a no-op.
func (s *Store) seed(ctx context.Context) error {
	for _, p := range seedProviders {
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "company_name"}},
				DoNothing: true,
			}).
			Create(&p).Error
		if err != nil {
			return fmt.Errorf("seed utility provider %s: %w", p.CompanyName, err)
		}
	}

	for _, c := range seedCities {
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "city"}},
				DoNothing: true,
			}).
			Create(&c).Error
		if err != nil {
			return fmt.Errorf("seed city %s: %w", c.City, err)
		}
	}

	// Volunteers carry no unique column; FirstOrCreate keyed on name keeps
	// reseeding idempotent.
	for _, v := range seedVolunteers {
		err := s.db.WithContext(ctx).
			Where(Volunteer{FirstName: v.FirstName, LastName: v.LastName}).
			FirstOrCreate(&v).Error
		if err != nil {
			return fmt.Errorf("seed volunteer %s %s: %w", v.FirstName, v.LastName, err)
		}
	}

	return nil
}
