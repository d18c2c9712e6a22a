// Package seeds loads embedded development fixtures into the database.
// Fixtures reference each other by username and resource title, so the
// records can be inserted with freshly generated IDs on every run.
package seeds

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/auth"
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

//go:embed fixtures/*.yaml
var fixturesFS embed.FS

type userFixture struct {
	Username           string `yaml:"username"`
	Email              string `yaml:"email"`
	Password           string `yaml:"password"`
	Role               string `yaml:"role"`
	VerificationStatus string `yaml:"verification_status"`
}

type regionFixture struct {
	Name                 string      `yaml:"name"`
	Type                 string      `yaml:"type"`
	Code                 string      `yaml:"code"`
	State                string      `yaml:"state"`
	Country              string      `yaml:"country"`
	Population           int         `yaml:"population"`
	PovertyRate          float64     `yaml:"poverty_rate"`
	MedianIncome         float64     `yaml:"median_income"`
	UnemploymentRate     float64     `yaml:"unemployment_rate"`
	GeographicData       interface{} `yaml:"geographic_data"`
	DemographicData      interface{} `yaml:"demographic_data"`
	PovertyData          interface{} `yaml:"poverty_data"`
	ResourceAvailability interface{} `yaml:"resource_availability"`
	IsActive             bool        `yaml:"is_active"`
}

type resourceFixture struct {
	Title               string      `yaml:"title"`
	Description         string      `yaml:"description"`
	Category            string      `yaml:"category"`
	Provider            string      `yaml:"provider"`
	ProviderName        string      `yaml:"provider_name"`
	ProviderContact     interface{} `yaml:"provider_contact"`
	Location            interface{} `yaml:"location"`
	EligibilityCriteria interface{} `yaml:"eligibility_criteria"`
	ApplicationProcess  string      `yaml:"application_process"`
	RequiredDocuments   interface{} `yaml:"required_documents"`
	Capacity            int         `yaml:"capacity"`
	Availability        interface{} `yaml:"availability"`
	StartDateDays       *int        `yaml:"start_date_days"`
	EndDateDays         *int        `yaml:"end_date_days"`
	Status              string      `yaml:"status"`
	VerifiedBy          string      `yaml:"verified_by"`
	VerifiedDaysAgo     *int        `yaml:"verified_days_ago"`
}

type profileFixture struct {
	User                string      `yaml:"user"`
	FirstName           string      `yaml:"first_name"`
	LastName            string      `yaml:"last_name"`
	DateOfBirth         string      `yaml:"date_of_birth"`
	Gender              string      `yaml:"gender"`
	PhoneNumber         string      `yaml:"phone_number"`
	Address             interface{} `yaml:"address"`
	LocationCoordinates interface{} `yaml:"location_coordinates"`
	EducationLevel      string      `yaml:"education_level"`
	EducationHistory    interface{} `yaml:"education_history"`
	EmploymentStatus    string      `yaml:"employment_status"`
	EmploymentHistory   interface{} `yaml:"employment_history"`
	Skills              interface{} `yaml:"skills"`
	HealthInformation   interface{} `yaml:"health_information"`
	IncomeLevel         float64     `yaml:"income_level"`
	HouseholdSize       int         `yaml:"household_size"`
	Dependents          int         `yaml:"dependents"`
	Needs               interface{} `yaml:"needs"`
	PrivacySettings     interface{} `yaml:"privacy_settings"`
}

type applicationFixture struct {
	User             string      `yaml:"user"`
	Resource         string      `yaml:"resource"`
	Status           string      `yaml:"status"`
	NeedLevel        string      `yaml:"need_level"`
	Reason           string      `yaml:"reason"`
	Documents        interface{} `yaml:"documents"`
	Notes            string      `yaml:"notes"`
	SubmittedDaysAgo *int        `yaml:"submitted_days_ago"`
	ReviewedBy       string      `yaml:"reviewed_by"`
	ReviewedDaysAgo  *int        `yaml:"reviewed_days_ago"`
}

func loadFixture[T any](name string) ([]T, error) {
	data, err := fixturesFS.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}

	var items []T
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", name, err)
	}

	return items, nil
}

// jsonValue re-encodes a decoded YAML value as a JSON column value.
func jsonValue(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fixture value: %w", err)
	}
	return datatypes.JSON(encoded), nil
}

func dayOffset(days *int, now time.Time) *time.Time {
	if days == nil {
		return nil
	}
	t := now.Truncate(24 * time.Hour).AddDate(0, 0, *days)
	return &t
}

func daysAgo(days *int, now time.Time) *time.Time {
	if days == nil {
		return nil
	}
	t := now.AddDate(0, 0, -*days)
	return &t
}

// Seed inserts all fixtures. It refuses to run against a database that
// already holds users so reruns cannot collide with real accounts.
func Seed(db *gorm.DB, logger zerolog.Logger) error {
	var existing int64
	if err := db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("database already holds %d users, run unseed first", existing)
	}

	userIDs, err := seedUsers(db, logger)
	if err != nil {
		return err
	}

	if err := seedRegions(db, logger); err != nil {
		return err
	}

	resourceIDs, err := seedResources(db, logger, userIDs)
	if err != nil {
		return err
	}

	if err := seedProfiles(db, logger, userIDs); err != nil {
		return err
	}

	if err := seedApplications(db, logger, userIDs, resourceIDs); err != nil {
		return err
	}

	return nil
}

// Unseed removes all seedable records, children before parents.
func Unseed(db *gorm.DB, logger zerolog.Logger) error {
	all := db.Session(&gorm.Session{AllowGlobalUpdate: true})

	targets := []struct {
		name  string
		model interface{}
	}{
		{"applications", &models.ResourceApplication{}},
		{"resources", &models.Resource{}},
		{"regions", &models.Region{}},
		{"profiles", &models.Profile{}},
		{"users", &models.User{}},
	}

	for _, target := range targets {
		result := all.Delete(target.model)
		if result.Error != nil {
			return fmt.Errorf("failed to delete %s: %w", target.name, result.Error)
		}
		logger.Info().
			Str("table", target.name).
			Int64("deleted", result.RowsAffected).
			Msg("Removed seeded records")
	}

	return nil
}

func seedUsers(db *gorm.DB, logger zerolog.Logger) (map[string]string, error) {
	fixtures, err := loadFixture[userFixture]("users.yaml")
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(fixtures))
	for _, f := range fixtures {
		role, err := models.ParseRole(f.Role)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", f.Username, err)
		}
		status, err := models.ParseVerificationStatus(f.VerificationStatus)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", f.Username, err)
		}
		hash, err := auth.HashPassword(f.Password)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", f.Username, err)
		}

		user := models.User{
			Username:           f.Username,
			Email:              f.Email,
			PasswordHash:       hash,
			Role:               role,
			VerificationStatus: status,
			IsActive:           true,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", f.Username, err)
		}
		ids[f.Username] = user.ID
	}

	logger.Info().Int("count", len(fixtures)).Msg("Seeded users")
	return ids, nil
}

func seedRegions(db *gorm.DB, logger zerolog.Logger) error {
	fixtures, err := loadFixture[regionFixture]("regions.yaml")
	if err != nil {
		return err
	}

	for _, f := range fixtures {
		regionType, err := models.ParseRegionType(f.Type)
		if err != nil {
			return fmt.Errorf("region %s: %w", f.Name, err)
		}

		region := models.Region{
			Name:             f.Name,
			Type:             regionType,
			Code:             f.Code,
			State:            f.State,
			Country:          f.Country,
			Population:       f.Population,
			PovertyRate:      f.PovertyRate,
			MedianIncome:     f.MedianIncome,
			UnemploymentRate: f.UnemploymentRate,
			IsActive:         f.IsActive,
		}

		if region.GeographicData, err = jsonValue(f.GeographicData); err != nil {
			return fmt.Errorf("region %s: %w", f.Name, err)
		}
		if region.DemographicData, err = jsonValue(f.DemographicData); err != nil {
			return fmt.Errorf("region %s: %w", f.Name, err)
		}
		if region.PovertyData, err = jsonValue(f.PovertyData); err != nil {
			return fmt.Errorf("region %s: %w", f.Name, err)
		}
		if region.ResourceAvailability, err = jsonValue(f.ResourceAvailability); err != nil {
			return fmt.Errorf("region %s: %w", f.Name, err)
		}

		if err := db.Create(&region).Error; err != nil {
			return fmt.Errorf("failed to create region %s: %w", f.Name, err)
		}
	}

	logger.Info().Int("count", len(fixtures)).Msg("Seeded regions")
	return nil
}

func seedResources(db *gorm.DB, logger zerolog.Logger, userIDs map[string]string) (map[string]string, error) {
	fixtures, err := loadFixture[resourceFixture]("resources.yaml")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ids := make(map[string]string, len(fixtures))

	for _, f := range fixtures {
		providerID, ok := userIDs[f.Provider]
		if !ok {
			return nil, fmt.Errorf("resource %s: unknown provider %q", f.Title, f.Provider)
		}
		category, err := models.ParseResourceCategory(f.Category)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}
		status, err := models.ParseResourceStatus(f.Status)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}

		resource := models.Resource{
			Title:              f.Title,
			Description:        f.Description,
			Category:           category,
			ProviderID:         providerID,
			ProviderName:       f.ProviderName,
			ApplicationProcess: f.ApplicationProcess,
			Capacity:           f.Capacity,
			StartDate:          dayOffset(f.StartDateDays, now),
			EndDate:            dayOffset(f.EndDateDays, now),
			Status:             status,
			VerificationDate:   daysAgo(f.VerifiedDaysAgo, now),
		}

		if f.VerifiedBy != "" {
			adminID, ok := userIDs[f.VerifiedBy]
			if !ok {
				return nil, fmt.Errorf("resource %s: unknown verifier %q", f.Title, f.VerifiedBy)
			}
			resource.VerifiedBy = adminID
		}

		if resource.ProviderContact, err = jsonValue(f.ProviderContact); err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}
		if resource.Location, err = jsonValue(f.Location); err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}
		if resource.EligibilityCriteria, err = jsonValue(f.EligibilityCriteria); err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}
		if resource.RequiredDocuments, err = jsonValue(f.RequiredDocuments); err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}
		if resource.Availability, err = jsonValue(f.Availability); err != nil {
			return nil, fmt.Errorf("resource %s: %w", f.Title, err)
		}

		if err := db.Create(&resource).Error; err != nil {
			return nil, fmt.Errorf("failed to create resource %s: %w", f.Title, err)
		}
		ids[f.Title] = resource.ID
	}

	logger.Info().Int("count", len(fixtures)).Msg("Seeded resources")
	return ids, nil
}

func seedProfiles(db *gorm.DB, logger zerolog.Logger, userIDs map[string]string) error {
	fixtures, err := loadFixture[profileFixture]("profiles.yaml")
	if err != nil {
		return err
	}

	for _, f := range fixtures {
		userID, ok := userIDs[f.User]
		if !ok {
			return fmt.Errorf("profile for unknown user %q", f.User)
		}

		profile := models.Profile{
			UserID:        userID,
			FirstName:     f.FirstName,
			LastName:      f.LastName,
			Gender:        f.Gender,
			PhoneNumber:   f.PhoneNumber,
			IncomeLevel:   f.IncomeLevel,
			HouseholdSize: f.HouseholdSize,
			Dependents:    f.Dependents,
		}
		if profile.HouseholdSize == 0 {
			profile.HouseholdSize = 1
		}

		if f.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", f.DateOfBirth)
			if err != nil {
				return fmt.Errorf("profile %s: invalid date_of_birth: %w", f.User, err)
			}
			profile.DateOfBirth = &dob
		}

		if f.EducationLevel != "" {
			level, err := models.ParseEducationLevel(f.EducationLevel)
			if err != nil {
				return fmt.Errorf("profile %s: %w", f.User, err)
			}
			profile.EducationLevel = level
		} else {
			profile.EducationLevel = models.EducationNone
		}

		if f.EmploymentStatus != "" {
			status, err := models.ParseEmploymentStatus(f.EmploymentStatus)
			if err != nil {
				return fmt.Errorf("profile %s: %w", f.User, err)
			}
			profile.EmploymentStatus = status
		} else {
			profile.EmploymentStatus = models.EmploymentUnemployed
		}

		if profile.Address, err = jsonValue(f.Address); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.LocationCoordinates, err = jsonValue(f.LocationCoordinates); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.EducationHistory, err = jsonValue(f.EducationHistory); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.EmploymentHistory, err = jsonValue(f.EmploymentHistory); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.Skills, err = jsonValue(f.Skills); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.HealthInformation, err = jsonValue(f.HealthInformation); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.Needs, err = jsonValue(f.Needs); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}
		if profile.PrivacySettings, err = jsonValue(f.PrivacySettings); err != nil {
			return fmt.Errorf("profile %s: %w", f.User, err)
		}

		profile.CompletionPercentage = profile.CalculateCompletion()

		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile for %s: %w", f.User, err)
		}
	}

	logger.Info().Int("count", len(fixtures)).Msg("Seeded profiles")
	return nil
}

func seedApplications(db *gorm.DB, logger zerolog.Logger, userIDs, resourceIDs map[string]string) error {
	fixtures, err := loadFixture[applicationFixture]("applications.yaml")
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	for _, f := range fixtures {
		userID, ok := userIDs[f.User]
		if !ok {
			return fmt.Errorf("application for unknown user %q", f.User)
		}
		resourceID, ok := resourceIDs[f.Resource]
		if !ok {
			return fmt.Errorf("application for unknown resource %q", f.Resource)
		}
		status, err := models.ParseApplicationStatus(f.Status)
		if err != nil {
			return fmt.Errorf("application %s/%s: %w", f.User, f.Resource, err)
		}
		needLevel, err := models.ParseNeedLevel(f.NeedLevel)
		if err != nil {
			return fmt.Errorf("application %s/%s: %w", f.User, f.Resource, err)
		}

		application := models.ResourceApplication{
			UserID:      userID,
			ResourceID:  resourceID,
			Status:      status,
			NeedLevel:   needLevel,
			Reason:      f.Reason,
			Notes:       f.Notes,
			SubmittedAt: daysAgo(f.SubmittedDaysAgo, now),
			ReviewedAt:  daysAgo(f.ReviewedDaysAgo, now),
		}

		if f.ReviewedBy != "" {
			reviewerID, ok := userIDs[f.ReviewedBy]
			if !ok {
				return fmt.Errorf("application %s/%s: unknown reviewer %q", f.User, f.Resource, f.ReviewedBy)
			}
			application.ReviewedBy = reviewerID
		}

		if application.Documents, err = jsonValue(f.Documents); err != nil {
			return fmt.Errorf("application %s/%s: %w", f.User, f.Resource, err)
		}

		if err := db.Create(&application).Error; err != nil {
			return fmt.Errorf("failed to create application %s/%s: %w", f.User, f.Resource, err)
		}
	}

	logger.Info().Int("count", len(fixtures)).Msg("Seeded applications")
	return nil
}
