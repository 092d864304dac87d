package seed

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/models"
)

const defaultPassword = "Password123!"

// Run populates the database with a small fixed data set for local
// development. It is a no-op when any user already exists.
func Run(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug().Msg("database already seeded, skipping")
		return nil
	}

	log.Info().Msg("seeding development data")

	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedClerk(tx); err != nil {
			return err
		}
		doctors, err := seedDoctors(tx)
		if err != nil {
			return err
		}
		patients, err := seedPatients(tx)
		if err != nil {
			return err
		}
		return seedAppointments(tx, doctors, patients)
	})
}

func createUser(tx *gorm.DB, email, firstName, lastName string, role models.Role) (*models.User, error) {
	user := models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}
	if err := user.SetPassword(defaultPassword); err != nil {
		return nil, err
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedClerk(tx *gorm.DB) error {
	user, err := createUser(tx, "clerk@clinic.local", "Claire", "Front", models.RoleClerk)
	if err != nil {
		return err
	}
	return tx.Create(&models.Clerk{UserID: user.ID, Department: "Front Desk"}).Error
}

func seedDoctors(tx *gorm.DB) ([]models.Doctor, error) {
	specs := []struct {
		email, first, last, specialization string
	}{
		{"a.house@clinic.local", "Alice", "House", "General Practitioner"},
		{"b.grey@clinic.local", "Ben", "Grey", "Cardiology"},
		{"c.wilson@clinic.local", "Carol", "Wilson", "Dermatology"},
	}

	doctors := make([]models.Doctor, 0, len(specs))
	for _, s := range specs {
		user, err := createUser(tx, s.email, s.first, s.last, models.RoleDoctor)
		if err != nil {
			return nil, err
		}
		doctor := models.Doctor{UserID: user.ID, Specialization: s.specialization}
		if err := tx.Create(&doctor).Error; err != nil {
			return nil, err
		}
		doctors = append(doctors, doctor)
	}
	return doctors, nil
}

func seedPatients(tx *gorm.DB) ([]models.Patient, error) {
	people := []struct {
		email, first, last string
	}{
		{"d.smith@example.com", "Dana", "Smith"},
		{"e.jones@example.com", "Evan", "Jones"},
		{"f.brown@example.com", "Fay", "Brown"},
		{"g.davis@example.com", "Gus", "Davis"},
	}

	patients := make([]models.Patient, 0, len(people))
	for i, p := range people {
		user, err := createUser(tx, p.email, p.first, p.last, models.RolePatient)
		if err != nil {
			return nil, err
		}
		dob := time.Date(1980+5*i, time.March, 12, 0, 0, 0, 0, time.UTC)
		patient := models.Patient{UserID: user.ID, DateOfBirth: &dob}
		if err := tx.Create(&patient).Error; err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	return patients, nil
}

func seedAppointments(tx *gorm.DB, doctors []models.Doctor, patients []models.Patient) error {
	if len(doctors) == 0 || len(patients) == 0 {
		return errors.New("seed requires at least one doctor and one patient")
	}

	now := time.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	lastWeek := tomorrow.AddDate(0, 0, -8)

	appointments := []models.Appointment{
		{
			PatientID:       patients[0].ID,
			DoctorID:        doctors[0].ID,
			AppointmentDate: tomorrow,
			Reason:          "Annual checkup",
			Status:          models.StatusScheduled,
			CreatedBy:       patients[0].UserID,
		},
		{
			PatientID:       patients[1].ID,
			DoctorID:        doctors[0].ID,
			AppointmentDate: tomorrow.Add(30 * time.Minute),
			Reason:          "Follow-up visit",
			Status:          models.StatusScheduled,
			CreatedBy:       patients[1].UserID,
		},
		{
			PatientID:       patients[2].ID,
			DoctorID:        doctors[1].ID,
			AppointmentDate: tomorrow.Add(2 * time.Hour),
			Reason:          "Chest pain consultation",
			Status:          models.StatusScheduled,
			CreatedBy:       patients[2].UserID,
		},
		{
			PatientID:       patients[0].ID,
			DoctorID:        doctors[1].ID,
			AppointmentDate: lastWeek,
			Reason:          "Blood pressure review",
			Status:          models.StatusCompleted,
			DoctorNotes:     "BP within normal range. Continue current medication.",
			CreatedBy:       patients[0].UserID,
		},
		{
			PatientID:       patients[3].ID,
			DoctorID:        doctors[2].ID,
			AppointmentDate: lastWeek.Add(time.Hour),
			Reason:          "Skin rash",
			Status:          models.StatusCancelled,
			CreatedBy:       patients[3].UserID,
		},
	}

	for i := range appointments {
		appointments[i].DurationMinutes = 30
		if appointments[i].Status == models.StatusCancelled {
			cancelledAt := lastWeek.AddDate(0, 0, -1)
			appointments[i].CancelledAt = &cancelledAt
		}
		if err := tx.Create(&appointments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
