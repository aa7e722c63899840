// Package fixtures seeds the in-memory backend for demo mode: two known
// login accounts plus a month of generated attendance history, so the API
// is explorable without a database.
package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

const (
	historyDays = 30

	// Seeded office location, jittered per record
	officeLatitude  = -6.2000
	officeLongitude = 106.8167
)

// Seed populates the repositories with demo accounts and their attendance
// history. Generation is pseudo-random but deterministic for a given day,
// so restarts within the same day produce the same ledger.
func Seed(ctx context.Context, userRepo user.UserRepository, attendanceRepo attendance.Repository, rules attendance.Rules, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	passwordHash := string(hash)

	engineering := "Engineering"
	operations := "Operations"

	accounts := []user.User{
		{
			Email:        "admin@example.com",
			PasswordHash: &passwordHash,
			FirstName:    "Ava",
			LastName:     "Admin",
			Role:         user.RoleAdmin,
			Department:   &operations,
		},
		{
			Email:        "employee@example.com",
			PasswordHash: &passwordHash,
			FirstName:    "Eko",
			LastName:     "Employee",
			Role:         user.RoleEmployee,
			Department:   &engineering,
		},
		{
			Email:        "sari@example.com",
			PasswordHash: &passwordHash,
			FirstName:    "Sari",
			LastName:     "Wijaya",
			Role:         user.RoleEmployee,
			Department:   &engineering,
		},
	}

	rng := rand.New(rand.NewSource(int64(now.Year())*10000 + int64(now.YearDay())))

	for i := range accounts {
		created, err := userRepo.Create(ctx, accounts[i])
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", accounts[i].Email, err)
		}
		if err := seedHistory(ctx, attendanceRepo, created.ID, rules, now, rng); err != nil {
			return err
		}
	}

	return nil
}

// seedHistory writes one record per weekday over the trailing window,
// leaving today open so demo users can check in themselves.
func seedHistory(ctx context.Context, repo attendance.Repository, userID string, rules attendance.Rules, now time.Time, rng *rand.Rand) error {
	for daysAgo := historyDays; daysAgo >= 1; daysAgo-- {
		day := now.AddDate(0, 0, -daysAgo)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		rec := generateRecord(userID, day, rules, rng)
		if _, err := repo.Insert(ctx, rec); err != nil {
			return fmt.Errorf("failed to seed attendance for %s on %s: %w", userID, rec.Date, err)
		}
	}
	return nil
}

func generateRecord(userID string, day time.Time, rules attendance.Rules, rng *rand.Rand) attendance.Record {
	date := attendance.DateOf(day)

	// Roughly one absence a fortnight
	if rng.Intn(10) == 0 {
		reason := absenceReasons[rng.Intn(len(absenceReasons))]
		return attendance.Record{
			UserID:        userID,
			Date:          date,
			Status:        attendance.StatusAbsent,
			AbsenceReason: &reason,
			CreatedAt:     time.Date(day.Year(), day.Month(), day.Day(), 7, 30, 0, 0, day.Location()),
			UpdatedAt:     time.Date(day.Year(), day.Month(), day.Day(), 7, 30, 0, 0, day.Location()),
		}
	}

	// Check-in lands between one hour before the late threshold and one
	// minute before the cutoff
	windowStart := (rules.LateHour - 1) * 60
	windowEnd := rules.CutoffHour*60 - 1
	minuteOfDay := windowStart + rng.Intn(windowEnd-windowStart+1)

	checkIn := time.Date(day.Year(), day.Month(), day.Day(), minuteOfDay/60, minuteOfDay%60, rng.Intn(60), 0, day.Location())
	checkOut := time.Date(day.Year(), day.Month(), day.Day(), 17, rng.Intn(60), 0, 0, day.Location())

	rec := attendance.Record{
		UserID:          userID,
		Date:            date,
		CheckInTime:     &checkIn,
		CheckOutTime:    &checkOut,
		CheckInLocation: jitteredLocation(rng),
		Status:          rules.StatusAt(checkIn),
		CreatedAt:       checkIn,
		UpdatedAt:       checkOut,
	}
	rec.CheckOutLocation = jitteredLocation(rng)
	return rec
}

func jitteredLocation(rng *rand.Rand) *attendance.GeoLocation {
	accuracy := 5 + rng.Float64()*20
	return &attendance.GeoLocation{
		Latitude:  officeLatitude + (rng.Float64()-0.5)*0.001,
		Longitude: officeLongitude + (rng.Float64()-0.5)*0.001,
		Accuracy:  &accuracy,
	}
}

var absenceReasons = []string{
	"sick leave",
	"family matter",
	"medical appointment",
	"home internet outage",
}
