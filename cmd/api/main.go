package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/attendly/attendance-backend-go/internal/config"
	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/fixtures"
	appHTTP "github.com/attendly/attendance-backend-go/internal/handler/http"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/geolocation"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/repository/memory"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
	authService "github.com/attendly/attendance-backend-go/internal/service/auth"
	reportService "github.com/attendly/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	rules := attendance.Rules{
		CutoffHour: cfg.Attendance.CutoffHour,
		LateHour:   cfg.Attendance.LateHour,
	}

	var (
		userRepo       user.UserRepository
		attendanceRepo attendance.Repository
		resolver       geolocation.Resolver
	)

	switch cfg.Ledger.Backend {
	case "memory":
		userRepo = memory.NewUserRepository()
		attendanceRepo = memory.NewAttendanceRepository()

		// No device sensor behind the API in demo mode; resolve to the
		// seeded office location
		resolver = geolocation.StaticResolver{
			Location: attendance.GeoLocation{Latitude: -6.2000, Longitude: 106.8167},
		}

		if err := fixtures.Seed(context.Background(), userRepo, attendanceRepo, rules, time.Now()); err != nil {
			fmt.Println("Error seeding demo data:", err)
			return
		}
		fmt.Printf("Demo mode: login as admin@example.com or employee@example.com (password %q)\n", fixtures.DemoPassword)

	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			fmt.Println("Error connecting to database:", err)
			return
		}
		userRepo = postgresql.NewUserRepository(db)
		attendanceRepo = postgresql.NewAttendanceRepository(db)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := authService.NewAuthService(userRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		userRepo,
		rules,
		resolver,
		cfg.Attendance.LocationTimeout,
		time.Now,
	)
	reportSvc := reportService.NewReportService(attendanceRepo, userRepo)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			FrontendURL: cfg.App.FrontendURL,
			Env:         cfg.App.Env,
		},
		jwtService,
		authHandler,
		attendanceHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
