package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"studentcp-server-go/config"
	"studentcp-server-go/db"
	"studentcp-server-go/handlers"
	"studentcp-server-go/logging"
	"studentcp-server-go/models"
)

func main() {
	v, err := config.New(".env")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	conf := config.Load(v)
	logger := logging.New(conf.LogLevel, conf.LogFormat)
	gin.SetMode(conf.GinMode)

	students := db.NewStudentStore(conf.StudentsFile, logger)
	projects := db.NewProjectStore(conf.ProjectsFile, logger)

	trash, redisClient := setUpTrash(conf, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	if conf.Seed {
		checkAndSeedData(students, logger)
	}

	apiHandler := handlers.NewAPIHandler(students, projects, trash, logger, handlers.Options{
		AdminUsername:          conf.AdminUsername,
		AdminPassword:          conf.AdminPassword,
		LowAttendanceThreshold: conf.LowAttendanceThreshold,
		PassMark:               conf.PassMark,
	})
	apiHandler.Redis = redisClient

	server := &http.Server{
		Addr:    ":" + conf.Port,
		Handler: handlers.NewRouter(apiHandler, logger),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("Server running on port %s", conf.Port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to run server: %v", err)
		}
	case sig := <-shutdown:
		logger.Infof("%v: Start shutdown...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Could not stop server gracefully")
			_ = server.Close()
		}
	}
	logger.Info("Server stopped")
}

// setUpTrash picks the Redis-backed trash when Redis is configured and
// reachable, and the in-memory one otherwise.
func setUpTrash(conf config.Config, logger *logrus.Logger) (db.Trash, *redis.Client) {
	if conf.RedisAddr == "" {
		return db.NewMemoryTrash(conf.TrashSize), nil
	}
	client, err := db.InitializeRedisClient(context.Background(), conf.RedisAddr, conf.RedisPassword, conf.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, keeping deleted students in memory")
		return db.NewMemoryTrash(conf.TrashSize), nil
	}
	logger.WithField("addr", conf.RedisAddr).Info("Connected to Redis")
	return db.NewRedisTrash(client, conf.TrashSize), client
}

// checkAndSeedData adds demo students when the store is empty.
func checkAndSeedData(students *db.StudentStore, logger *logrus.Logger) {
	if n := students.Count(); n > 0 {
		logger.WithField("count", n).Info("Found existing students, skipping seed data")
		return
	}
	logger.Info("No students found, adding seed data")
	students.Add(seedStudents()...)
}

func seedStudents() []models.Student {
	intp := func(v int) *int { return &v }
	return []models.Student{
		{PRN: 1001, Name: "Aarav Patil", RollNo: 1, Year: 1, Division: "A", Present: intp(40), Total: intp(45), Marks: []float64{78, 82, 69, 88, 91}},
		{PRN: 1002, Name: "Diya Kulkarni", RollNo: 2, Year: 1, Division: "B", Present: intp(30), Total: intp(45), Marks: []float64{55, 61, 48, 70, 66}},
		{PRN: 2001, Name: "Rohan Deshmukh", RollNo: 1, Year: 2, Division: "A", Present: intp(42), Total: intp(44), Marks: []float64{92, 88, 95, 90, 87}},
		{PRN: 3001, Name: "Sneha Joshi", RollNo: 5, Year: 3, Division: "A", Present: intp(25), Total: intp(40), Marks: []float64{30, 28, 41, 35, 22}},
		{PRN: 4001, Name: "Kabir Shah", RollNo: 3, Year: 4, Division: "C", Present: intp(38), Total: intp(40), Marks: []float64{71, 64, 80, 77, 69}},
	}
}
