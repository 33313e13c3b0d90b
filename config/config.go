package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by the server,
// e.g. STUDENTCP_PORT.
const EnvPrefix = "STUDENTCP"

// Config holds the server settings.
type Config struct {
	Port         string
	StudentsFile string
	ProjectsFile string

	AdminUsername string
	AdminPassword string

	LowAttendanceThreshold float64
	PassMark               float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TrashSize     int

	Seed            bool
	LogLevel        string
	LogFormat       string
	GinMode         string
	ShutdownTimeout time.Duration
}

// New builds a viper instance with defaults and environment bindings.
// If dotEnvPath exists it is loaded into the process environment first;
// a missing file is not an error.
func New(dotEnvPath string) (*viper.Viper, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("port", "5000")
	v.SetDefault("studentsFile", "students.json")
	v.SetDefault("projectsFile", "projects.json")
	v.SetDefault("adminUsername", "admin")
	v.SetDefault("adminPassword", "admin123")
	v.SetDefault("lowAttendanceThreshold", 75.0)
	v.SetDefault("passMark", 35.0)
	v.SetDefault("redisAddr", "")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("trashSize", 20)
	v.SetDefault("seed", false)
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "text")
	v.SetDefault("ginMode", "release")
	v.SetDefault("shutdownTimeout", 5*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v, nil
}

// Load reads the effective settings out of v.
func Load(v *viper.Viper) Config {
	return Config{
		Port:                   v.GetString("port"),
		StudentsFile:           v.GetString("studentsFile"),
		ProjectsFile:           v.GetString("projectsFile"),
		AdminUsername:          v.GetString("adminUsername"),
		AdminPassword:          v.GetString("adminPassword"),
		LowAttendanceThreshold: v.GetFloat64("lowAttendanceThreshold"),
		PassMark:               v.GetFloat64("passMark"),
		RedisAddr:              v.GetString("redisAddr"),
		RedisPassword:          v.GetString("redisPassword"),
		RedisDB:                v.GetInt("redisDB"),
		TrashSize:              v.GetInt("trashSize"),
		Seed:                   v.GetBool("seed"),
		LogLevel:               v.GetString("logLevel"),
		LogFormat:              v.GetString("logFormat"),
		GinMode:                v.GetString("ginMode"),
		ShutdownTimeout:        v.GetDuration("shutdownTimeout"),
	}
}
