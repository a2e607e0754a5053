package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DefaultReportURL is the published faltando.json the lookup form reads.
const DefaultReportURL = "https://raw.githubusercontent.com/msv-stihl/limpeza/master/faltando.json"

// Config holds every setting of the application.
type Config struct {
	ServerPort string
	Timezone   string

	// Lookup
	ReportSource string // http | file | redis
	ReportURL    string
	ReportFile   string
	ReportKey    string

	// Builder
	ScheduleWorkbook string
	ScheduleSheetID  string
	GoogleCredFile   string
	ReadingsFrom     string // workbook | db
	OutputFile       string
	RebuildInterval  time.Duration
	WatchSchedule    bool

	// Storage
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JwtSecret         string
	AdminUsername     string
	AdminPasswordHash string

	// Git sync
	GitEnabled   bool
	GitRepoPath  string
	GitRepo      string
	GitToken     string
	GitBranch    string
	GitUserName  string
	GitUserEmail string
}

// NewConfig loads .env (if any) and builds the config from the environment.
func NewConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "6066"),
		Timezone:   getEnv("TIMEZONE", "America/Sao_Paulo"),

		ReportSource: strings.ToLower(getEnv("REPORT_SOURCE", "http")),
		ReportURL:    getEnv("REPORT_URL", DefaultReportURL),
		ReportFile:   getEnv("REPORT_FILE", "frontend/faltando.json"),
		ReportKey:    getEnv("REPORT_REDIS_KEY", "limpeza:faltando"),

		ScheduleWorkbook: getEnv("SCHEDULE_WORKBOOK", "cronograma_lc.xlsx"),
		ScheduleSheetID:  getEnv("SCHEDULE_SHEET_ID", ""),
		GoogleCredFile:   getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		ReadingsFrom:     strings.ToLower(getEnv("READINGS_FROM", "workbook")),
		OutputFile:       getEnv("OUTPUT_FILE", "frontend/faltando.json"),
		RebuildInterval:  getEnvDuration("REBUILD_INTERVAL", 0),
		WatchSchedule:    getEnvBool("WATCH_SCHEDULE", false),

		DatabaseDSN:   getEnv("DATABASE_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JwtSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		GitEnabled:   getEnvBool("GIT_SYNC", false),
		GitRepoPath:  getEnv("GIT_REPO_PATH", "."),
		GitRepo:      getEnv("GITHUB_REPO", "msv-stihl/limpeza"),
		GitToken:     getEnv("GITHUB_TOKEN", ""),
		GitBranch:    getEnv("GIT_BRANCH", "main"),
		GitUserName:  getEnv("GIT_USER_NAME", "Coletor Automático"),
		GitUserEmail: getEnv("GIT_USER_EMAIL", "coletor@manserv.com.br"),
	}
}

// Location resolves Timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}
