// config/config.go
package config

import (
	"log"
	"os"
	"time"
)

var (
	Port          string
	MongoURI      string
	DatabaseName  string
	JWTKey        []byte
	JWTExpiration time.Duration

	// AdminEmailPattern is the reserved super-admin address (or a suffix when
	// it starts with "@"). A first-time sign-in matching it bootstraps an
	// admin profile; every other first-time sign-in gets the viewer role.
	AdminEmailPattern string

	// Seed credential for the very first start against an empty database.
	BootstrapEmail    string
	BootstrapPassword string

	PublicBaseURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	ITInboxEmail string
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	DatabaseName = os.Getenv("DB_NAME")
	if DatabaseName == "" {
		DatabaseName = "assetdesk"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	expireStr := os.Getenv("JWT_EXPIRE")
	dur := 24 * time.Hour
	if expireStr != "" {
		if expireStr == "7d" {
			dur = 7 * 24 * time.Hour
		} else {
			var err error
			dur, err = time.ParseDuration(expireStr)
			if err != nil {
				log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
				dur = 24 * time.Hour
			}
		}
	}
	JWTExpiration = dur

	AdminEmailPattern = os.Getenv("ADMIN_EMAIL_PATTERN")
	if AdminEmailPattern == "" {
		AdminEmailPattern = "admin@"
	}

	BootstrapEmail = os.Getenv("BOOTSTRAP_EMAIL")
	BootstrapPassword = os.Getenv("BOOTSTRAP_PASSWORD")

	PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	if PublicBaseURL == "" {
		PublicBaseURL = "http://localhost:" + Port
	}

	SMTPHost = os.Getenv("SMTP_HOST")
	SMTPPort = os.Getenv("SMTP_PORT")
	if SMTPPort == "" {
		SMTPPort = "587"
	}
	SMTPUser = os.Getenv("SMTP_USER")
	SMTPPassword = os.Getenv("SMTP_PASSWORD")
	SMTPFrom = os.Getenv("SMTP_FROM")
	if SMTPFrom == "" {
		SMTPFrom = SMTPUser
	}
	ITInboxEmail = os.Getenv("IT_INBOX_EMAIL")
}
