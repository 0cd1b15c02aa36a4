package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"callbot-management/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "callbot_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedRootAccount ensures the root admin exists. Credentials come from
// ROOT_ID / ROOT_PW so a fresh deployment is immediately usable.
func SeedRootAccount() {
	rootID := envOrDefault("ROOT_ID", "admin")
	rootPW := envOrDefault("ROOT_PW", "12345678")

	var count int64
	DB.Model(&models.Account{}).Where("user_id = ?", rootID).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rootPW), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warning: failed to hash root password: %v", err)
		return
	}

	root := models.Account{
		UserID:      rootID,
		Password:    string(hash),
		Email:       "root@example.com",
		PhoneNumber: "010-0000-0000",
		IsRoot:      true,
		IsApproved:  true,
	}
	if err := DB.Create(&root).Error; err != nil {
		log.Printf("warning: failed to seed root account: %v", err)
		return
	}
	log.Printf("Root account seeded: %s", rootID)
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.Account{},
		&models.Vulnerable{},
		&models.VulnerableSession{},
		&models.QuestionSet{},
		&models.Consultation{},
	); err != nil {
		return err
	}

	SeedRootAccount()
	return nil
}
