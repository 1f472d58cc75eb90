package storage

import (
	"fmt"
	"log"
	"os"

	"metapool/internal/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// TranslateError нужен, чтобы дубликат roll_no ловился как gorm.ErrDuplicatedKey,
	// а не разбором текста ошибки Postgres.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Ошибка подключения к базе данных:", err)
	}

	DB = db
	fmt.Println("Подключение к базе данных успешно!")
}

// Migrate создаёт последовательность талонов, таблицы и единственную строку настроек.
// Последовательность создаётся до AutoMigrate: на неё ссылается default колонки token_number.
func Migrate() error {
	if err := DB.Exec("CREATE SEQUENCE IF NOT EXISTS participant_tokens START 1").Error; err != nil {
		return err
	}
	if err := DB.AutoMigrate(&models.AdminUser{}, &models.Participant{}, &models.QueueSettings{}); err != nil {
		return err
	}
	settings := models.QueueSettings{ID: models.QueueSettingsID}
	return DB.FirstOrCreate(&settings, "id = ?", models.QueueSettingsID).Error
}

var RedisClient *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

func ConnectTestingDatabase() {
	host := os.Getenv("TEST_DB_HOST")
	port := os.Getenv("TEST_DB_PORT")
	user := os.Getenv("TEST_DB_USER")
	password := os.Getenv("TEST_DB_PASSWORD")
	dbname := os.Getenv("TEST_DB_NAME")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Ошибка подключения к базе данных:", err)
	}

	DB = db
	fmt.Println("Подключение к базе данных успешно!")
}
