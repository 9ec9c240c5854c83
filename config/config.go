package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ars-patel/TaskHub-Backend/logging"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	ServerPort  string
	JWTSecret   string
	LogFile     string
}

// Load reads the .env file if present and falls back to process environment
// variables for every key.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logging.Logger.Warn("Event ID: ENV_FILE_MISSING, Description: No .env file found, using system environment variables")
	}

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "taskhub"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		LogFile:     getEnv("LOG_FILE", "logs/taskhub.log"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
