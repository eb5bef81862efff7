package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const DefaultSweepSchedule = "@hourly"

func Load() {
	// the START env var names the .env file to use (.env-local, .env.docker)
	if err := godotenv.Load(os.Getenv("START")); err != nil {
		log.Fatalf("Env file not found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatalf("JWT_SECRET is not set in environment")
	}
	if os.Getenv("SESSION_SECRET") == "" {
		log.Fatalf("SESSION_SECRET is not set in environment")
	}
	if os.Getenv("MYSQL_DSN") == "" {
		log.Fatalf("MySQLDSN is not set in environment")
	}
	if os.Getenv("MONGO_URI") == "" {
		log.Fatalf("MongoURI is not set in environment")
	}
	if os.Getenv("MONGO_DB_NAME") == "" {
		log.Fatalf("MongoDB is not set in environment")
	}
}

func SweepSchedule() string {
	if s := os.Getenv("SWEEP_SCHEDULE"); s != "" {
		return s
	}
	return DefaultSweepSchedule
}
