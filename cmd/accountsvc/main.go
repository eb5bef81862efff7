package main

import (
	"os"

	"accountsvc/internal/config"
	"accountsvc/internal/logger"
	"accountsvc/internal/mongo"
	"accountsvc/internal/mysql"
	"accountsvc/internal/routing"
	"accountsvc/pkg/middleware"
	"accountsvc/pkg/session"
	"accountsvc/pkg/token"

	"github.com/gorilla/mux"
)

func main() {
	config.Load() // load env var from .env

	db := mysql.LoadDB()
	defer db.Close()

	mongoDB := mongo.LoadDB()

	logger := logger.Load()

	// secrets are read once at startup; the envelope key is derived here
	// and reused for the process lifetime
	cipher := session.NewCipher(os.Getenv("SESSION_SECRET"))
	issuer := token.NewIssuer(os.Getenv("JWT_SECRET"))

	sweeper, err := session.StartSweeper(session.NewMySQLSessionRepo(db), config.SweepSchedule(), logger)
	if err != nil {
		logger.Error("failed to start session sweeper", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Panic(logger))
	api.Use(middleware.RequestID(logger))

	routing.InitRoutes(api, db, mongoDB, cipher, issuer, logger)
	routing.StartServer(r) // start server on localhost:8082
}
