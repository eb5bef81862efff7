package routing

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"accountsvc/pkg/audit"
	"accountsvc/pkg/auth"
	"accountsvc/pkg/handlers"
	"accountsvc/pkg/middleware"
	"accountsvc/pkg/session"
	"accountsvc/pkg/token"
	"accountsvc/pkg/user"
)

func InitRoutes(api *mux.Router, db *sql.DB, mongoDB *mongo.Database,
	cipher *session.Cipher, issuer *token.Issuer, logger *slog.Logger) {

	userRepo := user.NewMySQLRepo(db)
	sessionRepo := session.NewMySQLSessionRepo(db)
	auditRepo := audit.NewMongoRepo(mongoDB)

	authService := auth.NewService(userRepo, sessionRepo, cipher, issuer, auditRepo, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)

	userService := user.NewService(userRepo, sessionRepo)
	accountHandler := handlers.NewAccountHandler(userService, auditRepo, logger)

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	authRouter := api.PathPrefix("").Subrouter()
	usersRouter := api.PathPrefix("/users").Subrouter()
	userRouter := api.PathPrefix("/user").Subrouter()

	/* auth routers */
	authRouter.HandleFunc("/register", accountHandler.Register).Methods("POST").Name("register")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST").Name("login")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("POST").Name("logout")
	authRouter.HandleFunc("/verify-session", authHandler.VerifySession).Methods("POST")
	authRouter.HandleFunc("/verify-token", authHandler.VerifyToken).Methods("GET")

	/* account routers, bearer token required */
	usersRouter.Use(middleware.CheckJWT(issuer))
	usersRouter.HandleFunc("", accountHandler.ListUsers).Methods("GET")
	usersRouter.HandleFunc("/", accountHandler.ListUsers).Methods("GET")

	userRouter.Use(middleware.CheckJWT(issuer))
	userRouter.HandleFunc("/{id:[0-9]+}", accountHandler.GetUser).Methods("GET")
	userRouter.HandleFunc("/{id:[0-9]+}", accountHandler.UpdateUser).Methods("PUT")
	userRouter.HandleFunc("/{id:[0-9]+}", accountHandler.DeleteUser).Methods("DELETE")
	userRouter.HandleFunc("/{id:[0-9]+}/password", accountHandler.ChangePassword).Methods("PUT")
	userRouter.HandleFunc("/{id:[0-9]+}/events", accountHandler.RecentEvents).Methods("GET")
}

func StartServer(r *mux.Router) {
	fmt.Println("\n\033[32m", "The server is running on http://localhost:8082", "\033[0m")
	if err := http.ListenAndServe(":8082", r); err != nil {
		log.Fatal("Server failed:", err)
	}
}
