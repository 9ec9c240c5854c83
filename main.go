package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ars-patel/TaskHub-Backend/config"
	"github.com/ars-patel/TaskHub-Backend/handlers"
	"github.com/ars-patel/TaskHub-Backend/logging"
	"github.com/ars-patel/TaskHub-Backend/middleware"
	"github.com/ars-patel/TaskHub-Backend/services"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.LogFile)

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting TaskHub backend...")

	if cfg.JWTSecret == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The connection pool is the only shared state across handlers: bounded
	// pool, fail-fast server selection, idle socket timeout.
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(20 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDBName)
	usersCollection := db.Collection("users")
	tasksCollection := db.Collection("tasks")
	commentsCollection := db.Collection("comments")

	dashboardBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "DashboardAggregationCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	authService := services.NewAuthService(usersCollection)
	userService := services.NewUserService(usersCollection, tasksCollection)
	taskService := services.NewTaskService(tasksCollection, usersCollection)
	commentService := services.NewCommentService(commentsCollection, tasksCollection, usersCollection)
	dashboardService := services.NewDashboardService(tasksCollection, dashboardBreaker)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(userService))

	protected.HandleFunc("/auth/profile", authHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	protected.HandleFunc("/users", userHandler.GetMembers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", userHandler.GetUserByID).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks", taskHandler.ListTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id}/status", taskHandler.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{id}/checklist", taskHandler.UpdateChecklist).Methods(http.MethodPatch)

	protected.HandleFunc("/tasks/{taskId}/comments", commentHandler.ListComments).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{taskId}/comments", commentHandler.AddComment).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{taskId}/comments", commentHandler.DeleteAllComments).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{taskId}/comments/{commentId}", commentHandler.EditComment).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{taskId}/comments/{commentId}", commentHandler.DeleteComment).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{taskId}/comments/{commentId}/reactions", commentHandler.AddReaction).Methods(http.MethodPost)

	protected.HandleFunc("/dashboard/admin", dashboardHandler.AdminDashboard).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/member", dashboardHandler.MemberDashboard).Methods(http.MethodGet)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      enableCORS(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
