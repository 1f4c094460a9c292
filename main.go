package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"emberly_server/controllers"
	"emberly_server/routes"
	"emberly_server/services"
	"emberly_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	profileService := &services.ProfileService{Dynamo: dynamoService}
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService}
	quotaStore := &services.DynamoQuotaStore{Dynamo: dynamoService}

	ledgerService := services.NewLedgerService(matchStore, profileService)
	quotaService := services.NewQuotaService(quotaStore, profileService)
	rankerService := services.NewRankerService(os.Getenv("RANKING_BASIS"))

	// Initialize the Socket.IO server and the match notifier on top of it
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()

	emitter := &socket.MatchEmitter{Server: socketServer}
	notifierService := services.NewNotifierService(emitter, services.LogPushSender{})

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Emberly")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Mount the Socket.IO endpoint
	r.Handle("/socket.io/", socketServer)

	// Register routes
	interactionController := controllers.NewInteractionController(ledgerService, quotaService, notifierService)
	candidateController := controllers.NewCandidateController(profileService, ledgerService, rankerService)
	routes.RegisterInteractionRoutes(r, interactionController)
	routes.RegisterCandidateRoutes(r, candidateController)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
