package routes

import (
	"emberly_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up routes for like/dislike/unmatch operations under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, controller *controllers.InteractionController) {
	// Create a subrouter for /api/interactions
	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()

	// Define routes and their corresponding handlers
	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/likeWithMessage", controller.HandleLikeWithMessage).Methods("POST")
	interactionRouter.HandleFunc("/dislike", controller.HandleDislike).Methods("POST")
	interactionRouter.HandleFunc("/unmatch", controller.HandleUnmatch).Methods("POST")
}
