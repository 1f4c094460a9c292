package routes

import (
	"emberly_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterCandidateRoutes sets up the ranked candidate feed under /api/candidates
func RegisterCandidateRoutes(r *mux.Router, controller *controllers.CandidateController) {
	candidateRouter := r.PathPrefix("/api/candidates").Subrouter()

	candidateRouter.HandleFunc("", controller.HandleGetCandidates).Methods("GET")
	candidateRouter.HandleFunc("/", controller.HandleGetCandidates).Methods("GET")
}
