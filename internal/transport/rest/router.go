package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"storyfusion/internal/config"
	"storyfusion/internal/dataset"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
	"storyfusion/internal/transport/rest/handler"
	"storyfusion/internal/transport/rest/middleware"
	"storyfusion/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AnswerService      *service.AnswerService
	CommentService     *service.CommentService
	PredictionService  *service.PredictionService
	WorkNounService    *service.NounService
	FictionNounService *service.NounService
	AdminService       *service.AdminService
	Catalog            *dataset.Catalog
	WSHub              *ws.Hub
	CORS               config.CORSConfig
	Log                *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	answerHandler := handler.NewAnswerHandler(c.AnswerService, c.Log)
	commentHandler := handler.NewCommentHandler(c.CommentService, c.Log)
	predictionHandler := handler.NewPredictionHandler(c.PredictionService, c.Log)
	workNounHandler := handler.NewNounHandler(c.WorkNounService, c.Log)
	fictionNounHandler := handler.NewNounHandler(c.FictionNounService, c.Log)
	catalogHandler := handler.NewCatalogHandler(c.Catalog)
	adminHandler := handler.NewAdminHandler(c.AdminService, c.Log)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.CORS))
	r.Use(middleware.RequestLogger(c.Log))

	r.HandleFunc("/health", adminHandler.Health).Methods("GET")
	r.HandleFunc("/init", adminHandler.Init).Methods("POST", "OPTIONS")

	// Reference data
	r.HandleFunc("/works", catalogHandler.Works).Methods("GET", "OPTIONS")
	r.HandleFunc("/works/{id}", catalogHandler.Work).Methods("GET", "OPTIONS")
	r.HandleFunc("/questions/practice", catalogHandler.PracticeQuestions).Methods("GET", "OPTIONS")
	r.HandleFunc("/questions/practice/{index}", catalogHandler.PracticeQuestion).Methods("GET", "OPTIONS")
	r.HandleFunc("/questions/test", catalogHandler.TestQuestions).Methods("GET", "OPTIONS")
	r.HandleFunc("/questions/test/{id}", catalogHandler.TestQuestion).Methods("GET", "OPTIONS")

	// Answers
	r.HandleFunc("/answers/{kind:practice|test}", answerHandler.List).Methods("GET", "OPTIONS")
	r.HandleFunc("/answers/{kind:practice|test}", answerHandler.Submit).Methods("POST", "OPTIONS")
	r.HandleFunc("/answers/{kind:practice|test}/latest", answerHandler.Latest).Methods("GET", "OPTIONS")

	// Comments
	r.HandleFunc("/comments/work", commentHandler.ListWork).Methods("GET", "OPTIONS")
	r.HandleFunc("/comments/work", commentHandler.CreateWork).Methods("POST", "OPTIONS")
	r.HandleFunc("/comments/work", commentHandler.UpdateWork).Methods("PUT", "OPTIONS")
	r.HandleFunc("/comments/work", commentHandler.DeleteWork).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/comments/question", commentHandler.GetQuestion).Methods("GET", "OPTIONS")
	r.HandleFunc("/comments/question", commentHandler.SaveQuestion).Methods("PUT", "OPTIONS")

	// Noun caches
	for path, h := range map[string]*handler.NounHandler{
		"/nouns":         workNounHandler,
		"/nouns/fiction": fictionNounHandler,
	} {
		r.HandleFunc(path, h.Init).Methods("PUT", "OPTIONS")
		r.HandleFunc(path, h.Get).Methods("GET", "OPTIONS")
		r.HandleFunc(path, h.Import).Methods("POST", "OPTIONS")
		r.HandleFunc(path, h.Clear).Methods("DELETE", "OPTIONS")
	}

	// Predictions
	r.HandleFunc("/predictions/practice/leaderboard", predictionHandler.Leaderboard).Methods("GET", "OPTIONS")
	r.HandleFunc("/predictions/practice", predictionHandler.Init).Methods("PUT", "OPTIONS")
	r.HandleFunc("/predictions/practice", predictionHandler.List).Methods("GET", "OPTIONS")
	r.HandleFunc("/predictions/practice", predictionHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/predictions/practice", predictionHandler.Delete).Methods("DELETE", "OPTIONS")

	// WebSocket
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.Log)
		r.HandleFunc("/ws/{topic}", wsHandler.Subscribe).Methods("GET")
	}

	return r
}
