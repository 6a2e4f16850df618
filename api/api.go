// Package api exposes the survey engine over HTTP. Query endpoints are open;
// every mutating endpoint derives the caller principal from an EIP-191
// signature carried in the request body.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/confidential-survey/survey"
	"go.vocdoni.io/dvote/log"
)

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port and the survey engine instance to expose.
type APIConfig struct {
	Host   string
	Port   int
	Engine *survey.Engine
}

// API type represents the API HTTP server.
type API struct {
	router *chi.Mux
	engine *survey.Engine
}

// New creates a new API instance with the given configuration and starts the
// HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Engine == nil {
		return nil, fmt.Errorf("missing survey engine instance")
	}
	a := &API{
		engine: conf.Engine,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", SurveyEndpoint, "method", "GET")
	a.router.Get(SurveyEndpoint, a.surveyInfo)
	log.Infow("register handler", "endpoint", SurveyStatsEndpoint, "method", "GET")
	a.router.Get(SurveyStatsEndpoint, a.surveyStats)
	log.Infow("register handler", "endpoint", SurveyResultsEndpoint, "method", "GET")
	a.router.Get(SurveyResultsEndpoint, a.surveyResults)
	log.Infow("register handler", "endpoint", TopOptionsEndpoint, "method", "GET")
	a.router.Get(TopOptionsEndpoint, a.topOptions)
	log.Infow("register handler", "endpoint", OptionEndpoint, "method", "GET")
	a.router.Get(OptionEndpoint, a.optionLabel)
	log.Infow("register handler", "endpoint", TalliesEndpoint, "method", "GET")
	a.router.Get(TalliesEndpoint, a.allTallies)
	log.Infow("register handler", "endpoint", TallyEndpoint, "method", "GET")
	a.router.Get(TallyEndpoint, a.tally)
	log.Infow("register handler", "endpoint", ParticipantEndpoint, "method", "GET")
	a.router.Get(ParticipantEndpoint, a.participant)
	log.Infow("register handler", "endpoint", ViewersEndpoint, "method", "GET")
	a.router.Get(ViewersEndpoint, a.viewerList)
	log.Infow("register handler", "endpoint", ViewerEndpoint, "method", "GET")
	a.router.Get(ViewerEndpoint, a.viewerDetails)
	log.Infow("register handler", "endpoint", EventsEndpoint, "method", "GET")
	a.router.Get(EventsEndpoint, a.events)

	log.Infow("register handler", "endpoint", ResponsesEndpoint, "method", "POST")
	a.router.Post(ResponsesEndpoint, a.submitResponse)
	log.Infow("register handler", "endpoint", BatchResponsesEndpoint, "method", "POST")
	a.router.Post(BatchResponsesEndpoint, a.submitBatchResponse)
	log.Infow("register handler", "endpoint", WithdrawEndpoint, "method", "POST")
	a.router.Post(WithdrawEndpoint, a.withdraw)
	log.Infow("register handler", "endpoint", ViewersEndpoint, "method", "POST")
	a.router.Post(ViewersEndpoint, a.authorizeViewer)
	log.Infow("register handler", "endpoint", ViewersRevokeEndpoint, "method", "POST")
	a.router.Post(ViewersRevokeEndpoint, a.revokeViewer)
	log.Infow("register handler", "endpoint", ViewersAccessEndpoint, "method", "POST")
	a.router.Post(ViewersAccessEndpoint, a.requestAccess)
	log.Infow("register handler", "endpoint", SurveyCloseEndpoint, "method", "POST")
	a.router.Post(SurveyCloseEndpoint, a.closeSurvey)
	log.Infow("register handler", "endpoint", SurveyReopenEndpoint, "method", "POST")
	a.router.Post(SurveyReopenEndpoint, a.reopenSurvey)
	log.Infow("register handler", "endpoint", SurveyDeadlineEndpoint, "method", "POST")
	a.router.Post(SurveyDeadlineEndpoint, a.extendDeadline)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
