package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/nafld-hub/internal/activities"
	"github.com/fdg312/nafld-hub/internal/auth"
	"github.com/fdg312/nafld-hub/internal/blob"
	"github.com/fdg312/nafld-hub/internal/config"
	"github.com/fdg312/nafld-hub/internal/dashboard"
	"github.com/fdg312/nafld-hub/internal/meals"
	"github.com/fdg312/nafld-hub/internal/medications"
	"github.com/fdg312/nafld-hub/internal/objectives"
	"github.com/fdg312/nafld-hub/internal/profiles"
	"github.com/fdg312/nafld-hub/internal/reports"
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/fdg312/nafld-hub/internal/storage/postgres"
	"github.com/fdg312/nafld-hub/internal/symptoms"
	"github.com/fdg312/nafld-hub/internal/weights"
)

// Server is the HTTP API.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	stores         stores
	authMiddleware *auth.Middleware
}

// stores groups the per-domain sub-stores of the active backend.
type stores struct {
	users       storage.UsersStorage
	objectives  storage.ObjectivesStorage
	meals       storage.MealsStorage
	activities  storage.ActivitiesStorage
	weights     storage.WeightsStorage
	medications storage.MedicationsStorage
	symptoms    storage.SymptomsStorage
	reports     storage.ReportsStorage
}

func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage connects to Postgres when DATABASE_URL is set and falls back
// to memory when the connection fails.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("INFO storage: connecting to PostgreSQL...")
		pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
		if err != nil {
			log.Printf("WARN storage: PostgreSQL connection failed: %v", err)
			log.Println("WARN storage: falling back to in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("INFO storage: PostgreSQL connected")
			s.storage = pgStorage
		}
	}

	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		s.stores = stores{
			users:       st.GetUsersStorage(),
			objectives:  st.GetObjectivesStorage(),
			meals:       st.GetMealsStorage(),
			activities:  st.GetActivitiesStorage(),
			weights:     st.GetWeightsStorage(),
			medications: st.GetMedicationsStorage(),
			symptoms:    st.GetSymptomsStorage(),
			reports:     st.GetReportsStorage(),
		}
	case *postgres.PostgresStorage:
		s.stores = stores{
			users:       st.GetUsersStorage(),
			objectives:  st.GetObjectivesStorage(),
			meals:       st.GetMealsStorage(),
			activities:  st.GetActivitiesStorage(),
			weights:     st.GetWeightsStorage(),
			medications: st.GetMedicationsStorage(),
			symptoms:    st.GetSymptomsStorage(),
			reports:     st.GetReportsStorage(),
		}
	default:
		log.Fatal("unknown storage type")
	}
}

func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config, s.stores.users, s.storage)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	s.mux.HandleFunc("POST /v1/auth/register", authHandler.HandleRegister)
	s.mux.HandleFunc("POST /v1/auth/login", authHandler.HandleLogin)
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Profiles API
	profileHandler := profiles.NewHandler(profiles.NewService(s.storage))
	s.mux.HandleFunc("GET /v1/profiles", profileHandler.HandleList)
	s.mux.HandleFunc("POST /v1/profiles", profileHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/profiles/{id}", profileHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/profiles/{id}", profileHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/profiles/{id}", profileHandler.HandleDelete)

	// Objectives API
	objectiveService := objectives.NewService(s.stores.objectives, s.stores.weights, s.storage, scoring.ObjectiveParams{
		CapMargin:       s.config.Scoring.CapMargin,
		ActivityMinutes: s.config.Scoring.ActivityTargetMinutes,
		ActivityKcal:    s.config.Scoring.ActivityTargetKcal,
	})
	s.mux.HandleFunc("GET /v1/objectives/active", objectives.HandleGetActive(objectiveService))
	s.mux.HandleFunc("GET /v1/objectives/history", objectives.HandleHistory(objectiveService))
	s.mux.HandleFunc("POST /v1/objectives", objectives.HandleCreate(objectiveService))

	// Meals API
	mealService := meals.NewService(s.stores.meals, s.storage)
	s.mux.HandleFunc("GET /v1/meals", meals.HandleList(mealService))
	s.mux.HandleFunc("POST /v1/meals", meals.HandleCreate(mealService))
	s.mux.HandleFunc("GET /v1/meals/daily", meals.HandleDaily(mealService))
	s.mux.HandleFunc("PATCH /v1/meals/{id}", meals.HandleUpdate(mealService))
	s.mux.HandleFunc("DELETE /v1/meals/{id}", meals.HandleDelete(mealService))

	// Activities API
	activityService := activities.NewService(s.stores.activities, s.stores.weights, s.storage)
	s.mux.HandleFunc("GET /v1/activities", activities.HandleList(activityService))
	s.mux.HandleFunc("POST /v1/activities", activities.HandleCreate(activityService))
	s.mux.HandleFunc("DELETE /v1/activities/{id}", activities.HandleDelete(activityService))

	// Weights API
	weightService := weights.NewService(s.stores.weights, s.storage)
	s.mux.HandleFunc("GET /v1/weights", weights.HandleList(weightService))
	s.mux.HandleFunc("POST /v1/weights", weights.HandleCreate(weightService))
	s.mux.HandleFunc("GET /v1/weights/bmi", weights.HandleBMI(weightService))
	s.mux.HandleFunc("DELETE /v1/weights/{id}", weights.HandleDelete(weightService))

	// Medications API
	medicationHandler := medications.NewHandlers(
		medications.NewService(s.stores.medications, s.storage, s.config.MedicationsMaxPerProfile),
	)
	s.mux.HandleFunc("GET /v1/medications", medicationHandler.HandleList)
	s.mux.HandleFunc("POST /v1/medications", medicationHandler.HandleCreate)
	s.mux.HandleFunc("PATCH /v1/medications/{id}", medicationHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/medications/{id}", medicationHandler.HandleDelete)
	s.mux.HandleFunc("POST /v1/medications/intakes", medicationHandler.HandleUpsertIntake)
	s.mux.HandleFunc("GET /v1/medications/intakes/daily", medicationHandler.HandleDaily)

	// Symptoms API
	symptomService := symptoms.NewService(s.stores.symptoms, s.storage)
	s.mux.HandleFunc("GET /v1/symptoms", symptoms.HandleList(symptomService))
	s.mux.HandleFunc("POST /v1/symptoms", symptoms.HandleUpsert(symptomService))
	s.mux.HandleFunc("DELETE /v1/symptoms/{id}", symptoms.HandleDelete(symptomService))

	// Dashboard API
	aggregator := dashboard.NewAggregator(s.stores.meals, s.stores.activities, s.stores.medications)
	dashboardService := dashboard.NewService(s.storage, objectiveService, s.stores.weights, aggregator, s.config.Scoring.WindowDays)
	s.mux.HandleFunc("GET /v1/dashboard", dashboard.HandleGet(dashboardService))
	s.mux.HandleFunc("GET /v1/dashboard/history", dashboard.HandleHistory(dashboardService))

	// Reports API
	reportsBlobStore := s.initReportsBlobStore()
	s3cfg := s.config.Blob.S3
	reportService := reports.NewService(s.stores.reports, s.storage, dashboardService, reportsBlobStore, reports.Options{
		MaxRangeDays:    s.config.ReportsMaxRangeDays,
		PresignTTL:      s3cfg.PresignTTLSeconds,
		PublicBaseURL:   s3cfg.PublicBaseURL,
		PreferPublicURL: s3cfg.PreferPublicURL,
	}, log.Default())
	reportHandler := reports.NewHandlers(reportService)
	s.mux.HandleFunc("POST /v1/reports", reportHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportHandler.HandleDelete)
}

// initReportsBlobStore resolves REPORTS_MODE (or BLOB_MODE) into a store.
// A forced s3 mode without credentials is fatal.
func (s *Server) initReportsBlobStore() blob.Store {
	mode := s.config.Blob.EffectiveReportsMode()
	log.Printf("INFO blob: initializing reports store (mode=%s)", mode)

	store, effective, err := blob.NewBlobStore(context.Background(), mode, s.config.Blob.S3, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", effective)
	return store
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the mux wrapped in the middleware chain
// (outermost first): CORS, rate limit, auth.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthEnabled() {
		handler = s.authMiddleware.Wrap(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("INFO server: listening on http://localhost%s", addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", addr)
	log.Printf("INFO server: dashboard http://localhost%s/v1/dashboard", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the storage backend.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
