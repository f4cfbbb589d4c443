package routes

import (
	"net/http"

	_ "github.com/GiorgiUbiria/expense_tracker/docs"
	"github.com/GiorgiUbiria/expense_tracker/configs"
	"github.com/GiorgiUbiria/expense_tracker/internal/auth"
	"github.com/GiorgiUbiria/expense_tracker/internal/handlers"
	appmw "github.com/GiorgiUbiria/expense_tracker/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(cfg *configs.Config, h *handlers.Handlers, guard *auth.Guard) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)
	r.Use(appmw.RequestLogger)
	r.Use(appmw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept"},
		ExposedHeaders:   []string{"Content-Range", "X-Content-Range"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	authenticated := appmw.Authenticated(guard, !cfg.IsProduction())

	r.Get("/health", h.Health)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", h.Ping)
		r.Get("/rates", h.Rates)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", h.Me)
				r.Get("/verify", h.Me)
				r.Put("/profile", h.UpdateProfile)
				r.Put("/password", h.ChangePassword)
				r.Put("/email", h.ChangeEmail)
				r.Put("/preferences", h.UpdatePreferences)
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/dashboard", h.Dashboard)
			r.Delete("/delete-all", h.DeleteAllTransactions)
			r.Post("/create-initial", h.CreateInitial)
			r.Post("/force-reset", h.ForceReset)
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", h.ListBudgets)
			r.Post("/", h.CreateBudget)
			r.Delete("/{id}", h.DeleteBudget)
		})

		r.With(authenticated).Get("/categories", h.Categories)
	})

	return r
}
