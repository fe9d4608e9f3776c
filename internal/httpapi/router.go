package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"rentalmanager/internal/api"
	"rentalmanager/internal/audit"
	"rentalmanager/internal/customer"
	"rentalmanager/internal/document"
	"rentalmanager/internal/expense"
	"rentalmanager/internal/notification"
	"rentalmanager/internal/portal"
	"rentalmanager/internal/reservation"
	"rentalmanager/internal/user"
	"rentalmanager/internal/vehicle"
	"rentalmanager/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
	Log *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(api.RequestLogger(deps.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := user.NewRepository(deps.DB)
	vehiclesRepo := vehicle.NewRepository(deps.DB)
	reservationsRepo := reservation.NewRepository(deps.DB)
	customersRepo := customer.NewRepository(deps.DB)
	expensesRepo := expense.NewRepository(deps.DB)
	documentsRepo := document.NewRepository(deps.DB)
	notificationsRepo := notification.NewRepository(deps.DB)
	auditRepo := audit.NewRepository(deps.DB)

	vehicleHandlers := vehicle.Handlers{
		DB:           deps.DB,
		Vehicles:     vehiclesRepo,
		Reservations: reservationsRepo,
	}
	reservationHandlers := reservation.Handlers{Repo: reservationsRepo}
	customerHandlers := customer.Handlers{Repo: customersRepo}
	expenseHandlers := expense.Handlers{Repo: expensesRepo}
	documentHandlers := document.Handlers{Repo: documentsRepo}
	userHandlers := user.Handlers{Repo: usersRepo}
	notificationHandlers := notification.Handlers{Repo: notificationsRepo}
	portalHandlers := portal.Handlers{
		Cfg:          deps.Cfg,
		DB:           deps.DB,
		Customers:    customersRepo,
		Reservations: reservationsRepo,
		Vehicles:     vehiclesRepo,
	}

	r.Route("/v1", func(r chi.Router) {
		// Staff APIs (user-scoped)
		r.Group(func(r chi.Router) {
			r.Use(api.RequireUser(usersRepo))

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", vehicleHandlers.List)
				r.Post("/", vehicleHandlers.Create)
				r.Get("/{id}", vehicleHandlers.Get)
				r.Put("/{id}", vehicleHandlers.Update)
				r.Delete("/{id}", vehicleHandlers.Delete)
				r.Patch("/{id}/status", vehicleHandlers.PatchStatus)
				r.Get("/{id}/status-check", vehicleHandlers.StatusCheck)
				r.Post("/{id}/maintenance/start", vehicleHandlers.MaintenanceStart)
				r.Post("/{id}/maintenance/end", vehicleHandlers.MaintenanceEnd)
			})

			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", reservationHandlers.List)
				r.Post("/", reservationHandlers.Create)
				r.Get("/{id}", reservationHandlers.Get)
				r.Put("/{id}", reservationHandlers.Update)
				// Lifecycle triggers (including delete) live on the vehicle
				// handlers: they move the vehicle's availability status.
				r.Delete("/{id}", vehicleHandlers.DeleteReservation)
				r.Post("/{id}/pickup", vehicleHandlers.Pickup)
				r.Post("/{id}/return", vehicleHandlers.Return)
				r.Post("/{id}/cancel", vehicleHandlers.Cancel)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandlers.List)
				r.Post("/", customerHandlers.Create)
				r.Get("/{id}", customerHandlers.Get)
				r.Put("/{id}", customerHandlers.Update)
				r.Delete("/{id}", customerHandlers.Delete)
				r.Post("/{id}/portal-link", portalHandlers.MintLink)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandlers.List)
				r.Post("/", expenseHandlers.Create)
				r.Get("/summary", expenseHandlers.Summary)
				r.Delete("/{id}", expenseHandlers.Delete)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", documentHandlers.List)
				r.Post("/", documentHandlers.Create)
				r.Delete("/{id}", documentHandlers.Delete)
			})

			r.Get("/audit/{entityType}/{entityId}", auditHandler(auditRepo))

			r.Route("/notification-settings", func(r chi.Router) {
				r.Get("/", notificationHandlers.List)
				r.Put("/", notificationHandlers.Put)
			})

			// User/role admin
			r.Route("/users", func(r chi.Router) {
				r.Use(api.RequireRole(api.RoleAdmin))
				r.Get("/", userHandlers.List)
				r.Post("/", userHandlers.Create)
				r.Patch("/{id}/role", userHandlers.PatchRole)
				r.Delete("/{id}", userHandlers.Delete)
			})
		})

		// Customer portal: public, token-based, used by a separate frontend
		// domain. Only allow CORS for explicitly configured origins.
		r.Route("/portal", func(r chi.Router) {
			r.Use(api.CORSMiddleware(api.CORSOptions{
				AllowedOrigins: deps.Cfg.PortalAllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAgeSeconds:  600,
			}))

			r.Get("/{token}", portalHandlers.View)
			r.Post("/{token}/reservations/{id}/request-cancellation", portalHandlers.RequestCancellation)
		})
	})

	return r
}
