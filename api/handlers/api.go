package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/api"
	"github.com/civiclens/civiclens-api/api/lifecycle"
	"github.com/civiclens/civiclens-api/api/notify"
	"github.com/civiclens/civiclens-api/api/scheduler"
	"github.com/civiclens/civiclens-api/config"
	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	hub := NewNotificationHub()
	mailer := notify.SendgridMailer{
		APIKey:      a.Config.SendgridKey,
		FromName:    a.Config.FromName,
		FromAddress: a.Config.FromAddress,
	}

	userDB := databases.NewUserDatabase(a.dbHelper)
	reportDB := databases.NewReportDatabase(a.dbHelper)
	historyDB := databases.NewStatusHistoryDatabase(a.dbHelper)
	commentDB := databases.NewCommentDatabase(a.dbHelper)
	categoryDB := databases.NewCategoryDatabase(a.dbHelper)

	u := User{DB: userDB}
	rep := Report{
		RDB: reportDB,
		UDB: userDB,
		Lifecycle: lifecycle.Engine{
			Reports: reportDB,
			History: historyDB,
		},
		Fanout: notify.Fanout{
			Users:    userDB,
			Realtime: hub,
			Email:    mailer,
			Workers:  a.Config.FanoutWorkers,
		},
	}
	com := Comment{
		DB:  commentDB,
		RDB: reportDB,
		UDB: userDB,
		Notifier: notify.CommentNotifier{
			Realtime: hub,
			Email:    mailer,
		},
	}
	cat := Category{DB: categoryDB}
	hist := StatusHistory{DB: historyDB}
	adm := Admin{UDB: userDB}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.HandleFunc("/ws/notifications", hub.HandleWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/auth/admin-login", http.HandlerFunc(adm.AdminLoginHandler)).Methods("POST")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/location", api.Middleware(http.HandlerFunc(u.UpdateLocationHandler))).Methods("PUT")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(rep.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/reports", api.Middleware(http.HandlerFunc(rep.ReportsHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(rep.ReportByIDHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(rep.UpdateReportHandler))).Methods("PUT")
	apiCreate.Handle("/report/{report_id}/status", api.Middleware(http.HandlerFunc(rep.ChangeStatusHandler))).Methods("PUT")
	apiCreate.Handle("/report/{report_id}/vote", api.Middleware(http.HandlerFunc(rep.ToggleVoteHandler))).Methods("PUT")

	apiCreate.Handle("/report/{report_id}/comments", api.Middleware(http.HandlerFunc(com.CreateCommentHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}/comments", api.Middleware(http.HandlerFunc(com.CommentsByReportHandler))).Methods("GET")

	apiCreate.Handle("/categories", api.Middleware(http.HandlerFunc(cat.CategoriesHandler))).Methods("GET")
	apiCreate.Handle("/categories", api.AdminOnly(http.HandlerFunc(cat.CreateCategoryHandler))).Methods("POST")
	apiCreate.Handle("/categories/{category_id}", api.AdminOnly(http.HandlerFunc(cat.DeleteCategoryHandler))).Methods("DELETE")

	apiCreate.Handle("/status-history", api.AdminOnly(http.HandlerFunc(hist.StatusHistoryHandler))).Methods("GET")
	apiCreate.Handle("/status-history/report/{report_id}", api.Middleware(http.HandlerFunc(hist.StatusHistoryByReportHandler))).Methods("GET")
	apiCreate.Handle("/status-history/report/{report_id}/count", api.Middleware(http.HandlerFunc(hist.StatusHistoryCountHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("civiclens-api has connected to the database")

	// start the nightly pending-report digest
	digest := scheduler.NewScheduler(
		databases.NewReportDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		notify.SendgridMailer{
			APIKey:      a.Config.SendgridKey,
			FromName:    a.Config.FromName,
			FromAddress: a.Config.FromAddress,
		},
		a.Config.DigestCron,
	)
	digest.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
