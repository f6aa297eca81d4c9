// Package httpapi exposes the server over HTTP: a gorilla/mux router with
// JSON handlers, bearer-token middleware, and graceful shutdown.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/panvault/internal/logging"
	"github.com/dmitrijs2005/panvault/internal/server/models"
	"github.com/dmitrijs2005/panvault/internal/server/services"
	"github.com/gorilla/mux"
)

// Accounts is the service surface the HTTP layer depends on.
// *services.AccountService satisfies it.
type Accounts interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, accountID string) (*services.Profile, error)
	AddPAN(ctx context.Context, accountID, pan string) error
	RemovePAN(ctx context.Context, accountID, pan string) error
	VerifyPAN(pan string) (string, bool, error)
	Accounts(ctx context.Context) ([]*models.Account, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	accounts  Accounts
	jwtSecret []byte
}

func NewHTTPServer(address string, l logging.Logger, accounts Accounts, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		accounts:  accounts,
		jwtSecret: []byte(secretKey),
	}
}

// Router builds the route table. Protected routes run through withAuth;
// the admin listing additionally requires the admin role.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", s.signupHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.loginHandler).Methods(http.MethodPost)

	api.HandleFunc("/auth/me", s.withAuth(s.meHandler)).Methods(http.MethodGet)
	api.HandleFunc("/auth/pan", s.withAuth(s.addPANHandler)).Methods(http.MethodPost)
	api.HandleFunc("/auth/pan", s.withAuth(s.removePANHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/pan/verify", s.withAuth(s.verifyPANHandler)).Methods(http.MethodGet)

	api.HandleFunc("/admin/accounts", s.withRole(string(models.RoleAdmin), s.listAccountsHandler)).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
