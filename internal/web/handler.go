// Package web wires the HTTP surface: it parses requests, runs form
// validation, delegates to the credential store, client registry, or session
// manager, and renders a template or redirects. No route performs more than
// one state-changing operation.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karvembu/tellerops/internal/auth"
	"github.com/karvembu/tellerops/internal/domain"
	"github.com/karvembu/tellerops/internal/forms"
	"github.com/karvembu/tellerops/internal/session"
	"github.com/karvembu/tellerops/internal/store"
)

const sessionCookie = "teller_session"

// ClientRegistry is the slice of the client store the handlers need.
type ClientRegistry interface {
	Create(ctx context.Context, c *domain.Client) error
}

type Handler struct {
	log      *slog.Logger
	auth     *auth.Service
	clients  ClientRegistry
	sessions *session.Manager
}

func NewHandler(log *slog.Logger, authSvc *auth.Service, clients ClientRegistry, sessions *session.Manager) *Handler {
	return &Handler{log: log, auth: authSvc, clients: clients, sessions: sessions}
}

// Routes builds the full router, including the operational endpoints.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/register", h.Register).Methods("GET", "POST")
	r.HandleFunc("/dashboard", h.protected(h.Dashboard)).Methods("GET", "POST")
	r.HandleFunc("/logout", h.protected(h.Logout)).Methods("GET", "POST")
	r.HandleFunc("/new_client", h.NewClient).Methods("GET", "POST")
	r.HandleFunc("/transaction", h.Transaction).Methods("GET", "POST")
	r.HandleFunc("/trans_success", h.TransSuccess).Methods("GET", "POST")
	return r
}

// currentUser resolves the session cookie to a user, failing closed.
func (h *Handler) currentUser(r *http.Request) (*domain.User, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, session.ErrNoSession
	}
	user, err := h.sessions.Resolve(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			h.log.Error("session resolution failed", "error", err)
		}
		return nil, session.ErrNoSession
	}
	return user, nil
}

// protected guards a view: anonymous requests short-circuit to the login
// page instead of executing it.
func (h *Handler) protected(next func(http.ResponseWriter, *http.Request, *domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.currentUser(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r, user)
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home.html", r.Method, "/", page{Title: "Home"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "register.html", "GET", "/register", page{Title: "Register", Form: forms.Register{}})
		return
	}

	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/register"))
	defer timer.ObserveDuration()

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "register.html", "POST", "/register", page{Title: "Register", Form: forms.Register{}})
		return
	}

	f := forms.ParseRegister(r.PostForm)
	e := f.Validate()
	if !e.Any() {
		_, err := h.auth.Register(r.Context(), f.Username, f.Password)
		switch {
		case err == nil:
			h.redirect(w, r, "/login", "POST", "/register")
			return
		case errors.Is(err, store.ErrDuplicateUsername):
			e["username"] = "That username already exists. Please choose a different one."
		default:
			h.log.Error("registration failed", "username", f.Username, "error", err)
			h.failurePage(w, "POST", "/register")
			return
		}
	}

	h.render(w, http.StatusOK, "register.html", "POST", "/register", page{Title: "Register", Form: f, Errors: e})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "login.html", "GET", "/login", page{Title: "Login", Form: forms.Login{}})
		return
	}

	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/login"))
	defer timer.ObserveDuration()

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "login.html", "POST", "/login", page{Title: "Login", Form: forms.Login{}})
		return
	}

	f := forms.ParseLogin(r.PostForm)
	e := f.Validate()
	flash := ""
	if !e.Any() {
		user, err := h.auth.Authenticate(r.Context(), f.Username, f.Password)
		switch {
		case err == nil:
			token, err := h.sessions.Create(user.ID)
			if err != nil {
				h.log.Error("session creation failed", "error", err)
				h.failurePage(w, "POST", "/login")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			h.redirect(w, r, "/dashboard", "POST", "/login")
			return
		case errors.Is(err, auth.ErrInvalidCredentials):
			// No field blamed, so the response doesn't reveal which half
			// of the credentials was wrong.
			flash = "Invalid username or password."
		default:
			h.log.Error("authentication failed", "error", err)
			h.failurePage(w, "POST", "/login")
			return
		}
	}

	h.render(w, http.StatusOK, "login.html", "POST", "/login", page{Title: "Login", Form: f, Errors: e, Flash: flash})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, user *domain.User) {
	h.render(w, http.StatusOK, "dashboard.html", r.Method, "/dashboard", page{Title: "Dashboard", User: user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.Destroy(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.redirect(w, r, "/login", r.Method, "/logout")
}

func (h *Handler) NewClient(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "new_client.html", "GET", "/new_client", page{Title: "New Client", Form: forms.Client{}})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "new_client.html", "POST", "/new_client", page{Title: "New Client", Form: forms.Client{}})
		return
	}

	f := forms.ParseClient(r.PostForm)
	e := f.Validate()
	if !e.Any() {
		err := h.clients.Create(r.Context(), f.ToClient())
		switch {
		case err == nil:
			h.redirect(w, r, "/dashboard", "POST", "/new_client")
			return
		case errors.Is(err, store.ErrDuplicateClient):
			e["ssn"] = "A client with that SSN already exists."
		default:
			h.log.Error("client creation failed", "ssn", f.SSN, "error", err)
			h.failurePage(w, "POST", "/new_client")
			return
		}
	}

	h.render(w, http.StatusOK, "new_client.html", "POST", "/new_client", page{Title: "New Client", Form: f, Errors: e})
}

// Transaction validates a transfer intent and redirects. The submitted
// amounts are never applied to any stored balance.
func (h *Handler) Transaction(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "transaction.html", "GET", "/transaction", page{Title: "Transaction", Form: forms.Transaction{}})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "transaction.html", "POST", "/transaction", page{Title: "Transaction", Form: forms.Transaction{}})
		return
	}

	f := forms.ParseTransaction(r.PostForm)
	e := f.Validate()
	if !e.Any() {
		h.redirect(w, r, "/trans_success", "POST", "/transaction")
		return
	}

	h.render(w, http.StatusOK, "transaction.html", "POST", "/transaction", page{Title: "Transaction", Form: f, Errors: e})
}

func (h *Handler) TransSuccess(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "trans_success.html", r.Method, "/trans_success", page{Title: "Success"})
}
