// Package apitest runs an in-memory DocCare backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/doccare/docAuth/appointment"
)

// Secret signs every token the server issues (HS256).
var Secret = []byte("apitest-secret")

// Account is a registered user.
type Account struct {
	ID       string
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// Claims is the token payload the server issues.
type Claims struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Server is a fake DocCare API. All exported fields are safe to set before
// the first request.
type Server struct {
	*httptest.Server

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// Now is the server clock.
	Now func() time.Time

	mu           sync.Mutex
	accounts     map[string]*Account
	appointments []ownedAppointment
	requestIDs   []string
}

type ownedAppointment struct {
	owner string
	appointment.Appointment
}

// New starts a Server. Callers must Close it.
func New() *Server {
	s := &Server{
		TokenTTL: time.Hour,
		Now:      time.Now,
		accounts: make(map[string]*Account),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/signup", s.signup)
	mux.HandleFunc("GET /appointments", s.authed(s.listMine))
	mux.HandleFunc("POST /appointments", s.authed(s.create))
	mux.HandleFunc("PUT /appointments/{id}", s.authed(s.update))
	mux.HandleFunc("DELETE /appointments/{id}", s.authed(s.remove))
	mux.HandleFunc("GET /admin/users", s.admin(s.listUsers))
	mux.HandleFunc("GET /admin/appointments", s.admin(s.listAll))

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// AddAccount registers an account and returns it with its ID filled.
func (s *Server) AddAccount(a Account) Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.accounts[strings.ToLower(a.Email)] = &a
	return a
}

// AddAppointment stores a for the account with ownerEmail and returns it
// with its ID filled.
func (s *Server) AddAppointment(ownerEmail string, a appointment.Appointment) appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := ""
	if acc, ok := s.accounts[strings.ToLower(ownerEmail)]; ok {
		owner = acc.ID
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.appointments = append(s.appointments, ownedAppointment{owner: owner, Appointment: a})
	return a
}

// Appointments returns every stored appointment.
func (s *Server) Appointments() []appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]appointment.Appointment, len(s.appointments))
	for i, a := range s.appointments {
		out[i] = a.Appointment
	}
	return out
}

// RequestIDs returns the X-Request-ID of every request seen, in order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Token issues a token for the account with email, as login would.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	acc := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	if acc == nil {
		return ""
	}
	return s.issue(acc)
}

func (s *Server) issue(acc *Account) string {
	now := s.Now()
	claims := Claims{
		UserID:  acc.ID,
		IsAdmin: acc.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func userJSON(acc *Account) map[string]any {
	return map[string]any{"_id": acc.ID, "name": acc.Name, "email": acc.Email, "isAdmin": acc.IsAdmin}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request"})
		return
	}

	s.mu.Lock()
	acc := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if acc == nil || acc.Password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    userJSON(acc),
		"token":   s.issue(acc),
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" || in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "All fields are required"})
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[strings.ToLower(in.Email)]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "User already exists"})
		return
	}
	acc := &Account{ID: uuid.NewString(), Name: in.Name, Email: in.Email, Password: in.Password}
	s.accounts[strings.ToLower(in.Email)] = acc
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Signup successful",
		"user":    userJSON(acc),
		"token":   s.issue(acc),
	})
}

func (s *Server) claims(r *http.Request) (*Claims, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, false
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.claims(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "msg": "Unauthorized"})
			return
		}
		next(w, r, claims)
	}
}

func (s *Server) admin(next func(http.ResponseWriter, *http.Request, *Claims)) http.HandlerFunc {
	return s.authed(func(w http.ResponseWriter, r *http.Request, c *Claims) {
		if !c.IsAdmin {
			writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "msg": "Admin access required"})
			return
		}
		next(w, r, c)
	})
}

func (s *Server) listMine(w http.ResponseWriter, _ *http.Request, c *Claims) {
	s.mu.Lock()
	out := []appointment.Appointment{}
	for _, a := range s.appointments {
		if a.owner == c.UserID {
			out = append(out, a.Appointment)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "appointments": out})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, c *Claims) {
	var a appointment.Appointment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil || a.DoctorName == "" || a.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "msg": "Invalid appointment"})
		return
	}
	a.ID = uuid.NewString()

	s.mu.Lock()
	s.appointments = append(s.appointments, ownedAppointment{owner: c.UserID, Appointment: a})
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "msg": "Appointment booked"})
}

func (s *Server) find(id, owner string) int {
	for i, a := range s.appointments {
		if a.ID == id && a.owner == owner {
			return i
		}
	}
	return -1
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, c *Claims) {
	var a appointment.Appointment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "msg": "Invalid appointment"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(r.PathValue("id"), c.UserID)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "msg": "Appointment not found"})
		return
	}
	a.ID = s.appointments[i].ID
	s.appointments[i].Appointment = a
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "Appointment updated"})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request, c *Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(r.PathValue("id"), c.UserID)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "msg": "Appointment not found"})
		return
	}
	s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "msg": "Appointment deleted"})
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request, _ *Claims) {
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, userJSON(acc))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *Server) listAll(w http.ResponseWriter, _ *http.Request, _ *Claims) {
	writeJSON(w, http.StatusOK, map[string]any{"appointments": s.Appointments()})
}
