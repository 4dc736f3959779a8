package staff

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo   UserRepo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo UserRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
	})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Login")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeLoginPayload(w, r, log)
	if !ok {
		return
	}

	user, err := h.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		log.Error("error loading user", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	if user == nil {
		apt.RespondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	if !user.CheckPassword(req.Password) {
		apt.RespondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	apt.Respond(w, http.StatusOK, LoginResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
	}, nil)
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateUser")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeCreatePayload(w, r, log)
	if !ok {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		apt.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if !ValidRole(req.Role) {
		apt.RespondError(w, http.StatusBadRequest, "role must be one of: admin, waiter, chef")
		return
	}

	existing, err := h.repo.FindByUsername(ctx, username)
	if err != nil {
		log.Error("error checking username", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create user")
		return
	}
	if existing != nil {
		apt.RespondError(w, http.StatusConflict, "Username already taken")
		return
	}

	user := NewUser(username, req.Role)
	if err := user.SetPassword(req.Password); err != nil {
		log.Error("cannot hash password", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create user")
		return
	}
	user.BeforeCreate()

	if err := h.repo.Create(ctx, user); err != nil {
		log.Error("cannot create user", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create user")
		return
	}

	links := apt.RESTfulLinksFor(user)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, user, links...)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListUsers")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	users, err := h.repo.List(ctx)
	if err != nil {
		log.Error("error retrieving users", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve users")
		return
	}

	visible := make([]*User, 0, len(users))
	for _, u := range users {
		if u.Hidden {
			continue
		}
		visible = append(visible, u)
	}

	apt.RespondCollection(w, visible, "user")
}

func (h *Handler) decodeLoginPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (LoginRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return LoginRequest{}, false
	}

	var req LoginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return LoginRequest{}, false
	}

	return req, true
}

func (h *Handler) decodeCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (UserCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return UserCreateRequest{}, false
	}

	var req UserCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return UserCreateRequest{}, false
	}

	return req, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
