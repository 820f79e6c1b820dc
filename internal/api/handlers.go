package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/bloom/internal/error_values"
	"github.com/limbo/bloom/internal/service"
	"github.com/limbo/bloom/pkg/entity"
	"github.com/limbo/bloom/pkg/httputil"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type CreateEntryRequest struct {
	Mood        string   `json:"mood"`
	MoodValue   int      `json:"moodValue"`
	StressLevel int      `json:"stressLevel"`
	Note        string   `json:"note"`
	Tags        []string `json:"tags"`
}

type ChatRequest struct {
	History []entity.ChatTurn `json:"history"`
	Message string            `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type AuthResponse struct {
	UserID string       `json:"uid"`
	Token  string       `json:"token"`
	User   *entity.User `json:"user"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if fields, ok := service.FieldErrors(err); ok {
			logger.Error("registering error: validation failed")
			httputil.WriteFieldErrorResponse(w, http.StatusBadRequest, "validation failed", fields)
			return
		}
		logger.Error("registering error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		return
	}
	// A fresh account starts with an empty journal
	if err := s.journalService.InitializeUser(ctx, user.ID); err != nil {
		logger.Error("registering error: initializing journal error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("registering error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, AuthResponse{
		UserID: user.ID,
		Token:  token,
		User:   user,
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong credentials")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "Invalid email or password. For demo, use the demo credentials.", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	// The demo account gets a week of fabricated history on first sign-in
	if err := s.journalService.SeedDemoData(ctx, user.ID); err != nil {
		logger.Error("login error: seeding demo data error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, AuthResponse{
		UserID: user.ID,
		Token:  token,
		User:   user,
	})
	logger.Info("successful login")
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.userService.SignOut(ctx); err != nil {
		logger.Error("logout error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during logout", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("signed out")
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Current(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("get profile error: signed out")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no live session", nil)
			return
		}
		logger.Error("get profile error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while reading profile", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("profile provided")
}

func (s *Server) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req UpdateAvatarRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update avatar error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.UpdateAvatar(ctx, req.Avatar)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("update avatar error: signed out")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no live session", nil)
			return
		}
		logger.Error("update avatar error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating avatar", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("avatar updated")
}

func (s *Server) GetEntries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get entries error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	data, err := s.journalService.GetUserData(ctx, uid)
	if err != nil {
		logger.Error("get entries error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while reading journal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, data)
	logger.Info("journal provided")
}

func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create entry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateEntryRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	data, err := s.journalService.AddEntry(ctx, uid, &service.NewEntryRequest{
		Mood:        req.Mood,
		MoodValue:   req.MoodValue,
		StressLevel: req.StressLevel,
		Note:        req.Note,
		Tags:        req.Tags,
	})
	if err != nil {
		if fields, ok := service.FieldErrors(err); ok {
			logger.Error("create entry error: validation failed")
			httputil.WriteFieldErrorResponse(w, http.StatusBadRequest, "validation failed", fields)
			return
		}
		// A failed save means the entry is lost; this one must never be
		// swallowed quietly
		logger.Error("create entry error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "couldn't save your entry, please try again", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, data)
	logger.Info("entry created")
}

func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get dashboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	data, err := s.journalService.GetUserData(ctx, uid)
	if err != nil {
		logger.Error("get dashboard error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while reading journal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, s.dashboardService.BuildStats(data.Entries))
	logger.Info("dashboard provided")
}

func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ChatRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("chat error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Message == "" {
		logger.Error("chat error: empty message")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "message is required", nil)
		return
	}
	// The external call owns its own failure handling; from here on the
	// request cannot fail
	reply := s.chatService.GenerateResponse(r.Context(), req.History, req.Message)
	httputil.WriteJSONResponse(w, http.StatusOK, ChatResponse{Reply: reply})
	logger.Info("chat reply provided")
}
