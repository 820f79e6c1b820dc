package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/bloom/internal/service"
	"github.com/limbo/bloom/pkg/entity"
)

type Server struct {
	mx               *chi.Mux
	userService      service.UserServiceI
	journalService   service.JournalServiceI
	dashboardService service.DashboardServiceI
	chatService      service.ChatServiceI
	jwtService       JWTServiceI
}

type ServicesList struct {
	UserService      service.UserServiceI
	JournalService   service.JournalServiceI
	DashboardService service.DashboardServiceI
	ChatService      service.ChatServiceI
	JwtService       JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:               chi.NewMux(),
		userService:      servicesOptions.UserService,
		journalService:   servicesOptions.JournalService,
		dashboardService: servicesOptions.DashboardService,
		chatService:      servicesOptions.ChatService,
		jwtService:       servicesOptions.JwtService,
	}
}

func (s *Server) Run(addr string) error {
	s.Routes()
	// Identity changes are interesting at the process level too: the
	// subscription mirrors what presentation components do and gives the
	// operator a session trail in the log.
	unsubscribe := s.userService.Subscribe(func(user *entity.User) {
		if user == nil {
			slog.Info("identity changed: signed out")
			return
		}
		slog.Info("identity changed", slog.String("uid", user.ID))
	})
	defer unsubscribe()
	return http.ListenAndServe(addr, s.mx)
}

func (s *Server) Routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Post("/auth/logout", s.Logout)
			r.Get("/profile", s.GetProfile)
			r.Put("/profile/avatar", s.UpdateAvatar)
			r.Get("/entries", s.GetEntries)
			r.Post("/entries", s.CreateEntry)
			r.Get("/dashboard", s.GetDashboard)
			r.Post("/chat", s.Chat)
		})
	})
}

// Handler exposes the routed mux. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}
