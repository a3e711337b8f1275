package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/acedreamer/onam-photo-hub/internal/config"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	likessvc "github.com/acedreamer/onam-photo-hub/internal/services/likes"
	photosvc "github.com/acedreamer/onam-photo-hub/internal/services/photos"
	profilesvc "github.com/acedreamer/onam-photo-hub/internal/services/profiles"
	"github.com/acedreamer/onam-photo-hub/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	PhotoService   *photosvc.Service
	LikeService    *likessvc.Service
	ProfileService *profilesvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	photosHandler := handlers.NewPhotosHandler(
		deps.PhotoService,
		int64(deps.Config.Gallery.MaxUploadSizeMiB)<<20,
	)
	likesHandler := handlers.NewLikesHandler(deps.LikeService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	optionalAuthMW := OptionalAuthMiddleware(deps.AuthService)
	adminRoleMW := RequireRole(model.RoleAdmin)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/photos", func(r chi.Router) {
		r.With(optionalAuthMW).Get("/", photosHandler.List)
		r.With(authMW).Post("/", photosHandler.Upload)
		r.With(optionalAuthMW).Get("/{id}", photosHandler.Get)
		r.With(authMW, adminRoleMW).Delete("/{id}", photosHandler.Delete)
		r.With(authMW).Put("/{id}/like", likesHandler.Like)
		r.With(authMW).Delete("/{id}/like", likesHandler.Unlike)
	})

	r.With(authMW).Get("/likes", likesHandler.LikedIDs)
	r.Get("/profiles/{id}", profileHandler.Get)
	r.With(authMW).Patch("/profile", profileHandler.UpdateOwn)
}
