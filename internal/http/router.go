package http

import (
	"net/http"

	"diary/internal/auth"
	"diary/internal/config"
	"diary/internal/diary"
	"diary/internal/http/handler"
	mw "diary/internal/http/middleware"
	"diary/internal/identity"
	"diary/internal/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Config   config.Config
	Identity *identity.Service
	JWT      *auth.JWT
	Sessions auth.SessionChecker
	App      *diary.App
	Log      logging.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog(d.Log))
	r.Use(chimw.Recoverer)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAuth := auth.RequireAuth(d.JWT, d.Sessions)

	ah := &handler.AuthHandler{Identity: d.Identity, JWT: d.JWT}
	r.Post("/auth/signup", ah.Signup)
	r.Post("/auth/login", ah.Login)
	r.With(requireAuth).Post("/auth/logout", ah.Logout)

	me := &handler.MeHandler{}
	r.With(requireAuth).Get("/me", me.Me)

	dh := &handler.DiaryHandler{App: d.App, MaxUploadBytes: d.Config.MaxUploadBytes}

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/page", dh.Page)

		r.Put("/draft", dh.SetDraft)
		r.Post("/draft/bullet", dh.Bullet())
		r.Post("/draft/paragraph", dh.Paragraph())
		r.Post("/draft/divider", dh.Divider())
		r.Post("/draft/image", dh.UploadImage)
		r.Delete("/draft/image", dh.RemoveImage())
		r.Post("/draft/save", dh.Save)

		r.Put("/browse/month", dh.SelectMonth)

		r.Get("/entries", dh.List)
		r.Get("/entries/{id}/export", dh.Export)
		r.Get("/entries/{id}/image", dh.Image)

		r.Post("/view/{id}", dh.View())
		r.Delete("/view", dh.Close())
		r.Post("/view/delete", dh.RequestDelete())
		r.Post("/view/delete/confirm", dh.ConfirmDelete())
		r.Post("/view/delete/cancel", dh.CancelDelete())
	})

	return r
}
