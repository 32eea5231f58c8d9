package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

// router registers each route behind a middleware chain whose metrics are
// labelled with the route's pattern.
type router struct {
	app *application
	mux *pat.PatternServeMux
}

func (rt router) chain(pattern string, extra ...alice.Constructor) alice.Chain {
	return alice.New(rt.app.recoverPanic, rt.app.logRequest, rt.app.metrics.Instrument(pattern), secureHeaders, makeResponseJSON).
		Append(extra...)
}

func (rt router) public(method, pattern string, h http.HandlerFunc, extra ...alice.Constructor) {
	rt.add(method, pattern, rt.chain(pattern, extra...).ThenFunc(h))
}

func (rt router) private(method, pattern string, h http.HandlerFunc) {
	rt.add(method, pattern, rt.chain(pattern, rt.app.authenticate).ThenFunc(h))
}

func (rt router) add(method, pattern string, h http.Handler) {
	switch method {
	case http.MethodGet:
		rt.mux.Get(pattern, h)
	case http.MethodPost:
		rt.mux.Post(pattern, h)
	case http.MethodPut:
		rt.mux.Put(pattern, h)
	case http.MethodDelete:
		rt.mux.Del(pattern, h)
	default:
		rt.mux.Add(method, pattern, h)
	}
}

func (app *application) routes() http.Handler {
	mux := pat.New()
	rt := router{app: app, mux: mux}

	mux.Get("/healthz", http.HandlerFunc(app.healthz))
	mux.Get("/metrics", app.metrics.Handler())

	// Users
	rt.public(http.MethodPost, "/users", app.userHandler.SignUp)
	rt.public(http.MethodPost, "/auth/token", app.userHandler.SignIn, app.signIn.Handler)
	rt.private(http.MethodGet, "/users", app.userHandler.ListUsers)
	rt.private(http.MethodGet, "/users/:id", app.userHandler.GetUser)
	rt.private(http.MethodPut, "/users/:id", app.userHandler.UpdateUser)
	rt.private(http.MethodDelete, "/users/:id", app.userHandler.DeleteUser)
	rt.private(http.MethodPut, "/users/:id/perfil", app.perfilHandler.AssignPerfil)
	rt.private(http.MethodPost, "/users/:id/perfil", app.perfilHandler.CreateUserPerfil)

	// Perfiles
	rt.private(http.MethodPost, "/perfiles", app.perfilHandler.CreatePerfil)
	rt.private(http.MethodGet, "/perfiles", app.perfilHandler.ListPerfiles)
	rt.private(http.MethodGet, "/perfiles/:id", app.perfilHandler.GetPerfil)
	rt.private(http.MethodPut, "/perfiles/:id", app.perfilHandler.UpdatePerfil)
	rt.private(http.MethodDelete, "/perfiles/:id", app.perfilHandler.DeletePerfil)

	// Servicios
	rt.private(http.MethodPost, "/servicios", app.servicioHandler.CreateServicio)
	rt.private(http.MethodGet, "/servicios", app.servicioHandler.ListServicios)
	rt.private(http.MethodGet, "/servicios/:id", app.servicioHandler.GetServicio)
	rt.private(http.MethodPut, "/servicios/:id", app.servicioHandler.UpdateServicio)
	rt.private(http.MethodDelete, "/servicios/:id", app.servicioHandler.DeleteServicio)
	rt.private(http.MethodPost, "/servicios/:id/upload-images", app.servicioHandler.UploadImages)
	rt.private(http.MethodGet, "/servicios/:id/images/:index", app.servicioHandler.GetImage)

	// Solicitudes
	rt.private(http.MethodPost, "/solicitudes", app.solicitudHandler.CreateSolicitud)
	rt.private(http.MethodGet, "/solicitudes", app.solicitudHandler.ListSolicitudes)
	rt.private(http.MethodGet, "/solicitudes/:id", app.solicitudHandler.GetSolicitud)
	rt.private(http.MethodPut, "/solicitudes/:id/status", app.solicitudHandler.UpdateStatus)
	rt.private(http.MethodPut, "/solicitudes/:id/cancelado", app.solicitudHandler.SetCancelled)
	rt.private(http.MethodDelete, "/solicitudes/:id", app.solicitudHandler.DeleteSolicitud)

	// Historial
	rt.private(http.MethodPost, "/historial", app.historialHandler.CreateHistorial)
	rt.private(http.MethodGet, "/historial", app.historialHandler.ListHistorial)
	rt.private(http.MethodGet, "/historial/:id", app.historialHandler.GetHistorial)
	rt.private(http.MethodPut, "/historial/:id", app.historialHandler.UpdateHistorial)
	rt.private(http.MethodDelete, "/historial/:id", app.historialHandler.DeleteHistorial)

	// Pagos
	rt.private(http.MethodPost, "/pagos", app.pagoHandler.CreatePago)
	rt.private(http.MethodGet, "/pagos", app.pagoHandler.ListPagos)
	rt.private(http.MethodGet, "/pagos/:id", app.pagoHandler.GetPago)
	rt.private(http.MethodPut, "/pagos/:id", app.pagoHandler.UpdatePago)
	rt.private(http.MethodDelete, "/pagos/:id", app.pagoHandler.DeletePago)

	// Calificaciones
	rt.private(http.MethodPost, "/calificaciones", app.calificacionHandler.CreateCalificacion)
	rt.private(http.MethodGet, "/calificaciones", app.calificacionHandler.ListCalificaciones)
	rt.private(http.MethodGet, "/calificaciones/:id", app.calificacionHandler.GetCalificacion)
	rt.private(http.MethodPut, "/calificaciones/:id", app.calificacionHandler.UpdateCalificacion)
	rt.private(http.MethodDelete, "/calificaciones/:id", app.calificacionHandler.DeleteCalificacion)

	// Chats
	rt.private(http.MethodPost, "/chats", app.chatHandler.CreateChat)
	rt.private(http.MethodGet, "/chats", app.chatHandler.ListChats)
	rt.private(http.MethodGet, "/chats/:id", app.chatHandler.GetChat)
	rt.private(http.MethodPut, "/chats/:id", app.chatHandler.UpdateChat)
	rt.private(http.MethodDelete, "/chats/:id", app.chatHandler.DeleteChat)
	mux.Get("/ws/chats", alice.New(app.recoverPanic, app.logRequest, app.metrics.Instrument("/ws/chats"), tokenFromQuery, app.authenticate).
		ThenFunc(app.chatHandler.Subscribe))

	return mux
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := app.ready(ctx); err != nil {
		app.log.Errorf("health check: %v", err)
		errorJSON(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
