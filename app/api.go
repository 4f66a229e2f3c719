package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if creds := cfg.GetCreds(); len(creds) > 0 {
			r.Use(middleware.BasicAuth("padelspot", creds))
		} else {
			log.Sugar().Info("Auth is disabled since no credentials are defined")
		}

		r.Get("/clubs", ctrl.listClubs)

		r.Route("/alerts", func(r chi.Router) {
			r.Use(requireIdentity)

			r.Post("/", ctrl.createAlert)
			r.Get("/", ctrl.listAlerts)
			r.Get("/{alert_id}", ctrl.getAlert)
			r.Patch("/{alert_id}", ctrl.updateAlert)
			r.Delete("/{alert_id}", ctrl.deleteAlert)
			r.Get("/{alert_id}/detections", ctrl.listDetections)
		})
	})

	return r
}

type ctxKey int

const identityKey ctxKey = iota

// requireIdentity trusts the upstream auth proxy to assert who is calling.
// This is the service's authorization boundary: owner scoping downstream
// relies on the identity extracted here.
func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, "X-User-ID header is required", http.StatusUnauthorized)
			return
		}
		identity := lib.Identity{UserID: userID, Email: r.Header.Get("X-User-Email")}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerIdentity(r *http.Request) lib.Identity {
	identity, _ := r.Context().Value(identityKey).(lib.Identity)
	return identity
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) rejectFor(w http.ResponseWriter, err error) {
	var vErr *lib.ValidationError
	switch {
	case errors.As(err, &vErr):
		ctrl.reject(w, http.StatusBadRequest, err)
	case errors.Is(err, lib.ErrQuotaExceeded):
		ctrl.reject(w, http.StatusForbidden, err)
	case errors.Is(err, lib.ErrNotFound):
		ctrl.reject(w, http.StatusNotFound, err)
	default:
		ctrl.reject(w, http.StatusInternalServerError, err)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Errorw("Request failed", "error", err)
		return
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(b)
	}
}

func (ctrl *controller) createAlert(w http.ResponseWriter, r *http.Request) {
	var params lib.CreateAlertParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	alert, err := ctrl.svc.CreateAlert(r.Context(), callerIdentity(r), params)
	if err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, alertView(alert))
}

func (ctrl *controller) listAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := ctrl.svc.ListAlerts(r.Context(), callerIdentity(r))
	if err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, alertViews(alerts))
}

func (ctrl *controller) getAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := ctrl.svc.GetAlert(r.Context(), callerIdentity(r), chi.URLParam(r, "alert_id"))
	if err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, alertView(alert))
}

func (ctrl *controller) updateAlert(w http.ResponseWriter, r *http.Request) {
	var params lib.UpdateAlertParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	alert, err := ctrl.svc.UpdateAlert(r.Context(), callerIdentity(r), chi.URLParam(r, "alert_id"), params)
	if err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, alertView(alert))
}

func (ctrl *controller) deleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.svc.DeleteAlert(r.Context(), callerIdentity(r), chi.URLParam(r, "alert_id")); err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *controller) listDetections(w http.ResponseWriter, r *http.Request) {
	recs, err := ctrl.svc.ListDetections(r.Context(), callerIdentity(r), chi.URLParam(r, "alert_id"))
	if err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, detectionViews(recs))
}

func (ctrl *controller) listClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := ctrl.svc.ListClubs(r.Context())
	if err != nil {
		ctrl.rejectFor(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, clubViews(clubs))
}
