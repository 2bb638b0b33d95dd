package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amiseo/cockpit/internal/auth"
	"github.com/amiseo/cockpit/internal/metrics"
	"github.com/amiseo/cockpit/internal/models"
	"github.com/amiseo/cockpit/internal/record"
	"github.com/amiseo/cockpit/internal/store"
	"github.com/amiseo/cockpit/internal/utils"
)

// User-facing messages stay in French to match the dashboards.
const (
	msgBadCredentials = "Identifiants invalides."
	msgAuthRequired   = "Authentification requise."
	msgForbidden      = "Accès refusé."
	msgNotFound       = "Client introuvable."
	msgMissingID      = "Client ID manquant."
	msgBadPayload     = "Payload invalide"
	msgInternal       = "Erreur serveur inconnue"
)

type Handlers struct {
	log      *slog.Logger
	clients  *store.ClientStore
	verifier *auth.Verifier
	sessions *auth.Sessions
	metrics  *metrics.Metrics
}

func NewHandlers(log *slog.Logger, clients *store.ClientStore, verifier *auth.Verifier, sessions *auth.Sessions, m *metrics.Metrics) *Handlers {
	return &Handlers{log: log, clients: clients, verifier: verifier, sessions: sessions, metrics: m}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// principal resolves the session cookie into an identity, or nothing.
func (h *Handlers) principal(r *http.Request) (auth.Principal, bool) {
	token, ok := auth.ReadCookie(r)
	if !ok {
		return auth.Principal{}, false
	}
	p, err := h.sessions.Principal(token)
	if err != nil {
		return auth.Principal{}, false
	}
	return p, true
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgBadPayload)
		return
	}

	user, err := h.verifier.Verify(creds.Username, creds.Password)
	if err != nil {
		h.metrics.LoginFailures.Inc()
		writeMessage(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	token, err := h.sessions.Token(user)
	if err != nil {
		h.log.Error("issue session", slog.String("err", err.Error()), slog.String("rid", utils.RID(r.Context())))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	auth.WriteCookie(w, r, token)

	redirectTo := "/dashboard"
	if user.Role == models.RoleAdmin {
		redirectTo = "/admin"
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": user.Role, "redirectTo": redirectTo})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	// Client principals see their own record only.
	if !p.IsAdmin() {
		out := []models.ClientRecord{}
		if p.ClientID != "" {
			if rec, err := h.clients.Get(p.ClientID); err == nil {
				out = append(out, record.Normalize(rec))
			}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	all := h.clients.List()
	out := make([]models.ClientRecord, 0, len(all))
	for _, rec := range all {
		out = append(out, record.Normalize(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}
	id := chi.URLParam(r, "id")
	if !p.IsAdmin() && p.ClientID != id {
		writeMessage(w, http.StatusForbidden, msgForbidden)
		return
	}

	rec, err := h.clients.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.log.Error("get client", slog.String("err", err.Error()), slog.String("rid", utils.RID(r.Context())))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, record.Normalize(rec))
}

// updatePayload is a draft as submitted over the wire. The toggles are
// pointers so an omitted flag can fall back to data presence.
type updatePayload struct {
	models.ClientRecord
	EcommerceEnabled *bool `json:"ecommerceEnabled"`
	AdsEnabled       *bool `json:"adsEnabled"`
}

func (p updatePayload) draft() models.DraftRecord {
	draft := models.DraftRecord{ClientRecord: p.ClientRecord}
	if p.EcommerceEnabled != nil {
		draft.EcommerceEnabled = *p.EcommerceEnabled
	} else {
		draft.EcommerceEnabled = p.Ecommerce != nil || len(p.EcommercePeriods) > 0
	}
	if p.AdsEnabled != nil {
		draft.AdsEnabled = *p.AdsEnabled
	} else {
		draft.AdsEnabled = p.Ads != nil || len(p.AdsPeriods) > 0
	}
	return draft
}

func (h *Handlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok || !p.IsAdmin() {
		writeMessage(w, http.StatusForbidden, msgForbidden)
		return
	}

	targetID := strings.TrimSpace(chi.URLParam(r, "id"))
	if targetID == "" {
		writeMessage(w, http.StatusBadRequest, msgMissingID)
		return
	}

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadPayload)
		return
	}

	if issues := record.Validate(payload.ClientRecord); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": msgBadPayload,
			"issues":  issues,
		})
		return
	}

	// The route id is the trusted one; the payload id is ignored.
	clean := record.Sanitize(payload.draft(), targetID)
	clean.ID = targetID

	persisted, err := h.clients.Put(clean)
	if err != nil {
		h.log.Error("save client",
			slog.String("id", targetID),
			slog.String("err", err.Error()),
			slog.String("rid", utils.RID(r.Context())))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.metrics.ClientSaves.Inc()

	h.log.Info("client updated",
		slog.String("id", persisted.ID),
		slog.String("by", p.Username),
		slog.String("rid", utils.RID(r.Context())))
	writeJSON(w, http.StatusOK, persisted)
}
