package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/configs"
	"github.com/GiorgiUbiria/expense_tracker/internal/auth"
	"github.com/GiorgiUbiria/expense_tracker/internal/httputil"
	"github.com/GiorgiUbiria/expense_tracker/internal/mailer"
	"github.com/GiorgiUbiria/expense_tracker/internal/rates"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Handlers holds the dependencies shared by every route.
type Handlers struct {
	cfg    *configs.Config
	store  *store.Store
	tokens *auth.Tokens
	mailer mailer.Mailer
	rates  *rates.Client
	now    func() time.Time
}

func New(cfg *configs.Config, st *store.Store, tokens *auth.Tokens, m mailer.Mailer, rc *rates.Client) *Handlers {
	return &Handlers{
		cfg:    cfg,
		store:  st,
		tokens: tokens,
		mailer: m,
		rates:  rc,
		now:    time.Now,
	}
}

func (h *Handlers) expose() bool {
	return !h.cfg.IsProduction()
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	httputil.ServerError(w, r, err, msg, h.expose())
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}
