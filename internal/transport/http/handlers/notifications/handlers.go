package notificationshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/notifications"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, entityID string, limit, offset int) ([]notifications.Delivery, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes exposes the email delivery log. Entries are filtered by the
// payslip or invoice they were sent for.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermNotificationRead)).Get("/notifications", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("entityId"), page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, items, shared.RequestID(r))
}
