package rest

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"gestionale/internal/domain"
	"gestionale/internal/present/rest/middleware"
	"gestionale/internal/present/rest/presenter"
	"gestionale/internal/service"
	"gestionale/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	auth         *service.AuthService
	associations *usecase.AssociationUsecase
	contacts     *usecase.ContactUsecase
	meetings     *usecase.MeetingUsecase
	export       *usecase.ExportUsecase
}

func NewHandler(
	auth *service.AuthService,
	associations *usecase.AssociationUsecase,
	contacts *usecase.ContactUsecase,
	meetings *usecase.MeetingUsecase,
	export *usecase.ExportUsecase,
) *Handler {
	return &Handler{
		auth:         auth,
		associations: associations,
		contacts:     contacts,
		meetings:     meetings,
		export:       export,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	e.POST("/api/login", h.handleLogin)
	e.POST("/api/logout", h.handleLogout)

	api := e.Group("/api", auth.RequireSession)

	api.GET("/associazioni", h.handleListAssociazioni)
	api.POST("/associazioni", h.handleCreateAssociazione)
	api.PUT("/associazioni/:id", h.handleUpdateAssociazione)
	api.DELETE("/associazioni/:id", h.handleDeleteAssociazione)

	api.POST("/referenti", h.handleCreateReferente)
	api.PUT("/referenti/:id", h.handleUpdateReferente)
	api.DELETE("/referenti/:id", h.handleDeleteReferente)

	api.POST("/altri-soggetti", h.handleCreateAltroSoggetto)
	api.PUT("/altri-soggetti/:id", h.handleUpdateAltroSoggetto)
	api.DELETE("/altri-soggetti/:id", h.handleDeleteAltroSoggetto)

	api.GET("/agora", h.handleListAgora)
	api.POST("/agora", h.handleCreateAgora)
	api.PUT("/agora/:id", h.handleUpdateAgora)
	api.DELETE("/agora/:id", h.handleDeleteAgora)

	api.GET("/agora/:id/presenti", h.handleListPresenti)
	api.POST("/agora/presenti", h.handleCreatePresenza)
	api.DELETE("/agora/presenti/:id", h.handleDeletePresenza)

	api.GET("/persone/tutti", h.handleListPersone)
	api.GET("/associazioni/:id/persone", h.handleListPersoneByAssociazione)

	api.GET("/backup/db", h.handleBackupDB)
	api.GET("/backup/excel", h.handleBackupExcel)
}

// --- auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Email == "" || req.Password == "" {
		return presenter.BadRequestMessage(c, "email e password sono obbligatori")
	}

	token, operator, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false})
		}
		return presenter.InternalError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     service.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.auth.SessionTTL() / time.Second),
	})

	return presenter.OK(c, echo.Map{"success": true, "nome": operator.Nome})
}

func (h *Handler) handleLogout(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(service.SessionCookieName)
	if err == nil {
		_ = h.auth.Logout(ctx, cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     service.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return presenter.OK(c, echo.Map{"success": true})
}

// --- associazioni ---

func (h *Handler) handleListAssociazioni(c echo.Context) error {
	ctx := c.Request().Context()

	associations, err := h.associations.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, associations)
}

func (h *Handler) handleCreateAssociazione(c echo.Context) error {
	ctx := c.Request().Context()

	var assoc domain.Association
	err := c.Bind(&assoc)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if assoc.Soggetto == "" {
		return presenter.BadRequestMessage(c, "SOGGETTO è obbligatorio")
	}

	id, err := h.associations.Create(ctx, assoc)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true, "id": id})
}

func (h *Handler) handleUpdateAssociazione(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	var assoc domain.Association
	err = c.Bind(&assoc)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	assoc.ID = id

	err = h.associations.Update(ctx, assoc)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true})
}

func (h *Handler) handleDeleteAssociazione(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	err = h.associations.Delete(ctx, id)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true})
}

// --- referenti / altri soggetti ---

func (h *Handler) handleCreateReferente(c echo.Context) error {
	return h.createContact(c, h.contacts.CreateReferente)
}

func (h *Handler) handleCreateAltroSoggetto(c echo.Context) error {
	return h.createContact(c, h.contacts.CreateAltroSoggetto)
}

func (h *Handler) createContact(c echo.Context, create func(ctx context.Context, contact domain.Contact) (int64, error)) error {
	var contact domain.Contact
	err := c.Bind(&contact)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if contact.IDAssociazione == 0 || contact.Nome == "" {
		return presenter.BadRequestMessage(c, "ID_Associazione e Nome sono obbligatori")
	}

	id, err := create(c.Request().Context(), contact)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true, "id": id})
}

func (h *Handler) handleUpdateReferente(c echo.Context) error {
	return h.updateContact(c, h.contacts.UpdateReferente)
}

func (h *Handler) handleUpdateAltroSoggetto(c echo.Context) error {
	return h.updateContact(c, h.contacts.UpdateAltroSoggetto)
}

func (h *Handler) updateContact(c echo.Context, update func(ctx context.Context, id int64, nome string) error) error {
	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	var contact domain.Contact
	err = c.Bind(&contact)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if contact.Nome == "" {
		return presenter.BadRequestMessage(c, "Nome è obbligatorio")
	}

	err = update(c.Request().Context(), id, contact.Nome)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true})
}

func (h *Handler) handleDeleteReferente(c echo.Context) error {
	return h.deleteByID(c, h.contacts.DeleteReferente)
}

func (h *Handler) handleDeleteAltroSoggetto(c echo.Context) error {
	return h.deleteByID(c, h.contacts.DeleteAltroSoggetto)
}

// --- agora ---

func (h *Handler) handleListAgora(c echo.Context) error {
	ctx := c.Request().Context()

	meetings, err := h.meetings.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, meetings)
}

func (h *Handler) handleCreateAgora(c echo.Context) error {
	ctx := c.Request().Context()

	input, cleanup, err := meetingInput(c)
	defer cleanup()
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	id, err := h.meetings.Create(ctx, input)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true, "id": id})
}

func (h *Handler) handleUpdateAgora(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	input, cleanup, err := meetingInput(c)
	defer cleanup()
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	deleteVerbale := c.FormValue("deleteVerbale") == "true"
	deleteDocumenti := c.FormValue("deleteDocumenti") == "true"

	err = h.meetings.Update(ctx, id, input, deleteVerbale, deleteDocumenti)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true})
}

func (h *Handler) handleDeleteAgora(c echo.Context) error {
	return h.deleteByID(c, h.meetings.Delete)
}

// meetingInput collects the multipart fields of an agora write. Both
// files are optional; the returned cleanup closes whatever was opened.
func meetingInput(c echo.Context) (usecase.MeetingInput, func(), error) {
	input := usecase.MeetingInput{
		Data:   c.FormValue("Data"),
		Evento: c.FormValue("Evento"),
		ODG:    c.FormValue("ODG"),
	}

	var closers []io.Closer
	cleanup := func() {
		for _, closer := range closers {
			closer.Close()
		}
	}

	if header, err := c.FormFile("verbale"); err == nil {
		src, err := header.Open()
		if err != nil {
			return input, cleanup, errors.Wrap(err, "opening verbale upload")
		}
		closers = append(closers, src)
		input.Verbale = &usecase.FileUpload{Content: src, Name: header.Filename}
	}

	if header, err := c.FormFile("documenti"); err == nil {
		src, err := header.Open()
		if err != nil {
			return input, cleanup, errors.Wrap(err, "opening documenti upload")
		}
		closers = append(closers, src)
		input.Documenti = &usecase.FileUpload{Content: src, Name: header.Filename}
	}

	return input, cleanup, nil
}

// --- presenti ---

func (h *Handler) handleListPresenti(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	attendees, err := h.meetings.ListPresenze(ctx, id)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, attendees)
}

func (h *Handler) handleCreatePresenza(c echo.Context) error {
	ctx := c.Request().Context()

	var attendee domain.Attendee
	err := c.Bind(&attendee)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if attendee.IDAgora == 0 || attendee.IDAssociazione == 0 {
		return presenter.BadRequestMessage(c, "ID_Agora e ID_Associazione sono obbligatori")
	}

	id, err := h.meetings.AddPresenza(ctx, attendee)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true, "id": id})
}

func (h *Handler) handleDeletePresenza(c echo.Context) error {
	return h.deleteByID(c, h.meetings.RemovePresenza)
}

// --- persone ---

func (h *Handler) handleListPersone(c echo.Context) error {
	ctx := c.Request().Context()

	persone, err := h.contacts.ListPersone(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, persone)
}

func (h *Handler) handleListPersoneByAssociazione(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	persone, err := h.contacts.ListPersoneByAssociation(ctx, id)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, persone)
}

// --- backup ---

func (h *Handler) handleBackupDB(c echo.Context) error {
	ctx := c.Request().Context()

	path, err := h.export.Snapshot(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	defer os.Remove(path)

	return c.Attachment(path, "database.db")
}

func (h *Handler) handleBackupExcel(c echo.Context) error {
	ctx := c.Request().Context()

	buf, err := h.export.Spreadsheet(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			return presenter.NotFound(c, "nessun dato da esportare")
		}
		return presenter.InternalError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gestionale.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- helpers ---

func (h *Handler) deleteByID(c echo.Context, remove func(ctx context.Context, id int64) error) error {
	id, err := parseID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "id non valido")
	}

	err = remove(c.Request().Context(), id)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
