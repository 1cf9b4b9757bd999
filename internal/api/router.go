package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/neuanfang/internal/auth"
	"github.com/erazemk/neuanfang/internal/cloudsync"
	"github.com/erazemk/neuanfang/internal/export"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/presenter"
	"github.com/erazemk/neuanfang/internal/store"
	"github.com/erazemk/neuanfang/internal/tag"
)

// DefaultMaxPhotoBytes limits photo uploads when Deps leaves it unset.
const DefaultMaxPhotoBytes = 10 << 20

// Deps are the collaborators of the API. Catalog and Sync are created
// when nil.
type Deps struct {
	DB            *sql.DB
	Tokens        *auth.Tokens
	Catalog       *presenter.RoomCatalog
	Sync          *cloudsync.Facade
	MaxPhotoBytes int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	s := store.New(d.DB)
	if d.Catalog == nil {
		d.Catalog = presenter.NewRoomCatalog(s)
	}
	if d.Sync == nil {
		d.Sync = cloudsync.New(s, nil)
	}
	if d.MaxPhotoBytes <= 0 {
		d.MaxPhotoBytes = DefaultMaxPhotoBytes
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, Tokens: d.Tokens}
	usersHandler := &UsersHandler{DB: d.DB}
	roomsHandler := &RoomsHandler{Store: s, Catalog: d.Catalog}
	boxesHandler := &BoxesHandler{Store: s, Catalog: d.Catalog, Tags: tag.NewService(s)}
	itemsHandler := &ItemsHandler{Store: s, Catalog: d.Catalog, MaxPhotoBytes: d.MaxPhotoBytes}
	reportsHandler := &ReportsHandler{Store: s}
	syncHandler := &SyncHandler{Sync: d.Sync}

	authMW := AuthMiddleware(d.Tokens, d.DB)
	requireOwner := RequireRole(model.RoleOwner)
	requireHelper := RequireRole(model.RoleHelper)

	// member routes are open to every signed-in account.
	member := func(h http.HandlerFunc) http.Handler { return authMW(requireHelper(h)) }
	owner := func(h http.HandlerFunc) http.Handler { return authMW(requireOwner(h)) }

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("PUT /api/auth/password", member(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", member(authHandler.Logout))

	// Household accounts.
	mux.Handle("GET /api/users", owner(usersHandler.List))
	mux.Handle("POST /api/users", owner(usersHandler.Create))
	mux.Handle("PUT /api/users/{id}/password", owner(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", owner(usersHandler.Delete))

	// Rooms.
	mux.Handle("GET /api/rooms", member(roomsHandler.List))
	mux.Handle("POST /api/rooms", owner(roomsHandler.Create))
	mux.Handle("GET /api/rooms/{id}", member(roomsHandler.Get))
	mux.Handle("PUT /api/rooms/{id}", owner(roomsHandler.Update))
	mux.Handle("DELETE /api/rooms/{id}", owner(roomsHandler.Delete))
	mux.Handle("POST /api/rooms/{id}/complete", owner(roomsHandler.ToggleComplete))

	// Boxes and their labels.
	mux.Handle("POST /api/rooms/{id}/boxes", owner(boxesHandler.Create))
	mux.Handle("GET /api/boxes/{id}", member(boxesHandler.Get))
	mux.Handle("PUT /api/boxes/{id}", owner(boxesHandler.Update))
	mux.Handle("DELETE /api/boxes/{id}", owner(boxesHandler.Delete))
	mux.Handle("POST /api/boxes/{id}/packed", member(boxesHandler.TogglePacked))
	mux.Handle("GET /api/boxes/{id}/qr.png", member(boxesHandler.QRCode))
	mux.Handle("GET /api/boxes/{id}/share", member(boxesHandler.Share))
	mux.Handle("GET /api/boxes/{id}/nfc", member(boxesHandler.NFCPayload))
	mux.Handle("PUT /api/boxes/{id}/nfc", member(boxesHandler.AssignNFC))
	mux.Handle("DELETE /api/boxes/{id}/nfc", member(boxesHandler.ClearNFC))
	mux.Handle("GET /api/scan/{code}", member(boxesHandler.Scan))

	// Items and photos.
	mux.Handle("POST /api/boxes/{id}/items", owner(itemsHandler.Create))
	mux.Handle("PUT /api/items/{id}", owner(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", owner(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{id}/photo", member(itemsHandler.UploadPhoto))
	mux.Handle("GET /api/items/{id}/photo", member(itemsHandler.GetPhoto))
	mux.Handle("DELETE /api/items/{id}/photo", member(itemsHandler.DeletePhoto))

	// Reports.
	mux.Handle("GET /api/stats", member(reportsHandler.Stats))
	mux.Handle("GET /api/export.csv", owner(reportsHandler.Export(export.FormatCSV)))
	mux.Handle("GET /api/export.xlsx", owner(reportsHandler.Export(export.FormatXLSX)))
	mux.Handle("GET /api/export/summary", member(reportsHandler.Summary))

	// Sync.
	mux.Handle("GET /api/sync", member(syncHandler.Status))
	mux.Handle("POST /api/sync", owner(syncHandler.Trigger))

	return LoggingMiddleware(mux)
}
