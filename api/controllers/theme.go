package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/webtheme-backend/api/middleware"
	"github.com/angelmondragon/webtheme-backend/api/responses"
	"github.com/angelmondragon/webtheme-backend/api/validators"
	"github.com/angelmondragon/webtheme-backend/internal/editor"
	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
	"github.com/angelmondragon/webtheme-backend/pkg/pagination"
)

type applyCommandsRequest struct {
	Commands json.RawMessage `json:"commands" validate:"required"`
}

// ThemeEditor opens the editor: reloads the brand's settings into a fresh
// draft and attaches the brand list.
func ThemeEditor(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}
		state, err := svc.LoadEditor(r.Context(), brandID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// ThemeReload discards the draft and re-reads the saved settings.
func ThemeReload(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}
		draft, err := svc.Load(r.Context(), brandID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func ThemeDraft(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}
		draft, err := svc.Draft(r.Context(), brandID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func ThemeDiscard(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Discard(r.Context(), brandID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ThemeApplyCommands applies a batch of edit commands to the draft. The batch
// is rejected as a whole when any command is invalid.
func ThemeApplyCommands(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}

		var req applyCommandsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cmds, err := editor.DecodeCommands(req.Commands)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Apply(r.Context(), brandID, cmds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func ThemeSave(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return themeSave(svc.Save, logg)
}

func ThemeSaveHeader(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return themeSave(svc.SaveHeader, logg)
}

type saveFunc func(ctx context.Context, brandID, userID string) (*editor.SaveResult, error)

func themeSave(save saveFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		result, err := save(r.Context(), brandID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ThemeRevisions lists saved revisions, newest first.
func ThemeRevisions(svc editor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, ok := requireBrand(w, r, logg)
		if !ok {
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, err := validators.ParseQueryCursor(r, "cursor")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Revisions(r.Context(), editor.RevisionParams{
			BrandID: brandID,
			Limit:   limit,
			Cursor:  cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func requireBrand(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	brandID := middleware.BrandIDFromContext(r.Context())
	if brandID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "brand context missing"))
		return "", false
	}
	return brandID, true
}
