package handler

import (
	"context"
	"net/http"

	"github.com/osse101/ItemVault_Go/internal/items"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/session"
)

// SessionRegistry is the part of session.Registry the HTTP layer drives.
type SessionRegistry interface {
	Open(ctx context.Context, accountID, characterID int64) (*session.Session, error)
	Get(characterID int64) (*session.Session, error)
	Close(ctx context.Context, characterID int64) error
	Save(ctx context.Context, characterID int64) error
}

// ItemHandler serves the session and item command endpoints.
type ItemHandler struct {
	sessions SessionRegistry
	metadata items.MetadataProvider
}

// NewItemHandler creates the item command handler.
func NewItemHandler(sessions SessionRegistry, metadata items.MetadataProvider) *ItemHandler {
	return &ItemHandler{sessions: sessions, metadata: metadata}
}

// OpenSessionRequest loads a character's items into memory.
type OpenSessionRequest struct {
	AccountID   int64 `json:"account_id" validate:"required,gt=0"`
	CharacterID int64 `json:"character_id" validate:"required,gt=0"`
}

// HandleOpenSession loads a session, or returns the one already open.
func (h *ItemHandler) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpOpenSession); err != nil {
		return
	}

	s, err := h.sessions.Open(r.Context(), req.AccountID, req.CharacterID)
	if err != nil {
		respondServiceError(w, r, OpOpenSession, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgSessionOpened, Data: s.Snapshot()})
}

// HandleGetSession returns a snapshot of every container.
func (h *ItemHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, OpGetSession)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// HandleSaveSession writes the session to the store.
func (h *ItemHandler) HandleSaveSession(w http.ResponseWriter, r *http.Request) {
	characterID, ok := characterIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Save(r.Context(), characterID); err != nil {
		respondServiceError(w, r, OpSaveSession, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionSaved})
}

// HandleCloseSession saves and unloads a session.
func (h *ItemHandler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	characterID, ok := characterIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Close(r.Context(), characterID); err != nil {
		respondServiceError(w, r, OpCloseSession, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionClosed})
}

// session resolves the {characterID} route parameter to an open session. If
// ok is false the response has already been written.
func (h *ItemHandler) session(w http.ResponseWriter, r *http.Request, op string) (*session.Session, bool) {
	characterID, ok := characterIDParam(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(characterID)
	if err != nil {
		respondServiceError(w, r, op, err)
		return nil, false
	}
	return s, true
}

// command decodes a request of type REQ, runs it against the session's item
// managers and answers with its result. A nil result answers MsgCommandDone.
func command[REQ any](h *ItemHandler, op string, run func(ctx context.Context, m *items.Manager, req *REQ) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.session(w, r, op)
		if !ok {
			return
		}

		var req REQ
		if err := DecodeAndValidateRequest(r, w, &req, op); err != nil {
			return
		}

		ctx := r.Context()
		var result interface{}
		err := s.Run(ctx, func(m *items.Manager) error {
			var err error
			result, err = run(ctx, m, &req)
			return err
		})
		if err != nil {
			respondServiceError(w, r, op, err)
			return
		}

		logger.FromContext(ctx).Debug(op+" completed", "character_id", s.CharacterID())
		if result == nil {
			result = SuccessResponse{Message: MsgCommandDone}
		}
		respondJSON(w, http.StatusOK, result)
	}
}
