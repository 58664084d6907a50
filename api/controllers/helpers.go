package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akashch1512/crystalreadymades.com/api/middleware"
	"github.com/akashch1512/crystalreadymades.com/pkg/auth"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
)

func requireActor(r *http.Request) (auth.Actor, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.UserID == uuid.Nil {
		return auth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
