package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/indirizzi-api/internal/normalize"
)

// maxBodyBytes bounds the request body; a postal address is a few hundred bytes
const maxBodyBytes = 64 << 10

// Normalizer is satisfied by normalize.Service
type Normalizer interface {
	Normalize(ctx context.Context, address string) normalize.Address
}

// NormalizeRequest is the body of POST /normalize-address
type NormalizeRequest struct {
	Address string `json:"address" validate:"required"`
	// Country is accepted but unused; only Italy is handled
	Country string `json:"country"`
}

// NormalizeHandler serves POST /normalize-address
type NormalizeHandler struct {
	Service  Normalizer
	validate *validator.Validate
}

// NewNormalizeHandler builds the handler around a pipeline
func NewNormalizeHandler(svc Normalizer) *NormalizeHandler {
	return &NormalizeHandler{
		Service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *NormalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	req, err := decodeNormalizeRequest(r.Body)
	if err != nil {
		logger.Debug().Err(err).Msg("malformed request body")
		writeDetail(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	result := h.Service.Normalize(r.Context(), req.Address)
	writeJSON(w, http.StatusOK, result)
}

func decodeNormalizeRequest(body io.Reader) (NormalizeRequest, error) {
	req := NormalizeRequest{Country: "IT"}
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

// validationDetail renders validator errors as "field: rule" pairs
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed %q validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
