package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/ampere-ops/payplan/internal/config"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/ampere-ops/payplan/internal/output"
	"github.com/ampere-ops/payplan/internal/recommend"
)

// statusClientClosedRequest marks requests the caller abandoned before a result was ready
const statusClientClosedRequest = 499

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "available",
		"version": Version,
	}
	if err := writeJSON(w, http.StatusOK, data); err != nil {
		s.logger.Error().Err(err).Msg("write health response")
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	plans, err := s.engine.Simulate(r.Context(), *in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, output.NewReport(output.ModeSimulate, plans))
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	plans, err := s.solver.Solve(r.Context(), *in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, output.NewReport(output.ModeReverse, plans))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	plans, err := s.engine.Simulate(r.Context(), *in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report := output.NewReport(output.ModeRecommend, plans)
	report.Recommendation = recommend.FindIdealCondition(plans, recommend.PreferencesFromInput(*in))
	s.respond(w, report)
}

// decodeInput reads, defaults and validates a simulation input. On failure
// the error response has already been written.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*domain.SimulationInput, bool) {
	var in domain.SimulationInput
	if err := readJSON(w, r, s.config.MaxBodyBytes, &in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
			return nil, false
		}
		writeJSONError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error(), "")
		return nil, false
	}

	config.ApplyDefaults(&in)
	if err := s.parser.ValidateInput(&in); err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return &in, true
}

func (s *Server) respond(w http.ResponseWriter, report *output.Report) {
	if err := writeJSON(w, http.StatusOK, report); err != nil {
		s.logger.Error().Err(err).Msg("write response")
	}
}

// writeError maps engine errors onto status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var inputErr *domain.InputError
	switch {
	case errors.As(err, &inputErr):
		writeJSONError(w, http.StatusUnprocessableEntity, inputErr.Error(), inputErr.Field)
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, http.StatusGatewayTimeout, "request timed out", "")
	case errors.Is(err, context.Canceled):
		s.logger.Warn().Err(err).Msg("request cancelled")
		writeJSONError(w, statusClientClosedRequest, "request cancelled", "")
	default:
		s.logger.Error().Err(err).Msg("unhandled error")
		writeJSONError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
