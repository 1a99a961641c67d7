package api

import (
	"net/http"

	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

func (s *Server) handleSearchSupports(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	q := r.URL.Query()
	query := repositories.SupportQuery{
		Mode:            mode,
		ContractID:      text(q, "contract_id"),
		Name:            text(q, "name"),
		Description:     text(q, "description"),
		AdditionalNotes: text(q, "additional_notes"),
		AssetSN:         text(q, "asset_sn"),
		Region:          text(q, "region"),
	}

	var err error
	if query.Page, err = pageFrom(q); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.SupportTypeID, err = optionalInt64(q, "support_type"); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.DateFrom, err = dateRange(q, "date_from"); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.DateTo, err = dateRange(q, "date_to"); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	result, err := s.services.Supports.Search(r.Context(), query)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(result, dto.NewSupportSummary))
}

func (s *Server) handleAddSupport(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	var req dto.SupportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	support, err := s.services.Supports.Add(r.Context(), mode, req, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewSupportSummary(support))
}

func (s *Server) handleGetSupport(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	support, err := s.services.Supports.Get(r.Context(), mode, entities.SupportID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSupportSummary(support))
}

func (s *Server) handleEditSupport(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req dto.SupportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	support, err := s.services.Supports.Edit(r.Context(), mode, entities.SupportID(id), req, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSupportSummary(support))
}
