package api

import (
	"net/http"

	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

func (s *Server) handleListLicences(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	q := r.URL.Query()
	query := repositories.LicenceQuery{
		Mode:       mode,
		NIW:        text(q, "niw"),
		SN:         text(q, "sn"),
		PropertyOf: text(q, "property_of"),
	}

	var err error
	if query.Page, err = pageFrom(q); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.SoftwareCategoryID, err = optionalInt64(q, "software_category"); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.ManufacturerID, err = optionalInt64(q, "manufacturer"); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.LicenceTypeID, err = optionalInt64(q, "licence_type"); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if query.InvoiceDate, err = dateRange(q, "invoice_date"); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	result, err := s.services.Licences.List(r.Context(), query)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(result, dto.NewLicenceSummary))
}

func (s *Server) handleAddLicences(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	var req dto.LicenceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	licences, err := s.services.Licences.Add(r.Context(), mode, req, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	summaries := make([]dto.LicenceSummary, 0, len(licences))
	for _, licence := range licences {
		summaries = append(summaries, dto.NewLicenceSummary(licence))
	}
	writeJSON(w, http.StatusCreated, summaries)
}

func (s *Server) handleGetLicence(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	licence, err := s.services.Licences.Get(r.Context(), mode, entities.LicenceID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewLicenceSummary(licence))
}

func (s *Server) handleEditLicence(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req dto.LicenceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	licence, err := s.services.Licences.Edit(r.Context(), mode, entities.LicenceID(id), req, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewLicenceSummary(licence))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, _ entities.Mode) {
	q := r.URL.Query()
	page, err := pageFrom(q)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	result, err := s.services.Licences.Categories(r.Context(), q.Get("name"), page)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(result, dto.NewCategorySummary))
}
