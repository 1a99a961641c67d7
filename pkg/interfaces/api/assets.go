package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// maxAttachmentSize bounds uploaded attachment bodies
const maxAttachmentSize = 32 << 20

func (s *Server) handleRack(w http.ResponseWriter, r *http.Request) {
	if !principalFrom(r.Context()).canUse(entities.ModeDC) {
		writeError(w, http.StatusForbidden, "no access to dc mode")
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	info, err := s.services.Racks.RackInfo(r.Context(), entities.RackID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	q := r.URL.Query()
	query := repositories.AssetQuery{
		Mode:    mode,
		SN:      text(q, "sn"),
		Barcode: text(q, "barcode"),
	}

	var err error
	if query.Page, err = pageFrom(q); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if raw := q.Get("status"); raw != "" {
		status, err := entities.ParseAssetStatus(raw)
		if err != nil {
			s.writeAppError(w, r, apperrors.Validation("status", err))
			return
		}
		query.Status = &status
	}
	rack, err := optionalInt64(q, "rack")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if rack != nil {
		rackID := entities.RackID(*rack)
		query.RackID = &rackID
	}
	if deprecated, _ := strconv.ParseBool(q.Get("deprecated")); deprecated {
		today := entities.DateOf(s.now())
		query.DeprecatedOn = &today
	}

	result, err := s.services.Assets.List(r.Context(), query)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(result, s.assetSummary))
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	var req dto.AssetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	asset, err := s.services.Assets.Create(r.Context(), mode, req, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.assetSummary(asset))
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	asset, err := s.services.Assets.Get(r.Context(), mode, entities.AssetID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.assetSummary(asset))
}

func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req dto.AssetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	asset, err := s.services.Assets.Update(r.Context(), mode, entities.AssetID(id), req, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.assetSummary(asset))
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := s.services.Assets.Delete(r.Context(), mode, entities.AssetID(id), principalFrom(r.Context()).user); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeprecated(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	today := entities.DateOf(s.now())
	if d, err := optionalDate(r.URL.Query(), "today"); err != nil {
		s.writeAppError(w, r, err)
		return
	} else if d != nil {
		today = *d
	}

	assets, err := s.services.Assets.Deprecated(r.Context(), mode, today)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	report := dto.DeprecationReport{
		Today:  today.Format(dto.DateLayout),
		Assets: make([]dto.AssetSummary, 0, len(assets)),
	}
	for _, asset := range assets {
		report.Assets = append(report.Assets, dto.NewAssetSummary(asset, today))
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleParts(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	parts, err := s.services.Assets.Parts(r.Context(), mode, entities.AssetID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	summaries := make([]dto.AssetSummary, 0, len(parts))
	for _, part := range parts {
		summaries = append(summaries, s.assetSummary(part))
	}
	writeJSON(w, http.StatusOK, summaries)
}

type historyEntry struct {
	Type      string `json:"type"`
	Actor     string `json:"actor"`
	Timestamp string `json:"timestamp"`
	Version   int    `json:"version"`
	Data      any    `json:"data"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	history, err := s.services.Assets.History(r.Context(), mode, entities.AssetID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	entries := make([]historyEntry, 0, len(history))
	for _, event := range history {
		entries = append(entries, historyEntry{
			Type:      event.Type(),
			Actor:     event.Actor(),
			Timestamp: event.Timestamp().UTC().Format(time.RFC3339),
			Version:   event.Version(),
			Data:      event.Data(),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePutAttachment(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeAppError(w, r, apperrors.Validation("multipart field \"file\" is required", err))
		return
	}
	defer file.Close()

	key, err := s.services.Assets.Attach(r.Context(), mode, entities.AssetID(id), header.Filename, file, principalFrom(r.Context()).user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"attachment": key})
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request, mode entities.Mode) {
	id, err := pathID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	body, key, err := s.services.Assets.OpenAttachment(r.Context(), mode, entities.AssetID(id))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

func (s *Server) assetSummary(asset *entities.Asset) dto.AssetSummary {
	return dto.NewAssetSummary(asset, s.now())
}
