package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtassembler/imac/asm"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		debugLog("writeJSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: http.StatusText(status), Message: message})
}

// handleAssemble runs one source file through the assembler, broadcasting
// stage-progress events to any websocket client subscribed to the job ID,
// and returns the object/entries/externals listings in the response body.
func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req AssembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Filename == "" {
		req.Filename = "program"
	}

	job, err := s.jobs.CreateJob()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer s.jobs.DestroyJob(job.ID)

	base := filepath.Join(job.TempDir, req.Filename)
	job.Base = base
	if err := os.WriteFile(base+".as", []byte(req.Source), 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := asm.DefaultOptions()
	opts.KeepAM = req.KeepAM
	opts.Progress = func(ev asm.Event) {
		s.broadcaster.BroadcastProgress(job.ID, ev.Stage, ev.File, ev.Message)
	}

	result, err := asm.AssembleFile(base, opts)
	if err != nil {
		resp := AssembleResponse{JobID: job.ID, Success: false, Error: err.Error()}
		s.broadcaster.BroadcastResult(job.ID, map[string]interface{}{"success": false, "error": err.Error()})
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := AssembleResponse{
		JobID:     job.ID,
		Success:   true,
		CodeWords: len(result.Code),
		DataWords: len(result.Data),
	}
	for _, sym := range result.Symbols.All() {
		resp.Symbols = append(resp.Symbols, SymbolSummary{Name: sym.Name, Kind: sym.Kind.String(), Address: sym.Address})
	}
	if content, err := os.ReadFile(base + ".ob"); err == nil {
		resp.Object = string(content)
	}
	if content, err := os.ReadFile(base + ".ent"); err == nil {
		resp.Entries = string(content)
	}
	if content, err := os.ReadFile(base + ".ext"); err == nil {
		resp.Externals = string(content)
	}

	s.broadcaster.BroadcastResult(job.ID, map[string]interface{}{
		"success":   true,
		"codeWords": resp.CodeWords,
		"dataWords": resp.DataWords,
	})

	writeJSON(w, http.StatusOK, resp)
}

// handleJobRoute handles /api/v1/jobs/{id} metadata and deletion.
func (s *Server) handleJobRoute(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, err := s.jobs.GetJob(id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, JobCreateResponse{JobID: job.ID, CreatedAt: job.CreatedAt})
	case http.MethodDelete:
		if err := s.jobs.DestroyJob(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "use GET or DELETE")
	}
}
