package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"vistoria.app/api/pkg/relatorio"
	"vistoria.app/api/utils"
)

const (
	maxReportUpload = 50 << 20
	// form bytes kept in memory; larger files spill to temp files
	maxReportMemory = 32 << 20
)

type stateErrorResp struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// GerarRelatorio takes the inspector's multipart submission (idVistoria,
// comodos JSON and image files) and runs the report pipeline.
func (h *Handler) GerarRelatorio(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(maxReportMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.RespondErrorWithCode(w, h.log, http.StatusRequestEntityTooLarge, "Envio excede o tamanho máximo permitido.", nil, err)
			return
		}
		utils.RespondErrorWithCode(w, h.log, http.StatusBadRequest, "Formulário inválido.", nil, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("idVistoria")), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondErrorWithCode(w, h.log, http.StatusBadRequest, "idVistoria inválido.", nil, err)
		return
	}
	comodos, err := relatorio.ParseComodos(r.FormValue("comodos"))
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, msgInternal, nil)
		return
	}
	anexos, err := readAnexos(r)
	if err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusBadRequest, "Anexo ilegível.", nil, err)
		return
	}

	res, err := h.pipeline.Generate(r.Context(), actor, relatorio.Request{IDVistoria: id, Comodos: comodos, Anexos: anexos})
	var se *relatorio.StateError
	switch {
	case errors.As(err, &se):
		utils.RespondWithJSON(w, http.StatusBadRequest, stateErrorResp{
			Error:  "Vistoria não está em andamento.",
			Status: string(se.Current),
		})
	case err != nil:
		utils.RespondError(w, h.log, err, msgNotFound, "Erro ao gerar relatório.", nil)
	default:
		utils.RespondWithJSON(w, http.StatusOK, res)
	}
}

// readAnexos collects every uploaded file. Field names decide the room; the
// pipeline ignores fields it does not recognise.
func readAnexos(r *http.Request) ([]relatorio.Anexo, error) {
	fields := make([]string, 0, len(r.MultipartForm.File))
	for f := range r.MultipartForm.File {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []relatorio.Anexo
	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			out = append(out, relatorio.Anexo{Field: field, Filename: fh.Filename, Data: data})
		}
	}
	return out, nil
}
