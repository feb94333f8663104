package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/vistoria"
	"vistoria.app/api/utils"
)

const sheetName = "Vistorias"

var exportHeaders = []string{
	"ID", "Status", "Cliente", "Empreendimento", "Imóvel", "Bloco", "Número",
	"Vistoriador (ID)", "Agendada", "Início", "Fim", "Relatório",
}

// ExportVistorias streams every inspection as an XLSX sheet.
func (h *Handler) ExportVistorias(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	rows, err := h.engine.List(r.Context(), actor, vistoria.ViewAll)
	if err != nil {
		utils.RespondError(w, h.log, err, "Lista não encontrada.", "Erro ao buscar vistorias.", nil)
		return
	}

	f, err := buildWorkbook(rows, time.Now().In(vistoria.Zone))
	if err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusInternalServerError, "Erro ao gerar planilha.", nil, err)
		return
	}
	defer f.Close()

	buffer, err := f.WriteToBuffer()
	if err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusInternalServerError, "Erro ao gerar planilha.", nil, err)
		return
	}

	filename := fmt.Sprintf("vistorias_%s.xlsx", time.Now().In(vistoria.Zone).Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buffer.Bytes())
}

func buildWorkbook(rows []models.VistoriaResumo, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", "Relatório de vistorias")
	f.SetCellValue(sheetName, "A2", "Gerado em: "+generated.Format("02/01/2006 15:04:05"))

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}
	for col, label := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 4)
		f.SetCellValue(sheetName, cell, label)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	last, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetColWidth(sheetName, "A", last, 20)

	for i, v := range rows {
		values := []any{
			v.ID, string(v.Status), v.NomeCliente, deref(v.NomeEmpreendimento), v.Descricao,
			deref(v.Bloco), v.Numero, idOrBlank(v.IDVistoriador),
			formatTime(v.DataAgendada), formatTime(v.DataHoraInicio), formatTime(v.DataHoraFim),
			deref(v.RelatorioURL),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+5)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func idOrBlank(id *int64) any {
	if id == nil {
		return ""
	}
	return *id
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(vistoria.Zone).Format("02/01/2006 15:04")
}
