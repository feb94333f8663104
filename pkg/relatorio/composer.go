package relatorio

import (
	"context"
	"strings"

	"vistoria.app/api/models"
)

// Conclusao closes every template narrative.
const Conclusao = `CONCLUSÃO TÉCNICA:

Com base nas observações realizadas durante a vistoria, o imóvel apresenta as condições descritas acima para cada cômodo analisado.
Recomenda-se a correção dos pontos observados para garantir a integridade estrutural, funcional e estética do imóvel.

Este relatório reflete fielmente o estado do imóvel no momento da vistoria.
`

type NarrativeInput struct {
	Contexto models.RelatorioContexto
	Comodos  Comodos
}

// Composer writes the report body.
type Composer interface {
	Compose(ctx context.Context, in NarrativeInput) (string, error)
}

// TemplateComposer renders a fixed per-room layout.
type TemplateComposer struct{}

func (TemplateComposer) Compose(_ context.Context, in NarrativeInput) (string, error) {
	var b strings.Builder
	for _, name := range in.Comodos.Presentes() {
		b.WriteString("\nCÔMODO: ")
		b.WriteString(strings.ToUpper(name))
		b.WriteString("\n")
		for _, f := range in.Comodos[name].Campos() {
			b.WriteString("• ")
			b.WriteString(f.Nome)
			b.WriteString(": ")
			b.WriteString(strings.TrimRight(f.Valor, "."))
			b.WriteString(".\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Conclusao)
	return b.String(), nil
}
