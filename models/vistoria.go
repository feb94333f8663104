package models

import (
	"time"

	"gorm.io/datatypes"
	"vistoria.app/api/pkg/lifecycle"
)

// Vistoria is one inspection cycle of a property.
type Vistoria struct {
	ID            int64            `gorm:"column:idvistoria;primaryKey;autoIncrement" json:"idvistoria"`
	IDImovel      int64            `gorm:"column:idimovel;not null;index" json:"idimovel"`
	IDCliente     int64            `gorm:"column:idcliente;not null;index" json:"idcliente"`
	IDVistoriador *int64           `gorm:"column:idvistoriador;index" json:"idvistoriador"`
	Status        lifecycle.Status `gorm:"column:status;size:64;not null;index" json:"status"`

	DataAgendada   *time.Time `gorm:"column:dataagendada" json:"dataagendada"`
	DataHoraInicio *time.Time `gorm:"column:datahorainicio" json:"datahorainicio"`
	DataHoraFim    *time.Time `gorm:"column:datahorafim" json:"datahorafim"`

	CondicoesClimaticas *string `gorm:"column:condicoesclimaticas;type:text" json:"condicoesclimaticas"`
	Imprevistos         *string `gorm:"column:imprevistos;type:text" json:"imprevistos"`
	Observacoes         *string `gorm:"column:observacoes;type:text" json:"observacoes"`
	RelatorioURL        *string `gorm:"column:relatorio_url;size:1024" json:"relatorio_url"`

	// Last room assessment submitted with a report.
	Comodos datatypes.JSON `gorm:"column:comodos;not null;default:'{}'" json:"comodos,omitempty"`
}

// TableName specifies the table name for Vistoria
func (Vistoria) TableName() string {
	return "vistoria"
}

// Assigned reports whether inspectorID is the recorded inspector.
func (v *Vistoria) Assigned(inspectorID int64) bool {
	return v.IDVistoriador != nil && *v.IDVistoriador == inspectorID
}

// VistoriaDetalhe is the single-inspection read model with its property,
// development, client and inspector context.
type VistoriaDetalhe struct {
	Vistoria `gorm:"embedded"`

	ObservacoesImovel   *string `gorm:"column:observacoesimovel" json:"observacoesimovel"`
	Descricao           string  `gorm:"column:descricao" json:"descricao"`
	Bloco               *string `gorm:"column:bloco" json:"bloco"`
	Numero              string  `gorm:"column:numero" json:"numero"`
	VistoriasRealizadas int     `gorm:"column:vistoriasrealizadas" json:"vistoriasrealizadas"`

	Anexos             *string `gorm:"column:anexos" json:"anexos"`
	NomeEmpreendimento string  `gorm:"column:nomeempreendimento" json:"nomeempreendimento"`
	Cidade             string  `gorm:"column:cidade" json:"cidade"`
	Estado             string  `gorm:"column:estado" json:"estado"`
	CEP                string  `gorm:"column:cep" json:"cep"`
	Rua                string  `gorm:"column:rua" json:"rua"`

	NomeCliente     string  `gorm:"column:nomecliente" json:"nomecliente"`
	CPFCliente      string  `gorm:"column:cpfcliente" json:"cpfcliente"`
	NomeVistoriador *string `gorm:"column:nomevistoriador" json:"nomevistoriador"`

	Acoes []lifecycle.Action `gorm:"-" json:"acoes"`
}

// VistoriaResumo is the list projection shared by the role-scoped views.
type VistoriaResumo struct {
	ID                   int64            `gorm:"column:idvistoria" json:"idvistoria"`
	Status               lifecycle.Status `gorm:"column:status" json:"status"`
	DataAgendada         *time.Time       `gorm:"column:dataagendada" json:"dataagendada"`
	DataHoraInicio       *time.Time       `gorm:"column:datahorainicio" json:"datahorainicio"`
	DataHoraFim          *time.Time       `gorm:"column:datahorafim" json:"datahorafim"`
	IDVistoriador        *int64           `gorm:"column:idvistoriador" json:"idvistoriador"`
	RelatorioURL         *string          `gorm:"column:relatorio_url" json:"relatorio_url"`
	IDImovel             int64            `gorm:"column:idimovel" json:"idimovel"`
	Descricao            string           `gorm:"column:descricao" json:"descricao"`
	Bloco                *string          `gorm:"column:bloco" json:"bloco"`
	Numero               string           `gorm:"column:numero" json:"numero"`
	NomeEmpreendimento   *string          `gorm:"column:nomeempreendimento" json:"nomeempreendimento"`
	ImagemEmpreendimento *string          `gorm:"column:imagemempreendimento" json:"imagemempreendimento"`
	NomeCliente          string           `gorm:"column:nomecliente" json:"nomecliente"`
}

// RelatorioContexto is what the report pipeline needs to know about an
// inspection assigned to the calling inspector.
type RelatorioContexto struct {
	IDVistoria         int64            `gorm:"column:idvistoria"`
	Status             lifecycle.Status `gorm:"column:status"`
	IDVistoriador      int64            `gorm:"column:idvistoriador"`
	IDImovel           int64            `gorm:"column:idimovel"`
	CEP                string           `gorm:"column:cep"`
	NomeEmpreendimento string           `gorm:"column:nomeempreendimento"`
	Bloco              *string          `gorm:"column:bloco"`
	Numero             string           `gorm:"column:numero"`
	NomeVistoriador    string           `gorm:"column:nomevistoriador"`
	CPFVistoriador     string           `gorm:"column:cpfvistoriador"`
	EmailVistoriador   string           `gorm:"column:emailvistoriador"`
	NomeCliente        string           `gorm:"column:nomecliente"`
	EmailCliente       string           `gorm:"column:emailcliente"`
}
