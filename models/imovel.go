package models

// Imovel is a unit inside an Empreendimento, owned by one Cliente.
type Imovel struct {
	ID                  int64   `gorm:"column:idimovel;primaryKey;autoIncrement" json:"idimovel"`
	Descricao           string  `gorm:"column:descricao;size:255;not null" json:"descricao"`
	Bloco               *string `gorm:"column:bloco;size:50" json:"bloco"`
	Numero              string  `gorm:"column:numero;size:50;not null" json:"numero"`
	Observacoes         *string `gorm:"column:observacoes;type:text" json:"observacoes"`
	IDCliente           int64   `gorm:"column:idcliente;not null;index" json:"idcliente"`
	IDEmpreendimento    int64   `gorm:"column:idempreendimento;not null;index" json:"idempreendimento"`
	VistoriasRealizadas int     `gorm:"column:vistoriasrealizadas;not null;default:0" json:"vistoriasrealizadas"`
}

func (Imovel) TableName() string {
	return "imovel"
}

// Empreendimento groups properties under one address.
type Empreendimento struct {
	ID     int64   `gorm:"column:idempreendimento;primaryKey;autoIncrement" json:"idempreendimento"`
	Nome   string  `gorm:"column:nome;size:255;not null" json:"nome"`
	CEP    string  `gorm:"column:cep;size:16" json:"cep"`
	Rua    string  `gorm:"column:rua;size:255" json:"rua"`
	Cidade string  `gorm:"column:cidade;size:120" json:"cidade"`
	Estado string  `gorm:"column:estado;size:2" json:"estado"`
	Anexos *string `gorm:"column:anexos;size:255" json:"anexos"` // image file name
}

func (Empreendimento) TableName() string {
	return "empreendimento"
}
