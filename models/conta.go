package models

import "vistoria.app/api/pkg/lifecycle"

// Cliente is a property owner account.
type Cliente struct {
	ID       int64  `gorm:"column:idcliente;primaryKey;autoIncrement" json:"idcliente"`
	Nome     string `gorm:"column:nome;size:255;not null" json:"nome"`
	CPF      string `gorm:"column:cpf;size:14;uniqueIndex;not null" json:"cpf"`
	Email    string `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Telefone string `gorm:"column:telefone;size:20" json:"telefone"`
	Senha    string `gorm:"column:senha;size:255;not null" json:"-"`
}

func (Cliente) TableName() string {
	return "cliente"
}

// Funcionario is an employee account. Cargo holds its single active role.
type Funcionario struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nome           string         `gorm:"column:nome;size:255;not null" json:"nome"`
	CPF            string         `gorm:"column:cpf;size:14;uniqueIndex;not null" json:"cpf"`
	Email          string         `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Telefone       string         `gorm:"column:telefone;size:20" json:"telefone"`
	Senha          string         `gorm:"column:senha;size:255;not null" json:"-"`
	ImagemDePerfil *string        `gorm:"column:imagemdeperfil;size:255" json:"imagemdeperfil"`
	Cargo          lifecycle.Role `gorm:"column:cargo;size:32;not null;default:''" json:"cargo"`
}

func (Funcionario) TableName() string {
	return "funcionario"
}
