// Package repotest builds migrated in-memory databases with a small,
// known data set for tests across packages.
package repotest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"vistoria.app/api/config"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
)

// Senha is the plain password of every seeded account.
const Senha = "segredo123"

// Fixture is the seeded data set.
type Fixture struct {
	DB             *gorm.DB
	Empreendimento models.Empreendimento
	Cliente        models.Cliente
	OutroCliente   models.Cliente
	VistoriadorA   models.Funcionario
	VistoriadorB   models.Funcionario
	Admin          models.Funcionario
}

// NewDB opens a migrated in-memory SQLite database. A single connection
// keeps every statement on the same memory database and serializes
// concurrent transactions.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: config.NewGormLogger(zaptest.NewLogger(t), logger.Warn),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrations(db))
	return db
}

// Seed creates one development, two clients, two inspectors and an admin.
func Seed(t *testing.T) *Fixture {
	t.Helper()
	db := NewDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(Senha), bcrypt.MinCost)
	require.NoError(t, err)

	f := &Fixture{
		DB: db,
		Empreendimento: models.Empreendimento{
			Nome: "Residencial Aurora", CEP: "01310-100", Rua: "Av. Paulista, 1000",
			Cidade: "São Paulo", Estado: "SP",
		},
		Cliente:      models.Cliente{Nome: "Ana Souza", CPF: "111.111.111-11", Email: "ana@example.com", Senha: string(hash)},
		OutroCliente: models.Cliente{Nome: "Bruno Lima", CPF: "222.222.222-22", Email: "bruno@example.com", Senha: string(hash)},
		VistoriadorA: models.Funcionario{Nome: "Carla Dias", CPF: "333.333.333-33", Email: "carla@example.com",
			Senha: string(hash), Cargo: lifecycle.RoleInspector},
		VistoriadorB: models.Funcionario{Nome: "Diego Reis", CPF: "444.444.444-44", Email: "diego@example.com",
			Senha: string(hash), Cargo: lifecycle.RoleInspector},
		Admin: models.Funcionario{Nome: "Elisa Prado", CPF: "555.555.555-55", Email: "elisa@example.com",
			Senha: string(hash), Cargo: lifecycle.RoleAdministrator},
	}
	require.NoError(t, db.Create(&f.Empreendimento).Error)
	require.NoError(t, db.Create(&f.Cliente).Error)
	require.NoError(t, db.Create(&f.OutroCliente).Error)
	require.NoError(t, db.Create(&f.VistoriadorA).Error)
	require.NoError(t, db.Create(&f.VistoriadorB).Error)
	require.NoError(t, db.Create(&f.Admin).Error)
	return f
}

// Row describes an inspection to insert directly, bypassing the lifecycle.
type Row struct {
	Cliente      *models.Cliente
	Status       lifecycle.Status
	Vistoriador  *int64
	DataAgendada *time.Time
	Inicio       *time.Time
	RelatorioURL *string
}

// NewVistoria inserts a property and an inspection in the given state.
func (f *Fixture) NewVistoria(t *testing.T, row Row) models.Vistoria {
	t.Helper()
	owner := row.Cliente
	if owner == nil {
		owner = &f.Cliente
	}
	status := row.Status
	if status == "" {
		status = lifecycle.InitialStatus
	}

	bloco := "B"
	im := models.Imovel{
		Descricao:        "Apartamento 2 quartos",
		Bloco:            &bloco,
		Numero:           "101",
		IDCliente:        owner.ID,
		IDEmpreendimento: f.Empreendimento.ID,
	}
	require.NoError(t, f.DB.Create(&im).Error)

	v := models.Vistoria{
		IDImovel:       im.ID,
		IDCliente:      owner.ID,
		IDVistoriador:  row.Vistoriador,
		Status:         status,
		DataAgendada:   row.DataAgendada,
		DataHoraInicio: row.Inicio,
		RelatorioURL:   row.RelatorioURL,
	}
	require.NoError(t, f.DB.Create(&v).Error)
	return v
}

// Reload reads the inspection back from the database.
func (f *Fixture) Reload(t *testing.T, id int64) models.Vistoria {
	t.Helper()
	var v models.Vistoria
	require.NoError(t, f.DB.First(&v, "idvistoria = ?", id).Error)
	return v
}
