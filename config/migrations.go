package config

import (
	"strings"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "01032025_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Cliente{}, &models.Funcionario{}, &models.Empreendimento{},
					&models.Imovel{}, &models.Vistoria{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("vistoria", "imovel", "empreendimento", "funcionario", "cliente")
			},
		},
		{
			ID: "12032025_vistoria_list_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_vistoria_status_agendada ON vistoria (status, dataagendada)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_vistoria_status_agendada").Error
			},
		},
		{
			ID: "20032025_vistoria_status_check",
			Migrate: func(tx *gorm.DB) error {
				// sqlite cannot add a constraint to an existing table
				if tx.Dialector.Name() != "postgres" {
					return nil
				}
				quoted := make([]string, 0, len(lifecycle.AllStatuses()))
				for _, s := range lifecycle.AllStatuses() {
					quoted = append(quoted, "'"+strings.ReplaceAll(string(s), "'", "''")+"'")
				}
				if err := tx.Exec("ALTER TABLE vistoria DROP CONSTRAINT IF EXISTS vistoria_status_check").Error; err != nil {
					return err
				}
				return tx.Exec("ALTER TABLE vistoria ADD CONSTRAINT vistoria_status_check CHECK (status IN (" +
					strings.Join(quoted, ", ") + "))").Error
			},
			Rollback: func(tx *gorm.DB) error {
				if tx.Dialector.Name() != "postgres" {
					return nil
				}
				return tx.Exec("ALTER TABLE vistoria DROP CONSTRAINT IF EXISTS vistoria_status_check").Error
			},
		},
	})

	return m.Migrate()
}
