package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"vistoria.app/api/config"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
)

type statusCount struct {
	Status string `gorm:"column:status"`
	Total  int64  `gorm:"column:total"`
}

// check is a query that should return zero rows on a healthy database.
type check struct {
	name  string
	query func(db *gorm.DB) *gorm.DB
}

var assigned = []lifecycle.Status{
	lifecycle.StatusInProgress,
	lifecycle.StatusAwaitingValidation,
	lifecycle.StatusValidated,
	lifecycle.StatusRejected,
	lifecycle.StatusFinalized,
}

var checks = []check{
	{"status fora do conjunto", func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Vistoria{}).Where("status NOT IN ?", lifecycle.Strings(lifecycle.AllStatuses()))
	}},
	{"em andamento ou adiante sem vistoriador", func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Vistoria{}).Where("status IN ? AND idvistoriador IS NULL", lifecycle.Strings(assigned))
	}},
	{"aguardando validação sem relatório", func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Vistoria{}).
			Where("status = ? AND (relatorio_url IS NULL OR relatorio_url = '')", lifecycle.StatusAwaitingValidation)
	}},
	{"agendada sem data", func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Vistoria{}).
			Where("status IN ? AND dataagendada IS NULL", lifecycle.Strings([]lifecycle.Status{lifecycle.StatusScheduled, lifecycle.StatusRescheduled}))
	}},
	{"funcionário sem cargo", func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Funcionario{}).Where("cargo = ''")
	}},
}

func main() {
	boot, err := config.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Load(boot)

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		boot.Fatal("Failed to connect to database", zap.Error(err))
	}

	fmt.Println("========================================")
	fmt.Println("VERIFICATION: Vistorias")
	fmt.Println("========================================")

	var counts []statusCount
	if err := db.Model(&models.Vistoria{}).Select("status, COUNT(*) AS total").Group("status").Order("status").Scan(&counts).Error; err != nil {
		boot.Fatal("Query failed", zap.Error(err))
	}
	fmt.Println("\nVistorias por status:")
	for _, c := range counts {
		fmt.Printf("  %-40s %d\n", c.Status, c.Total)
	}

	failed := 0
	fmt.Println("\nConsistência:")
	for _, c := range checks {
		var n int64
		if err := c.query(db).Count(&n).Error; err != nil {
			boot.Fatal("Query failed", zap.String("check", c.name), zap.Error(err))
		}
		mark := "✅"
		if n > 0 {
			mark = "❌"
			failed++
		}
		fmt.Printf("  %s %s: %d\n", mark, c.name, n)
	}

	fmt.Println("\n========================================")
	if failed > 0 {
		fmt.Printf("%d verificação(ões) falharam\n", failed)
		os.Exit(1)
	}
	fmt.Println("Tudo certo")
}
