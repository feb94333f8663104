package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

type ImovelRepo interface {
	CreateWithVistoria(ctx context.Context, imovel *models.Imovel) (*models.Vistoria, error)
	IncrementRealizadas(ctx context.Context, tx *gorm.DB, idImovel int64) error
}

type imovelRepo struct {
	base
	log *zap.Logger
}

func NewImovelRepo(db *gorm.DB, log *zap.Logger) ImovelRepo {
	return &imovelRepo{base: base{db: db}, log: log.With(zap.String("repo", "ImovelRepo"))}
}

// CreateWithVistoria inserts the property and its first inspection together.
func (r *imovelRepo) CreateWithVistoria(ctx context.Context, imovel *models.Imovel) (*models.Vistoria, error) {
	var v models.Vistoria
	err := r.inTx(ctx, nil, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Empreendimento{}).Where("idempreendimento = ?", imovel.IDEmpreendimento).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return utils.InvalidInput("empreendimento não encontrado")
		}
		if err := tx.Model(&models.Cliente{}).Where("idcliente = ?", imovel.IDCliente).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return utils.InvalidInput("cliente não encontrado")
		}

		imovel.VistoriasRealizadas = 0
		if err := tx.Create(imovel).Error; err != nil {
			return err
		}
		v = models.Vistoria{
			IDImovel:  imovel.ID,
			IDCliente: imovel.IDCliente,
			Status:    lifecycle.InitialStatus,
		}
		return tx.Create(&v).Error
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("imovel created", zap.Int64("imovel_id", imovel.ID), zap.Int64("vistoria_id", v.ID))
	return &v, nil
}

func (r *imovelRepo) IncrementRealizadas(ctx context.Context, tx *gorm.DB, idImovel int64) error {
	res := r.conn(ctx, tx).Model(&models.Imovel{}).
		Where("idimovel = ?", idImovel).
		UpdateColumn("vistoriasrealizadas", gorm.Expr("vistoriasrealizadas + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
