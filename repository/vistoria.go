package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

// ListFilter narrows FetchMany. Zero values do not filter.
type ListFilter struct {
	ClientID    *int64
	InspectorID *int64
	Unassigned  bool
	Statuses    []lifecycle.Status
}

type VistoriaRepo interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	FetchOne(ctx context.Context, tx *gorm.DB, id int64) (*models.Vistoria, error)
	FetchDetail(ctx context.Context, tx *gorm.DB, id int64) (*models.VistoriaDetalhe, error)
	FetchMany(ctx context.Context, tx *gorm.DB, f ListFilter) ([]models.VistoriaResumo, error)
	FetchRelatorioContexto(ctx context.Context, tx *gorm.DB, id, inspectorID int64) (*models.RelatorioContexto, error)
	ConditionalUpdate(ctx context.Context, tx *gorm.DB, id int64, guard Guard, updates map[string]any) ([]models.Vistoria, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) (int64, error)
}

type vistoriaRepo struct {
	base
	log *zap.Logger
}

func NewVistoriaRepo(db *gorm.DB, log *zap.Logger) VistoriaRepo {
	return &vistoriaRepo{base: base{db: db}, log: log.With(zap.String("repo", "VistoriaRepo"))}
}

// Development images are stored under the "empreendimentos/" prefix; the
// column only holds the file name.
const imagemEmpreendimento = `CASE WHEN e.anexos IS NULL OR e.anexos = '' THEN NULL
		ELSE ('empreendimentos/' || e.anexos) END`

const (
	resumoSelect = `v.idvistoria, v.status, v.dataagendada, v.datahorainicio, v.datahorafim,
		v.idvistoriador, v.relatorio_url, v.idimovel, i.descricao, i.bloco, i.numero,
		e.nome AS nomeempreendimento, ` + imagemEmpreendimento + ` AS imagemempreendimento, c.nome AS nomecliente`

	detalheSelect = `v.*, i.observacoes AS observacoesimovel, i.descricao, i.bloco, i.numero,
		i.vistoriasrealizadas, ` + imagemEmpreendimento + ` AS anexos, e.nome AS nomeempreendimento, e.cidade, e.estado, e.cep, e.rua,
		c.nome AS nomecliente, c.cpf AS cpfcliente, f.nome AS nomevistoriador`

	contextoSelect = `v.idvistoria, v.status, v.idvistoriador, v.idimovel, e.cep,
		e.nome AS nomeempreendimento, i.bloco, i.numero, f.nome AS nomevistoriador,
		f.cpf AS cpfvistoriador, f.email AS emailvistoriador, c.nome AS nomecliente,
		c.email AS emailcliente`

	// Portable form of "dataagendada ASC NULLS LAST".
	listOrder = "v.dataagendada IS NULL, v.dataagendada ASC, v.idvistoria DESC"
)

func (r *vistoriaRepo) joined(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return r.conn(ctx, tx).
		Table("vistoria v").
		Joins("JOIN imovel i ON i.idimovel = v.idimovel").
		Joins("LEFT JOIN empreendimento e ON e.idempreendimento = i.idempreendimento").
		Joins("JOIN cliente c ON c.idcliente = v.idcliente").
		Joins("LEFT JOIN funcionario f ON f.id = v.idvistoriador")
}

func (r *vistoriaRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *vistoriaRepo) FetchOne(ctx context.Context, tx *gorm.DB, id int64) (*models.Vistoria, error) {
	var v models.Vistoria
	res := r.conn(ctx, tx).Where("idvistoria = ?", id).Limit(1).Find(&v)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return &v, nil
}

func (r *vistoriaRepo) FetchDetail(ctx context.Context, tx *gorm.DB, id int64) (*models.VistoriaDetalhe, error) {
	var out []models.VistoriaDetalhe
	if err := r.joined(ctx, tx).Select(detalheSelect).Where("v.idvistoria = ?", id).Scan(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, utils.ErrNotFound
	}
	return &out[0], nil
}

func (r *vistoriaRepo) FetchMany(ctx context.Context, tx *gorm.DB, f ListFilter) ([]models.VistoriaResumo, error) {
	q := r.joined(ctx, tx).Select(resumoSelect)
	if f.ClientID != nil {
		q = q.Where("v.idcliente = ?", *f.ClientID)
	}
	if f.InspectorID != nil {
		q = q.Where("v.idvistoriador = ?", *f.InspectorID)
	}
	if f.Unassigned {
		q = q.Where("v.idvistoriador IS NULL")
	}
	if len(f.Statuses) > 0 {
		q = q.Where("v.status IN ?", lifecycle.Strings(f.Statuses))
	}

	out := []models.VistoriaResumo{}
	if err := q.Order(listOrder).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *vistoriaRepo) FetchRelatorioContexto(ctx context.Context, tx *gorm.DB, id, inspectorID int64) (*models.RelatorioContexto, error) {
	var out []models.RelatorioContexto
	err := r.joined(ctx, tx).
		Select(contextoSelect).
		Where("v.idvistoria = ? AND v.idvistoriador = ?", id, inspectorID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, utils.ErrNotFound
	}
	return &out[0], nil
}

// ConditionalUpdate applies updates to the row matching id and guard and
// returns the rows it changed. An empty result means the guard did not match.
func (r *vistoriaRepo) ConditionalUpdate(ctx context.Context, tx *gorm.DB, id int64, guard Guard, updates map[string]any) ([]models.Vistoria, error) {
	var out []models.Vistoria
	err := r.inTx(ctx, tx, func(t *gorm.DB) error {
		res := guard.apply(t.Model(&models.Vistoria{}).Where("idvistoria = ?", id)).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return t.Where("idvistoria = ?", id).Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		r.log.Debug("conditional update matched no rows", zap.Int64("vistoria_id", id))
	}
	return out, nil
}

func (r *vistoriaRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) (int64, error) {
	res := r.conn(ctx, tx).Where("idvistoria = ?", id).Delete(&models.Vistoria{})
	return res.RowsAffected, res.Error
}
