package repository

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

// ContaRepo covers client and employee accounts.
type ContaRepo interface {
	CreateCliente(ctx context.Context, c *models.Cliente, senha string) error
	CreateFuncionario(ctx context.Context, f *models.Funcionario, senha string) error
	FindClienteByEmail(ctx context.Context, email string) (*models.Cliente, error)
	FindFuncionarioByEmail(ctx context.Context, email string) (*models.Funcionario, error)
	SetCargo(ctx context.Context, idFuncionario int64, cargo lifecycle.Role) (*models.Funcionario, error)
}

type contaRepo struct {
	base
	cost int
	log  *zap.Logger
}

func NewContaRepo(db *gorm.DB, bcryptCost int, log *zap.Logger) ContaRepo {
	return &contaRepo{base: base{db: db}, cost: bcryptCost, log: log.With(zap.String("repo", "ContaRepo"))}
}

func (r *contaRepo) hash(senha string) (string, error) {
	if len(senha) < 6 {
		return "", utils.InvalidInput("senha deve ter ao menos 6 caracteres")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(senha), r.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *contaRepo) CreateCliente(ctx context.Context, c *models.Cliente, senha string) error {
	h, err := r.hash(senha)
	if err != nil {
		return err
	}
	c.Senha = h
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return r.conn(ctx, nil).Create(c).Error
}

func (r *contaRepo) CreateFuncionario(ctx context.Context, f *models.Funcionario, senha string) error {
	if !f.Cargo.Valid() {
		return utils.InvalidInput("cargo inválido")
	}
	h, err := r.hash(senha)
	if err != nil {
		return err
	}
	f.Senha = h
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return r.conn(ctx, nil).Create(f).Error
}

func (r *contaRepo) FindClienteByEmail(ctx context.Context, email string) (*models.Cliente, error) {
	var c models.Cliente
	res := r.conn(ctx, nil).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Limit(1).Find(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return &c, nil
}

func (r *contaRepo) FindFuncionarioByEmail(ctx context.Context, email string) (*models.Funcionario, error) {
	var f models.Funcionario
	res := r.conn(ctx, nil).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Limit(1).Find(&f)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return &f, nil
}

// SetCargo replaces the employee's single role in one statement.
func (r *contaRepo) SetCargo(ctx context.Context, idFuncionario int64, cargo lifecycle.Role) (*models.Funcionario, error) {
	if !cargo.Valid() {
		return nil, utils.InvalidInput("cargo inválido")
	}
	var f models.Funcionario
	err := r.inTx(ctx, nil, func(tx *gorm.DB) error {
		res := tx.Model(&models.Funcionario{}).Where("id = ?", idFuncionario).Update("cargo", cargo)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return tx.First(&f, idFuncionario).Error
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("cargo updated", zap.Int64("funcionario_id", idFuncionario), zap.String("cargo", string(cargo)))
	return &f, nil
}
