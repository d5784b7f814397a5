// Package adapters はinstrumentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"trademaster/internal/feature/instruments/domain/entity"
	"trademaster/internal/feature/instruments/usecase"
)

// instrumentGorm はCatalogRepositoryインターフェースのSQL実装です。
// カタログは外部で投入済みのinstrumentsテーブルから読み出します。
type instrumentGorm struct {
	db *gorm.DB
}

var _ usecase.CatalogRepository = (*instrumentGorm)(nil)

// NewInstrumentRepository は指定されたDB接続でinstrumentGormリポジトリの新しいインスタンスを生成します。
func NewInstrumentRepository(db *gorm.DB) *instrumentGorm {
	return &instrumentGorm{db: db}
}

// ListInstruments は投入順(id順)にすべての銘柄を返します。
// Resolveは先勝ちなので順序を保つ必要があります。
func (r *instrumentGorm) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	var list []entity.Instrument
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
