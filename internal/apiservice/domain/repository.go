package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, api *ApiService) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ApiService, error)
	Update(ctx context.Context, db *gorm.DB, api *ApiService) (bool, error)
	List(ctx context.Context, db *gorm.DB) ([]*ApiService, error)
}
