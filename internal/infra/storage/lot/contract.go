package lot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

type DBExecutor = txmanager.DBExecutor

// TxManager выполняет функцию в транзакции, передавая ее через context
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
