package lot

import "errors"

var (
	// ErrLotNotFound возвращается, когда парковка не найдена
	ErrLotNotFound = errors.New("lot.repository: lot not found")

	// ErrSlotNotFound возвращается, когда места с таким номером нет в парковке
	ErrSlotNotFound = errors.New("lot.repository: slot not found")

	// ErrStatusConflict возвращается, когда место не в ожидаемом статусе (условное обновление не сработало)
	ErrStatusConflict = errors.New("lot.repository: slot status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("lot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("lot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("lot.repository: failed to scan row")
)
