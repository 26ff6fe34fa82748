package domain

// Role роль пользователя, переданная слоем аутентификации
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor пользователь, от имени которого выполняется операция
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin возвращает true для администратора
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage проверяет право мутировать бронирование владельца ownerID
func (a Actor) CanManage(ownerID int64) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
